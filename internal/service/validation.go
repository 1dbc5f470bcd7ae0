package service

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"

	"watchlist/internal/domain"
	"watchlist/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Field is one optional input value. Set is false when the key was absent from the body;
// a Set field with a nil Value is an explicit null.
type Field[T any] struct {
	Set   bool
	Value *T
}

func value[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

func (f Field[T]) column() interface{} {
	if f.Value == nil {
		return nil
	}
	return *f.Value
}

// FavoriteInput is a validated favorite body.
type FavoriteInput struct {
	Title     Field[string]
	Type      Field[string]
	Director  Field[string]
	Budget    Field[float64]
	Location  Field[string]
	Duration  Field[string]
	Year      Field[int]
	PosterURL Field[string]
}

// ParseFavoriteInput decodes and validates a favorite body. With partial set only the keys
// present are checked and nothing is required. Unknown keys are ignored.
func ParseFavoriteInput(body []byte, partial bool) (*FavoriteInput, error) {
	raw := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
			return nil, ValidationErrors{{Field: "body", Message: "Request body must be a JSON object"}}
		}
	}

	var (
		in   FavoriteInput
		errs ValidationErrors
		ok   bool
	)

	if in.Title, ok = stringField(raw, "title", "Title", &errs); ok {
		if in.Title.Value != nil {
			t := strings.TrimSpace(*in.Title.Value)
			in.Title.Value = &t
		}
		if (in.Title.Set || !partial) && (in.Title.Value == nil || *in.Title.Value == "") {
			errs.add("title", "Title is required")
		}
	}

	if in.Type, ok = stringField(raw, "type", "Type", &errs); ok {
		if in.Type.Set || !partial {
			if in.Type.Value == nil || validate.Var(*in.Type.Value, "oneof=movie show") != nil {
				errs.add("type", "Type must be either movie or show")
			}
		}
	}

	in.Director, _ = stringField(raw, "director", "Director", &errs)
	in.Location, _ = stringField(raw, "location", "Location", &errs)
	in.Duration, _ = stringField(raw, "duration", "Duration", &errs)

	if in.PosterURL, ok = stringField(raw, "posterUrl", "Poster URL", &errs); ok && in.PosterURL.Value != nil {
		u := strings.TrimSpace(*in.PosterURL.Value)
		switch {
		case u == "":
			in.PosterURL.Value = nil
		case validate.Var(u, "url") != nil:
			errs.add("posterUrl", "Poster URL must be a valid URL")
		default:
			in.PosterURL.Value = &u
		}
	}

	var budget Field[float64]
	if budget, ok = numberField(raw, "budget", "Budget", &errs); ok {
		if budget.Value != nil && validate.Var(*budget.Value, "gte=0") != nil {
			errs.add("budget", "Budget must be a non-negative number")
		}
		in.Budget = budget
	}

	var year Field[float64]
	if year, ok = numberField(raw, "year", "Year", &errs); ok {
		switch {
		case year.Value == nil:
			in.Year = Field[int]{Set: year.Set}
		case *year.Value != math.Trunc(*year.Value) || math.Abs(*year.Value) > math.MaxInt32:
			errs.add("year", "Year must be an integer")
		default:
			in.Year = value(int(*year.Value))
		}
	}

	if err := errs.orNil(); err != nil {
		return nil, err
	}
	return &in, nil
}

// stringField reads key as a string or null. ok is false when the key held another JSON type.
func stringField(raw map[string]json.RawMessage, key, label string, errs *ValidationErrors) (Field[string], bool) {
	msg, present := raw[key]
	if !present {
		return Field[string]{}, true
	}
	if isNull(msg) {
		return Field[string]{Set: true}, true
	}
	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		errs.add(key, label+" must be a string")
		return Field[string]{}, false
	}
	return value(s), true
}

// numberField reads key as a JSON number, a numeric string, or null. Blank strings count as null.
func numberField(raw map[string]json.RawMessage, key, label string, errs *ValidationErrors) (Field[float64], bool) {
	msg, present := raw[key]
	if !present {
		return Field[float64]{}, true
	}
	if isNull(msg) {
		return Field[float64]{Set: true}, true
	}
	var n float64
	if err := json.Unmarshal(msg, &n); err == nil {
		return value(n), true
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return Field[float64]{Set: true}, true
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
			return value(n), true
		}
	}
	errs.add(key, label+" must be a number")
	return Field[float64]{}, false
}

func isNull(msg json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(msg), []byte("null"))
}

// Model builds a new favorite owned by userID.
func (in *FavoriteInput) Model(userID uint) *models.Favorite {
	f := &models.Favorite{
		UserID:    userID,
		Director:  in.Director.Value,
		Budget:    in.Budget.Value,
		Location:  in.Location.Value,
		Duration:  in.Duration.Value,
		Year:      in.Year.Value,
		PosterURL: in.PosterURL.Value,
	}
	if in.Title.Value != nil {
		f.Title = *in.Title.Value
	}
	if in.Type.Value != nil {
		f.Type = *in.Type.Value
	}
	return f
}

// Columns maps the input to update columns. With replace set every descriptive column is
// written and absent optional fields become NULL; otherwise only keys present in the body are.
func (in *FavoriteInput) Columns(replace bool) map[string]interface{} {
	cols := map[string]interface{}{}
	put := func(name string, set bool, v interface{}) {
		if set || replace {
			cols[name] = v
		}
	}
	put("title", in.Title.Set, in.Title.column())
	put("type", in.Type.Set, in.Type.column())
	put("director", in.Director.Set, in.Director.column())
	put("budget", in.Budget.Set, in.Budget.column())
	put("location", in.Location.Set, in.Location.column())
	put("duration", in.Duration.Set, in.Duration.column())
	put("year", in.Year.Set, in.Year.column())
	put("poster_url", in.PosterURL.Set, in.PosterURL.column())
	return cols
}

// ListQuery is a validated list request.
type ListQuery struct {
	Page   int
	Limit  int
	Type   string
	Search string
}

// ParseListQuery validates raw query parameters. Empty values take defaults and limit is
// capped at domain.MaxLimit.
func ParseListQuery(page, limit, typ, search string) (ListQuery, error) {
	q := ListQuery{Page: domain.DefaultPage, Limit: domain.DefaultLimit, Type: domain.FilterAll}
	var errs ValidationErrors

	if page = strings.TrimSpace(page); page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 1 {
			errs.add("page", "Page must be a positive integer")
		} else {
			q.Page = n
		}
	}
	if limit = strings.TrimSpace(limit); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			errs.add("limit", "Limit must be a positive integer")
		} else {
			q.Limit = min(n, domain.MaxLimit)
		}
	}
	if typ = strings.ToLower(strings.TrimSpace(typ)); typ != "" {
		if typ != domain.FilterAll && !domain.IsFavoriteType(typ) {
			errs.add("type", "Type must be one of all, movie or show")
		} else {
			q.Type = typ
		}
	}
	q.Search = strings.TrimSpace(search)

	if err := errs.orNil(); err != nil {
		return ListQuery{}, err
	}
	return q, nil
}
