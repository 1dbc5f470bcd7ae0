package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNoChanges    = errors.New("no changes to save")
	ErrNotInList    = errors.New("favorite is not in the list")
	ErrEditFinished = errors.New("edit session already finished")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int          `json:"-"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"errors"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if len(e.Fields) == 0 {
		return fmt.Sprintf("http %d: %s", e.Status, msg)
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return fmt.Sprintf("http %d: %s (%s)", e.Status, msg, strings.Join(parts, "; "))
}

func parseAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status}
	_ = json.Unmarshal(body, e)
	return e
}

func statusIs(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

func IsUnauthorized(err error) bool { return statusIs(err, http.StatusUnauthorized) }

func IsNotFound(err error) bool { return statusIs(err, http.StatusNotFound) }

func IsValidation(err error) bool { return statusIs(err, http.StatusBadRequest) }
