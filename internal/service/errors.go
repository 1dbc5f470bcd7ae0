package service

import (
	"errors"
	"strings"
)

var (
	ErrFavoriteNotFound   = errors.New("favorite not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCreds       = errors.New("invalid credentials")
	ErrQueryRequired      = errors.New("query required")
	ErrCatalogUnavailable = errors.New("catalog provider unavailable")
)

// FieldError is one violated input rule, addressed by the JSON field name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every violated rule of one request.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v *ValidationErrors) add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

// orNil keeps callers from returning a typed nil inside a non-nil error interface.
func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// AsValidation unwraps err into ValidationErrors when it is one.
func AsValidation(err error) (ValidationErrors, bool) {
	var v ValidationErrors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
