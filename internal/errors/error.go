package errors

import (
	"errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig  Category = "config"
	CategoryFixture Category = "fixture"
	CategoryStore   Category = "store"
	CategoryRender  Category = "render"
	CategoryServer  Category = "server"
	CategoryCLI     Category = "cli"
)

// CosmosError is a structured error with a code, a hint and documentation.
type CosmosError struct {
	// Code is a unique error identifier (e.g., "E200").
	Code string

	// Category is the error type (config, fixture, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Subject names the fixture, file or key the error is about.
	Subject string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *CosmosError) Error() string {
	msg := e.Message
	if e.Subject != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Subject)
	}
	if e.Wrapped != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Wrapped)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *CosmosError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target carries the same code.
func (e *CosmosError) Is(target error) bool {
	t, ok := target.(*CosmosError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithSubject records what the error is about.
func (e *CosmosError) WithSubject(s string) *CosmosError {
	e.Subject = s
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *CosmosError) WithSuggestion(s string) *CosmosError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *CosmosError) WithDetail(d string) *CosmosError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *CosmosError) Wrap(err error) *CosmosError {
	e.Wrapped = err
	return e
}

// New creates a CosmosError from a registered error code.
func New(code string) *CosmosError {
	template, ok := registry[code]
	if !ok {
		return &CosmosError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &CosmosError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new CosmosError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *CosmosError {
	return &CosmosError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a CosmosError.
func FromError(err error, code string) *CosmosError {
	if err == nil {
		return nil
	}
	var ce *CosmosError
	if errors.As(err, &ce) {
		return ce
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err is, or wraps, a CosmosError with the given code.
func HasCode(err error, code string) bool {
	var ce *CosmosError
	for err != nil {
		if errors.As(err, &ce) {
			if ce.Code == code {
				return true
			}
			err = ce.Wrapped
			continue
		}
		return false
	}
	return false
}

// CodeOf returns the code of the outermost CosmosError in err's chain, or "".
func CodeOf(err error) string {
	var ce *CosmosError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
