package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAuth             = errors.New("wrong email or password")
	ErrEmptyPassword    = errors.New("refusing to set empty password")
	ErrGroupNotFound    = errors.New("group not found")
	ErrLoginRequired    = errors.New("login required")
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrUserExists       = errors.New("user exists already")
)

// DuplicateContentError means that the title of a post equals its text.
type DuplicateContentError struct{}

func (DuplicateContentError) Error() string {
	return "the text must not be identical to the title"
}

type FieldTooLongError struct {
	Field string
	Max   int
}

func (e FieldTooLongError) Error() string {
	return fmt.Sprintf("%s must not be longer than %d characters", e.Field, e.Max)
}

type MissingFieldError struct {
	Field string
}

func (e MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// InvalidChoiceError means that a field references something which does not exist.
type InvalidChoiceError struct {
	Field string
}

func (e InvalidChoiceError) Error() string {
	return fmt.Sprintf("%s: select a valid choice", e.Field)
}

// InvalidFieldError is any other failed field rule, like a malformed email address.
type InvalidFieldError struct {
	Field string
	Rule  string
}

func (e InvalidFieldError) Error() string {
	return fmt.Sprintf("%s is invalid (%s)", e.Field, e.Rule)
}

// ValidationErrors collects all failures of one submission.
type ValidationErrors []error

func (errs ValidationErrors) Error() string {
	var msgs = make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap lets errors.Is and errors.As look into every failure.
func (errs ValidationErrors) Unwrap() []error {
	return errs
}

type GroupNotFoundError struct {
	Name string
}

func (e GroupNotFoundError) Error() string {
	return fmt.Sprintf("group %s not found", e.Name)
}

func (e GroupNotFoundError) Unwrap() error {
	return ErrGroupNotFound
}

// TransportError wraps a failure of the notification transport. It is logged, never returned to the user.
type TransportError struct {
	To  string
	Err error
}

func (e TransportError) Error() string {
	return fmt.Sprintf("sending notification to %s: %v", e.To, e.Err)
}

func (e TransportError) Unwrap() error {
	return e.Err
}
