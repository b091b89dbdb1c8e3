package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUserExists is returned when a normalized FullName is taken.
	ErrUserExists = errors.New("user already exists")

	ErrUserNotFound = errors.New("user not found")
	ErrInactive     = errors.New("user is inactive")
	ErrBadPassword  = errors.New("wrong password")
)

// Authentication reason codes.
const (
	ReasonUserNotFound = "USER_NOT_FOUND"
	ReasonInactive     = "INACTIVE"
	ReasonBadPassword  = "BAD_PASSWORD"
)

// AuthReason maps an Authenticate error to its reason code. It returns ""
// for nil and for errors that are not authentication failures.
func AuthReason(err error) string {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return ReasonUserNotFound
	case errors.Is(err, ErrInactive):
		return ReasonInactive
	case errors.Is(err, ErrBadPassword):
		return ReasonBadPassword
	}
	return ""
}

// ValidationError lists required fields that were left blank.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// Required returns a ValidationError naming every blank field, or nil.
// fields alternates name and value.
func Required(fields ...string) error {
	var missing []string
	for i := 0; i+1 < len(fields); i += 2 {
		if strings.TrimSpace(fields[i+1]) == "" {
			missing = append(missing, fields[i])
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Fields: missing}
}
