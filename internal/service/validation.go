package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	maxTitleLength = 60
	maxNameLength  = 20
	yearLength     = 4
)

// ErrInvalidInput marks form input that failed validation. Nothing is written
// when it is returned.
var ErrInvalidInput = errors.New("invalid input")

// ValidateMovie checks a submitted title/year pair.
func ValidateMovie(title, year string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return fmt.Errorf("%w: title longer than %d characters", ErrInvalidInput, maxTitleLength)
	}
	if len(year) != yearLength {
		return fmt.Errorf("%w: year must have %d digits", ErrInvalidInput, yearLength)
	}
	for i := 0; i < len(year); i++ {
		if year[i] < '0' || year[i] > '9' {
			return fmt.Errorf("%w: year must be numeric", ErrInvalidInput)
		}
	}
	return nil
}

// ValidateName checks a display name.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return fmt.Errorf("%w: name longer than %d characters", ErrInvalidInput, maxNameLength)
	}
	return nil
}
