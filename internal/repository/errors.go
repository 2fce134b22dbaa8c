package repository

import "errors"

// ErrNotFound is returned when the referenced row does not exist.
var ErrNotFound = errors.New("not found")
