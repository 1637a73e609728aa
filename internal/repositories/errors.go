package repositories

import "errors"

// ErrNotFound is returned by every Find* method when no row matches.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique column already holds the value.
var ErrDuplicate = errors.New("duplicate record")
