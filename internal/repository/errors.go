package repository

import "errors"

// ErrNotFound is wrapped by every Get that misses.
var ErrNotFound = errors.New("not found")
