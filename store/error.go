package store

import (
	"errors"
)

var ErrInternal = errors.New("internal error")

var ErrNotFound = errors.New("not found")

var ErrClosed = errors.New("store closed")
