package errs

import (
	"errors"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrISBNExists = errors.New("book with this isbn already exists")
)
