package errs

import (
	"errors"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrBookNotFound    = errors.New("book not found")
	ErrNotAvailable    = errors.New("this book is not available for borrowing")
	ErrAlreadyReturned = errors.New("book has already been returned")
)
