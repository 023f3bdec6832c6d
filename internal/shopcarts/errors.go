package shopcarts

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced shopcart or item does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports malformed or missing input. Handlers map it to 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Invalidf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
