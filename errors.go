package boilerscore

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrInvalidArgument is wrapped by every error the classifier returns. It
// signals a bad tree, model or block reference, or a configuration value out
// of range. Degenerate inputs such as an empty document are not errors.
var ErrInvalidArgument = errors.New("invalid argument")

func invalidArgumentf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// ErrorSlice collects several errors into one, one message per line.
type ErrorSlice []error

func (es ErrorSlice) Error() string {
	buf := &bytes.Buffer{}
	for _, err := range es {
		buf.WriteString(err.Error())
		buf.WriteRune('\n')
	}
	return buf.String()
}

// Unwrap lets errors.Is and errors.As inspect every collected error.
func (es ErrorSlice) Unwrap() []error { return es }

// errOrNil returns nil for an empty slice so callers can return it directly.
func (es ErrorSlice) errOrNil() error {
	if len(es) == 0 {
		return nil
	}
	return es
}
