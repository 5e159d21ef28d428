package fetch

import "github.com/pkg/errors"

// The error classes a fetch can return. Callers match them with
// [errors.Is]; the wrapped message carries the underlying cause.
var (
	ErrAborted             = errors.New("request aborted")
	ErrResolutionFailed    = errors.New("host resolution failed")
	ErrConnectFailed       = errors.New("connect failed")
	ErrWriteFailed         = errors.New("writing request failed")
	ErrInvalidResponse     = errors.New("invalid response")
	ErrUnsupportedEncoding = errors.New("unsupported transfer encoding")
	ErrUnsupportedScheme   = errors.New("unsupported scheme")
	ErrInternal            = errors.New("internal error")
)

var errorClasses = []error{
	ErrAborted,
	ErrResolutionFailed,
	ErrConnectFailed,
	ErrWriteFailed,
	ErrInvalidResponse,
	ErrUnsupportedEncoding,
	ErrUnsupportedScheme,
	ErrInternal,
}

func classified(err error) bool {
	for _, class := range errorClasses {
		if errors.Is(err, class) {
			return true
		}
	}
	return false
}
