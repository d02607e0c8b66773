package weather

import "errors"

// Fetch-path failures. Providers wrap one of these with the underlying cause,
// so callers classify with errors.Is.
var (
	// ErrBadRequest means the outbound request could not be constructed.
	ErrBadRequest = errors.New("bad request")
	// ErrTransport covers network failures and non-2xx responses.
	ErrTransport = errors.New("transport error")
	// ErrDecode means the payload was not valid JSON or lacked required fields.
	ErrDecode = errors.New("decode error")
	// ErrGeneric means the transport returned neither data nor an error.
	ErrGeneric = errors.New("generic error")
)

// ErrorKind names which of the fetch-path failures err is, for logs and metrics.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrBadRequest):
		return "bad_request"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrGeneric):
		return "generic"
	default:
		return "unknown"
	}
}
