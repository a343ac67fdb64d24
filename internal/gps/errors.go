package gps

// Error codes mirror the platform geolocation API so clients can relay them
// unchanged.
const (
	CodePermissionDenied    = 1
	CodePositionUnavailable = 2
	CodeTimeout             = 3
)

// Error is a typed positioning failure. The sampler never retries; retry
// policy belongs to the caller.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

func PermissionDenied() *Error {
	return &Error{Code: CodePermissionDenied, Message: "location access denied, grant permission in settings"}
}

func PositionUnavailable() *Error {
	return &Error{Code: CodePositionUnavailable, Message: "searching for satellites, check for open sky"}
}

func Timeout() *Error {
	return &Error{Code: CodeTimeout, Message: "weak GPS signal, try again"}
}
