package response

import (
	"errors"
	"net/http"
)

// Kind tags an HTTPError with the failure category it belongs to.
// The error boundary matches on it instead of inspecting concrete error types.
type Kind uint8

const (
	// KindDeclared is a fault explicitly tagged with a status code.
	KindDeclared Kind = iota + 1
	// KindResourceUnavailable is a local resource that is missing or unreadable.
	KindResourceUnavailable
	// KindUpstreamUnavailable is a remote dependency that failed or timed out.
	KindUpstreamUnavailable
	// KindRuntime is any failure that was not classified by the code that produced it.
	KindRuntime
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindDeclared:
		return "declared"
	case KindResourceUnavailable:
		return "resource_unavailable"
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	case KindRuntime:
		return "runtime"
	default:
		return "unknown"
	}
}

// HTTPError represents a failure that carries the HTTP status it should be rendered with.
type HTTPError struct {
	Kind    Kind   // Failure category
	Status  int    // HTTP status code
	Code    string // Machine-readable error code
	Message string // Human-readable message
	Expose  bool   // Message is safe to show to the client verbatim
	Err     error  // Underlying cause, never shown to the client
}

// NewHTTPError creates a declared fault with a custom status and message.
// The message is not exposed unless Exposed is called on the result.
func NewHTTPError(status int, message string) HTTPError {
	base, ok := httpErrorsByStatus[status]
	if !ok {
		base = HTTPError{Kind: KindDeclared, Status: status, Code: "http_error"}
	}
	base.Message = message
	return base
}

// ResourceUnavailable wraps a failure to read a local resource.
// It renders as 500 with the generic reason phrase.
func ResourceUnavailable(err error) HTTPError {
	return HTTPError{
		Kind:    KindResourceUnavailable,
		Status:  http.StatusInternalServerError,
		Code:    "resource_unavailable",
		Message: "resource unavailable",
		Err:     err,
	}
}

// UpstreamUnavailable wraps a failure of a remote dependency.
// It renders as 502 with the generic reason phrase.
func UpstreamUnavailable(err error) HTTPError {
	return HTTPError{
		Kind:    KindUpstreamUnavailable,
		Status:  http.StatusBadGateway,
		Code:    "upstream_unavailable",
		Message: "upstream unavailable",
		Err:     err,
	}
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e HTTPError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for the error.
func (e HTTPError) StatusCode() int {
	return e.Status
}

// Reason returns the standard reason phrase for the error status.
func (e HTTPError) Reason() string {
	if text := http.StatusText(e.Status); text != "" {
		return text
	}
	return http.StatusText(http.StatusInternalServerError)
}

// PublicText returns the text that may be shown to the client:
// the message for exposable faults, the reason phrase otherwise.
func (e HTTPError) PublicText() string {
	if e.Expose && e.Message != "" {
		return e.Message
	}
	return e.Reason()
}

// WithMessage returns a copy of the error with a custom message.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

// WithError returns a copy of the error with an error cause.
func (e HTTPError) WithError(err error) HTTPError {
	e.Err = err
	return e
}

// Exposed returns a copy of the error whose message is shown to the client.
func (e HTTPError) Exposed() HTTPError {
	e.Expose = true
	return e
}

// Predefined declared faults using http.StatusText for default messages.
var (
	ErrBadRequest = HTTPError{
		Kind:    KindDeclared,
		Status:  http.StatusBadRequest,
		Code:    "bad_request",
		Message: http.StatusText(http.StatusBadRequest),
	}

	ErrForbidden = HTTPError{
		Kind:    KindDeclared,
		Status:  http.StatusForbidden,
		Code:    "forbidden",
		Message: http.StatusText(http.StatusForbidden),
	}

	ErrNotFound = HTTPError{
		Kind:    KindDeclared,
		Status:  http.StatusNotFound,
		Code:    "not_found",
		Message: http.StatusText(http.StatusNotFound),
	}

	ErrMethodNotAllowed = HTTPError{
		Kind:    KindDeclared,
		Status:  http.StatusMethodNotAllowed,
		Code:    "method_not_allowed",
		Message: http.StatusText(http.StatusMethodNotAllowed),
	}

	ErrRequestTimeout = HTTPError{
		Kind:    KindDeclared,
		Status:  http.StatusRequestTimeout,
		Code:    "request_timeout",
		Message: http.StatusText(http.StatusRequestTimeout),
	}

	ErrTooManyRequests = HTTPError{
		Kind:    KindDeclared,
		Status:  http.StatusTooManyRequests,
		Code:    "too_many_requests",
		Message: http.StatusText(http.StatusTooManyRequests),
	}

	ErrInternalServerError = HTTPError{
		Kind:    KindDeclared,
		Status:  http.StatusInternalServerError,
		Code:    "internal_server_error",
		Message: http.StatusText(http.StatusInternalServerError),
	}

	ErrNotImplemented = HTTPError{
		Kind:    KindDeclared,
		Status:  http.StatusNotImplemented,
		Code:    "not_implemented",
		Message: http.StatusText(http.StatusNotImplemented),
	}

	ErrBadGateway = HTTPError{
		Kind:    KindDeclared,
		Status:  http.StatusBadGateway,
		Code:    "bad_gateway",
		Message: http.StatusText(http.StatusBadGateway),
	}

	ErrServiceUnavailable = HTTPError{
		Kind:    KindDeclared,
		Status:  http.StatusServiceUnavailable,
		Code:    "service_unavailable",
		Message: http.StatusText(http.StatusServiceUnavailable),
	}

	ErrGatewayTimeout = HTTPError{
		Kind:    KindDeclared,
		Status:  http.StatusGatewayTimeout,
		Code:    "gateway_timeout",
		Message: http.StatusText(http.StatusGatewayTimeout),
	}
)

// httpErrorsByStatus maps HTTP status codes to their corresponding HTTPError values
var httpErrorsByStatus = map[int]HTTPError{
	http.StatusBadRequest:          ErrBadRequest,
	http.StatusForbidden:           ErrForbidden,
	http.StatusNotFound:            ErrNotFound,
	http.StatusMethodNotAllowed:    ErrMethodNotAllowed,
	http.StatusRequestTimeout:      ErrRequestTimeout,
	http.StatusTooManyRequests:     ErrTooManyRequests,
	http.StatusInternalServerError: ErrInternalServerError,
	http.StatusNotImplemented:      ErrNotImplemented,
	http.StatusBadGateway:          ErrBadGateway,
	http.StatusServiceUnavailable:  ErrServiceUnavailable,
	http.StatusGatewayTimeout:      ErrGatewayTimeout,
}

// statusCode is an interface that errors can implement
// to provide a custom HTTP status code.
type statusCode interface {
	StatusCode() int
}

// Classify converts any error into the tagged HTTPError the error boundary renders.
//
// HTTPError values keep their kind (an unset kind is treated as declared);
// a status without a standard reason phrase becomes 500.
// Errors implementing StatusCode() int become declared faults with that status.
// Everything else is a runtime fault with status 500.
func Classify(err error) HTTPError {
	if err == nil {
		return HTTPError{}
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Kind == 0 {
			httpErr.Kind = KindDeclared
		}
		if http.StatusText(httpErr.Status) == "" {
			httpErr.Status = http.StatusInternalServerError
		}
		return httpErr
	}

	var sc statusCode
	if errors.As(err, &sc) && http.StatusText(sc.StatusCode()) != "" {
		base, ok := httpErrorsByStatus[sc.StatusCode()]
		if !ok {
			base = HTTPError{Kind: KindDeclared, Status: sc.StatusCode(), Code: "http_error", Message: http.StatusText(sc.StatusCode())}
		}
		return base.WithError(err)
	}

	return HTTPError{
		Kind:    KindRuntime,
		Status:  http.StatusInternalServerError,
		Code:    "internal_server_error",
		Message: err.Error(),
		Err:     err,
	}
}
