package response

import "net/http"

// HTTPError is a structured error rendered to clients.
type HTTPError struct {
	Status  int            `json:"-"`                 // HTTP status code (not in JSON)
	Code    string         `json:"code"`              // Machine-readable error code
	Message string         `json:"message"`           // Human-readable message
	Details map[string]any `json:"details,omitempty"` // Optional context
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status code for the error.
func (e HTTPError) StatusCode() int {
	return e.Status
}

// Is matches any HTTPError with the same status and code, so errors.Is
// keeps working after WithMessage or WithDetails.
func (e HTTPError) Is(target error) bool {
	t, ok := target.(HTTPError)
	return ok && t.Status == e.Status && t.Code == e.Code
}

// WithCode returns a copy of the error with a different machine-readable code.
func (e HTTPError) WithCode(code string) HTTPError {
	e.Code = code
	return e
}

// WithMessage returns a copy of the error with a custom message.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

// WithDetails returns a copy of the error with additional details.
func (e HTTPError) WithDetails(details map[string]any) HTTPError {
	e.Details = details
	return e
}

func newHTTPError(status int, code string) HTTPError {
	return HTTPError{Status: status, Code: code, Message: http.StatusText(status)}
}

var (
	ErrBadRequest            = newHTTPError(http.StatusBadRequest, "bad_request")
	ErrUnauthorized          = newHTTPError(http.StatusUnauthorized, "unauthorized")
	ErrForbidden             = newHTTPError(http.StatusForbidden, "forbidden")
	ErrNotFound              = newHTTPError(http.StatusNotFound, "not_found")
	ErrMethodNotAllowed      = newHTTPError(http.StatusMethodNotAllowed, "method_not_allowed")
	ErrConflict              = newHTTPError(http.StatusConflict, "conflict")
	ErrRequestEntityTooLarge = newHTTPError(http.StatusRequestEntityTooLarge, "request_entity_too_large")
	ErrUnsupportedMediaType  = newHTTPError(http.StatusUnsupportedMediaType, "unsupported_media_type")
	ErrUnprocessableEntity   = newHTTPError(http.StatusUnprocessableEntity, "unprocessable_entity")
	ErrTooManyRequests       = newHTTPError(http.StatusTooManyRequests, "too_many_requests")

	ErrInternalServerError = newHTTPError(http.StatusInternalServerError, "internal_server_error")
	ErrBadGateway          = newHTTPError(http.StatusBadGateway, "bad_gateway")
	ErrServiceUnavailable  = newHTTPError(http.StatusServiceUnavailable, "service_unavailable")
	ErrGatewayTimeout      = newHTTPError(http.StatusGatewayTimeout, "gateway_timeout")
)

// httpErrorsByStatus maps HTTP status codes to their corresponding HTTPError values
var httpErrorsByStatus = map[int]HTTPError{
	http.StatusBadRequest:            ErrBadRequest,
	http.StatusUnauthorized:          ErrUnauthorized,
	http.StatusForbidden:             ErrForbidden,
	http.StatusNotFound:              ErrNotFound,
	http.StatusMethodNotAllowed:      ErrMethodNotAllowed,
	http.StatusConflict:              ErrConflict,
	http.StatusRequestEntityTooLarge: ErrRequestEntityTooLarge,
	http.StatusUnsupportedMediaType:  ErrUnsupportedMediaType,
	http.StatusUnprocessableEntity:   ErrUnprocessableEntity,
	http.StatusTooManyRequests:       ErrTooManyRequests,
	http.StatusInternalServerError:   ErrInternalServerError,
	http.StatusBadGateway:            ErrBadGateway,
	http.StatusServiceUnavailable:    ErrServiceUnavailable,
	http.StatusGatewayTimeout:        ErrGatewayTimeout,
}
