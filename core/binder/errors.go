package binder

import "errors"

var (
	// ErrUnsupportedMediaType is returned when the Content-Type is not JSON.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrMissingContentType is returned when the request has no Content-Type.
	ErrMissingContentType = errors.New("missing content type")

	// ErrFailedToParseJSON wraps every decoding failure.
	ErrFailedToParseJSON = errors.New("failed to parse JSON request body")

	// ErrBodyTooLarge is returned when the body exceeds the binder limit.
	ErrBodyTooLarge = errors.New("request body too large")
)
