// Package binder decodes HTTP request bodies into Go structs.
//
// JSON is strict: it requires an application/json Content-Type, rejects
// unknown fields and trailing data, and caps the body size.
//
//	var req loginRequest
//	if err := binder.JSON()(ctx.Request(), &req); err != nil {
//		return response.Error(response.ErrBadRequest)
//	}
//
// Errors wrap ErrMissingContentType, ErrUnsupportedMediaType,
// ErrBodyTooLarge or ErrFailedToParseJSON.
package binder
