package receiptbook

import (
	"errors"

	"github.com/dmitrymomot/receiptbook/app/receiptbook/account"
	"github.com/dmitrymomot/receiptbook/app/receiptbook/document"
	"github.com/dmitrymomot/receiptbook/core/binder"
	"github.com/dmitrymomot/receiptbook/core/handler"
	"github.com/dmitrymomot/receiptbook/core/response"
)

var errInvalidCredentials = response.ErrUnauthorized.
	WithCode("invalid_credentials").
	WithMessage("Invalid email or password")

// apiError maps domain errors to client-facing HTTP errors. Anything
// unknown is returned as is and rendered as 500 without its message.
func apiError(err error) error {
	switch {
	case errors.Is(err, account.ErrInvalidCredentials):
		return errInvalidCredentials
	case errors.Is(err, account.ErrIncorrectPassword):
		// The caller's token is valid, so this must not look like a 401.
		return response.ErrForbidden.WithCode("incorrect_password").WithMessage(err.Error())
	case errors.Is(err, account.ErrEmailTaken):
		return response.ErrConflict.WithCode("email_taken").WithMessage(err.Error())
	case errors.Is(err, account.ErrInvalidEmail),
		errors.Is(err, account.ErrInvalidRole),
		errors.Is(err, account.ErrWeakPassword),
		errors.Is(err, account.ErrCompanyRequired),
		errors.Is(err, account.ErrUnknownCompany):
		return response.ErrUnprocessableEntity.WithMessage(err.Error())
	case errors.Is(err, account.ErrNotFound),
		errors.Is(err, document.ErrNotFound),
		errors.Is(err, document.ErrBlobMissing):
		return response.ErrNotFound
	case errors.Is(err, document.ErrCompanyRequired):
		return response.ErrBadRequest.WithMessage(err.Error())
	case errors.Is(err, binder.ErrMissingContentType),
		errors.Is(err, binder.ErrUnsupportedMediaType):
		return response.ErrUnsupportedMediaType
	case errors.Is(err, binder.ErrBodyTooLarge):
		return response.ErrRequestEntityTooLarge
	case errors.Is(err, binder.ErrFailedToParseJSON):
		return response.ErrBadRequest.WithMessage("Malformed JSON request body")
	default:
		return err
	}
}

func fail(err error) handler.Response {
	return response.Error(apiError(err))
}
