package jwt

import "errors"

var (
	// ErrInvalidToken is the only error Verify returns. It hides the
	// underlying reason from the token bearer.
	ErrInvalidToken = errors.New("invalid token")

	ErrMalformedToken          = errors.New("malformed token")
	ErrInvalidSignature        = errors.New("invalid token signature")
	ErrExpiredToken            = errors.New("token has expired")
	ErrUnexpectedSigningMethod = errors.New("unexpected signing method")
	ErrMissingSigningKey       = errors.New("missing signing key")
	ErrInvalidClaims           = errors.New("invalid claims")
	ErrDecode                  = errors.New("invalid base64url segment")
)
