package password

import "errors"

var (
	ErrMalformedCredentialRecord = errors.New("malformed credential record")
	ErrSaltGeneration            = errors.New("failed to generate salt")
)
