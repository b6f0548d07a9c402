package account

import "errors"

var (
	ErrNotFound           = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrIncorrectPassword  = errors.New("current password is incorrect")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidRole        = errors.New("invalid role")
	ErrWeakPassword       = errors.New("password is too short")
	ErrCompanyRequired    = errors.New("company is required for client accounts")
	ErrUnknownCompany     = errors.New("unknown company")
)
