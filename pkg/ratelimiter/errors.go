package ratelimiter

import "errors"

var (
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrInvalidTokenCount = errors.New("invalid token count")
	ErrContextCancelled  = errors.New("context cancelled")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrAlreadyStarted    = errors.New("memory store already started")
	ErrNotStarted        = errors.New("memory store not started")
	ErrShutdownTimeout   = errors.New("shutdown timeout exceeded")
)
