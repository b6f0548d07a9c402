package jwt

import "time"

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the time source used for iat, exp and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
