package middleware

import (
	"maps"
	"net/http"

	"github.com/dmitrymomot/receiptbook/core/handler"
)

// SecurityHeadersConfig lists the headers set on every response.
// Empty values are not sent.
type SecurityHeadersConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool

	ContentTypeOptions      string
	FrameOptions            string
	ReferrerPolicy          string
	StrictTransportSecurity string
	ContentSecurityPolicy   string
	CacheControl            string

	CustomHeaders map[string]string
}

// APISecurity suits a JSON API that also serves files through
// token-in-query links: the Referrer-Policy keeps those URLs from leaking
// to third parties and responses are never cached.
var APISecurity = SecurityHeadersConfig{
	ContentTypeOptions:      "nosniff",
	FrameOptions:            "DENY",
	ReferrerPolicy:          "no-referrer",
	StrictTransportSecurity: "max-age=31536000; includeSubDomains",
	ContentSecurityPolicy:   "default-src 'none'; frame-ancestors 'none'",
	CacheControl:            "no-store",
}

// SecurityHeaders applies APISecurity.
func SecurityHeaders[C handler.Context]() handler.Middleware[C] {
	return SecurityHeadersWithConfig[C](APISecurity)
}

// SecurityHeadersWithConfig creates the middleware with custom headers.
func SecurityHeadersWithConfig[C handler.Context](cfg SecurityHeadersConfig) handler.Middleware[C] {
	headers := make(map[string]string)
	for name, value := range map[string]string{
		"X-Content-Type-Options":    cfg.ContentTypeOptions,
		"X-Frame-Options":           cfg.FrameOptions,
		"Referrer-Policy":           cfg.ReferrerPolicy,
		"Strict-Transport-Security": cfg.StrictTransportSecurity,
		"Content-Security-Policy":   cfg.ContentSecurityPolicy,
		"Cache-Control":             cfg.CacheControl,
	} {
		if value != "" {
			headers[name] = value
		}
	}
	maps.Copy(headers, cfg.CustomHeaders)

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			resp := next(ctx)
			if resp == nil {
				return nil
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				h := w.Header()
				for name, value := range headers {
					if h.Get(name) == "" {
						h.Set(name, value)
					}
				}
				return resp(w, r)
			}
		}
	}
}
