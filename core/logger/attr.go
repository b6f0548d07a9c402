package logger

import (
	"log/slog"
	"net/url"
	"time"
)

// Attribute helpers return an empty Attr for empty input, so calls like
// log.Info("msg", logger.Error(err)) need no nil checks. slog drops empty Attrs.

// Group creates a group of attributes under a single key.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error creates an attribute for a single error under the key "error".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Duration creates an attribute for a duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// RequestID creates an attribute for HTTP request IDs.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// UserID creates an attribute for the authenticated user.
func UserID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("user_id", id)
}

// CompanyID creates an attribute for the tenant company.
func CompanyID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("company_id", id)
}

// Role creates an attribute for an authorization role.
func Role(role string) slog.Attr {
	if role == "" {
		return slog.Attr{}
	}
	return slog.String("role", role)
}

// Method creates an attribute for HTTP methods.
func Method(method string) slog.Attr {
	return slog.String("method", method)
}

// Path creates an attribute for URL paths.
func Path(path string) slog.Attr {
	return slog.String("path", path)
}

// Route creates an attribute for the matched route template.
func Route(pattern string) slog.Attr {
	if pattern == "" {
		return slog.Attr{}
	}
	return slog.String("route", pattern)
}

// Query creates an attribute for a raw query string. Values of the keys in
// redact are replaced with [REDACTED].
func Query(rawQuery string, redact ...string) slog.Attr {
	if rawQuery == "" {
		return slog.Attr{}
	}
	if len(redact) == 0 {
		return slog.String("query", rawQuery)
	}

	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		// Unparsable queries may still carry secrets.
		return slog.String("query", "[UNPARSABLE]")
	}
	for _, key := range redact {
		if _, ok := values[key]; ok {
			values[key] = []string{"[REDACTED]"}
		}
	}
	return slog.String("query", values.Encode())
}

// StatusCode creates an attribute for HTTP status codes.
func StatusCode(code int) slog.Attr {
	return slog.Int("status_code", code)
}

// RemoteAddr creates an attribute for the peer address.
func RemoteAddr(addr string) slog.Attr {
	if addr == "" {
		return slog.Attr{}
	}
	return slog.String("remote_addr", addr)
}

// BytesOut creates an attribute for outgoing bytes.
func BytesOut(n int64) slog.Attr {
	return slog.Int64("bytes_out", n)
}

// Component creates an attribute for component names.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event creates an attribute for event names.
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Action creates an attribute for action names.
func Action(action string) slog.Attr {
	return slog.String("action", action)
}

// RetryCount creates an attribute for retry attempts.
func RetryCount(count int) slog.Attr {
	return slog.Int("retry_count", count)
}
