package logger

import (
	"log/slog"
	"time"
)

// Attribute helpers return an empty slog.Attr for zero inputs where that makes
// sense, so callers can pass them unconditionally: log.Info("msg", logger.Error(err)).

// Group creates a group of attributes under a single key.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error creates an attribute for a single error under the key "error".
// Returns an empty Attr for nil errors.
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

// Elapsed logs the duration since start.
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// RequestID creates an attribute for HTTP request IDs.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Method creates an attribute for HTTP methods.
func Method(method string) slog.Attr {
	return slog.String("method", method)
}

// Path creates an attribute for URL paths.
func Path(path string) slog.Attr {
	return slog.String("path", path)
}

// Query creates an attribute for raw query strings.
func Query(q string) slog.Attr {
	if q == "" {
		return slog.Attr{}
	}
	return slog.String("query", q)
}

// URL creates an attribute for absolute upstream URLs.
func URL(u string) slog.Attr {
	return slog.String("url", u)
}

// StatusCode creates an attribute for HTTP status codes.
func StatusCode(code int) slog.Attr {
	return slog.Int("status", code)
}

// ClientIP creates an attribute for the client address.
func ClientIP(ip string) slog.Attr {
	if ip == "" {
		return slog.Attr{}
	}
	return slog.String("client_ip", ip)
}

// UserAgent creates an attribute for the User-Agent header.
func UserAgent(ua string) slog.Attr {
	if ua == "" {
		return slog.Attr{}
	}
	return slog.String("user_agent", ua)
}

// BytesOut creates an attribute for response size.
func BytesOut(n int64) slog.Attr {
	return slog.Int64("bytes_out", n)
}

// Component names the subsystem emitting the record.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event names what happened.
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Channel names the API channel (json, upload) a call went through.
func Channel(name string) slog.Attr {
	return slog.String("channel", name)
}

// UserID creates an attribute for the authenticated principal.
func UserID(id int64) slog.Attr {
	if id == 0 {
		return slog.Attr{}
	}
	return slog.Int64("user_id", id)
}

// Role creates an attribute for the principal's role.
func Role(role string) slog.Attr {
	if role == "" {
		return slog.Attr{}
	}
	return slog.String("role", role)
}

// Count creates an integer attribute under a custom key.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}
