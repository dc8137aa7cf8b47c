package apiclient

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Config holds the remote API settings.
type Config struct {
	BaseURL       string        `env:"API_BASE_URL" envDefault:"http://localhost:8080/api"`
	Timeout       time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
	UploadTimeout time.Duration `env:"API_UPLOAD_TIMEOUT" envDefault:"5m"`
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying client for both channels.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.json.http = hc
		c.upload.http = hc
	}
}

// WithTimeout sets the JSON channel timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.json.timeout = d
	}
}

// WithUploadTimeout sets the upload channel timeout.
func WithUploadTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.upload.timeout = d
	}
}

// WithTokenSource replaces the default session-backed token source.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.rule.token = ts
	}
}

// WithRejectHandler sets the hook run when a credential is rejected.
func WithRejectHandler(fn RejectFunc) Option {
	return func(c *Client) {
		c.rule.onReject = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// RequestOption configures a single call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	anonymous bool
	query     url.Values
	header    http.Header
}

// Anonymous sends the call without a bearer token. A 401 to an anonymous call
// is an ordinary error and does not tear down the session.
func Anonymous() RequestOption {
	return func(o *requestOptions) {
		o.anonymous = true
	}
}

// WithQuery adds query parameters.
func WithQuery(q url.Values) RequestOption {
	return func(o *requestOptions) {
		o.query = q
	}
}

// WithHeader adds a request header.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		o.header.Add(key, value)
	}
}
