package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/smcd-ma/portal/core/logger"
	"github.com/smcd-ma/portal/core/session"
)

const maxErrorBody = 64 << 10

// channel is one transport lane with its own timeout.
type channel struct {
	name    string
	http    *http.Client
	timeout time.Duration
}

// Client calls the remote JSON API. It has a JSON channel and an upload
// channel with a longer timeout; both apply the same credential rule.
type Client struct {
	baseURL *url.URL
	json    *channel
	upload  *channel
	rule    credentialRule
	logger  *slog.Logger
}

// New creates a Client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: u,
		json:    &channel{name: "json", http: http.DefaultClient, timeout: 15 * time.Second},
		upload:  &channel{name: "upload", http: http.DefaultClient, timeout: 5 * time.Minute},
		rule:    credentialRule{token: SessionToken},
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(logger.Component("apiclient"))
	return c, nil
}

// NewFromConfig creates a Client from cfg.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	base := []Option{}
	if cfg.Timeout > 0 {
		base = append(base, WithTimeout(cfg.Timeout))
	}
	if cfg.UploadTimeout > 0 {
		base = append(base, WithUploadTimeout(cfg.UploadTimeout))
	}
	return New(cfg.BaseURL, append(base, opts...)...)
}

// Get calls GET path and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out, opts)
}

// Post calls POST path with in encoded as JSON.
func (c *Client) Post(ctx context.Context, path string, in, out any, opts ...RequestOption) error {
	return c.doJSON(ctx, http.MethodPost, path, in, out, opts)
}

// Put calls PUT path with in encoded as JSON.
func (c *Client) Put(ctx context.Context, path string, in, out any, opts ...RequestOption) error {
	return c.doJSON(ctx, http.MethodPut, path, in, out, opts)
}

// Patch calls PATCH path with in encoded as JSON.
func (c *Client) Patch(ctx context.Context, path string, in, out any, opts ...RequestOption) error {
	return c.doJSON(ctx, http.MethodPatch, path, in, out, opts)
}

// Delete calls DELETE path.
func (c *Client) Delete(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, out, opts)
}

// File is the file part of an upload.
type File struct {
	Field       string
	Name        string
	ContentType string
	Content     io.Reader
}

// Upload posts a multipart form on the upload channel. The body is streamed,
// never buffered whole. file.Content is no longer read once Upload returns.
func (c *Client) Upload(ctx context.Context, path string, fields map[string]string, file File, out any, opts ...RequestOption) error {
	pr, pw := io.Pipe()

	mw := multipart.NewWriter(pw)
	done := make(chan struct{})
	go func() {
		defer close(done)
		pw.CloseWithError(writeMultipart(mw, fields, file))
	}()

	err := c.do(ctx, c.upload, http.MethodPost, path, pr, mw.FormDataContentType(), out, opts)

	// The writer must stop reading file.Content before the caller closes it.
	pr.CloseWithError(io.ErrClosedPipe)
	<-done
	return err
}

func writeMultipart(mw *multipart.Writer, fields map[string]string, file File) error {
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		if err := mw.WriteField(k, fields[k]); err != nil {
			return err
		}
	}

	field := file.Field
	if field == "" {
		field = "file"
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, file.Name))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if file.Content != nil {
		if _, err := io.Copy(part, file.Content); err != nil {
			return err
		}
	}
	return mw.Close()
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any, opts []RequestOption) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, c.json, method, path, body, contentType, out, opts)
}

// do is the single send path shared by both channels.
func (c *Client) do(ctx context.Context, ch *channel, method, path string, body io.Reader, contentType string, out any, opts []RequestOption) error {
	o := requestOptions{header: make(http.Header)}
	for _, opt := range opts {
		opt(&o)
	}

	callCtx, cancel := context.WithTimeout(ctx, ch.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, method, c.resolve(path, o.query), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, vs := range o.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	credentialed := false
	if !o.anonymous {
		credentialed = c.rule.attach(req)
	}

	start := time.Now()
	resp, err := ch.http.Do(req)
	if err != nil {
		if session.Revoked(callCtx) {
			return fmt.Errorf("%s %s: %w", method, path, ErrSessionRevoked)
		}
		c.logger.WarnContext(ctx, "api call failed",
			logger.Channel(ch.name),
			logger.Method(method),
			logger.Path(path),
			logger.Elapsed(start),
			logger.Error(err),
		)
		return &NetworkError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "api call",
		logger.Channel(ch.name),
		logger.Method(method),
		logger.Path(path),
		logger.StatusCode(resp.StatusCode),
		logger.Elapsed(start),
	)

	if c.rule.rejected(ctx, resp, credentialed) {
		c.logger.WarnContext(ctx, "credential rejected",
			logger.Channel(ch.name),
			logger.Method(method),
			logger.Path(path),
		)
		return &Error{Status: resp.StatusCode, Message: readMessage(resp.Body), rejected: true}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Message: readMessage(resp.Body)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		if session.Revoked(callCtx) {
			return fmt.Errorf("%s %s: %w", method, path, ErrSessionRevoked)
		}
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// readMessage extracts the server's message or error field.
func readMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		return payload.Error
	}
	return ""
}
