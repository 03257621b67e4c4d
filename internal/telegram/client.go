package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://api.telegram.org"
	defaultTimeout = 10 * time.Second
	maxRedirects   = 10
)

// Client is a client for the Telegram Bot API.
//
// A Client only exists after a successful getMe, so Me is always valid.
// Every call is bounded by one timeout and is never retried.
//
// The offset, the message log and the vars map are guarded by mu. Poll holds
// mu for its whole read offset -> fetch -> advance offset -> append sequence,
// so concurrent polls cannot lose or duplicate updates.
type Client struct {
	token   string
	baseURL string
	apiURL  string
	fileURL string
	timeout time.Duration
	http    *resty.Client
	logger  *slog.Logger

	mu         sync.Mutex
	me         User
	offset     int
	messages   []Message
	vars       map[string]any
	autoStatus bool

	errMu   sync.Mutex
	lastErr error
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithTimeout sets the timeout applied to every call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithOffset sets the initial update offset.
func WithOffset(offset int) Option {
	return func(c *Client) { c.offset = offset }
}

// WithAutoStatus makes typed media senders emit a chat action first.
func WithAutoStatus(enabled bool) Option {
	return func(c *Client) { c.autoStatus = enabled }
}

// WithBaseURL points the client at another Bot API server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithHTTPClient replaces the underlying resty client. Its timeout is still
// overwritten by the client timeout.
func WithHTTPClient(hc *resty.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client and fetches the bot's own identity. If that fails the
// client is unusable and New returns an error wrapping ErrNotStarted.
func New(ctx context.Context, token string, opts ...Option) (*Client, error) {
	c := &Client{
		token:   token,
		baseURL: defaultBaseURL,
		timeout: defaultTimeout,
		logger:  slog.New(slog.DiscardHandler),
		vars:    make(map[string]any),
	}
	for _, opt := range opts {
		opt(c)
	}
	if token == "" {
		return nil, fmt.Errorf("%w: %w", ErrNotStarted, usageError("empty bot token"))
	}
	if c.http == nil {
		c.http = resty.New()
	}
	c.http.
		SetTimeout(c.timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects)).
		SetLogger(restyLogger{logger: c.logger, token: token})

	c.apiURL = fmt.Sprintf("%s/bot%s", c.baseURL, token)
	c.fileURL = fmt.Sprintf("%s/file/bot%s", c.baseURL, token)

	me, err := c.GetMe(ctx)
	if err != nil {
		c.logger.Warn("failed to start bot", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrNotStarted, err)
	}
	c.logger.Info("bot started", "id", me.ID, "first_name", me.FirstName)
	return c, nil
}

// Me returns the bot's own identity as of the last getMe.
func (c *Client) Me() User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.me
}

// Offset returns the smallest update id not yet consumed.
func (c *Client) Offset() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}

// Messages returns a copy of the received message log.
func (c *Client) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// DrainLog returns the message log and empties it in one step.
func (c *Client) DrainLog() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.messages
	c.messages = nil
	setMessageLogSize(0)
	return out
}

// ClearLog empties the message log.
func (c *Client) ClearLog() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger.Debug("flushing message log", "count", len(c.messages))
	c.messages = nil
	setMessageLogSize(0)
}

// AutoStatus reports whether typed senders emit chat actions.
func (c *Client) AutoStatus() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.autoStatus
}

// SetAutoStatus toggles chat actions before typed sends.
func (c *Client) SetAutoStatus(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoStatus = enabled
}

// Set stores caller-defined state on the client.
func (c *Client) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vars[key] = value
}

// Get returns caller-defined state stored with Set.
func (c *Client) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.vars[key]
	return v, ok
}

// Delete removes caller-defined state.
func (c *Client) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.vars, key)
}

// LastError returns the error of the most recent API call or download, or
// nil when that call succeeded. Local state accessors do not touch it.
func (c *Client) LastError() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.lastErr
}

func (c *Client) succeeded() {
	c.errMu.Lock()
	c.lastErr = nil
	c.errMu.Unlock()
}

func (c *Client) remember(method string, err error) error {
	c.errMu.Lock()
	c.lastErr = err
	c.errMu.Unlock()

	switch {
	case errors.Is(err, ErrUsage):
		recordError(method, errorTypeUsage)
		c.logger.Warn("rejected locally", "method", method, "error", err)
	case errors.Is(err, ErrResource):
		recordError(method, errorTypeResource)
		c.logger.Warn("local resource failure", "method", method, "error", err)
	case errors.Is(err, ErrMalformedPayload):
		recordError(method, errorTypeDecode)
		c.logger.Error("malformed payload", "method", method, "error", err)
	}
	return err
}

// uploadPart is the file field of a multipart request.
type uploadPart struct {
	field string
	file  *InputFile
}

// call performs one request and returns the result of a successful envelope.
// Plain calls are GET requests with query parameters; uploads are multipart
// POST requests carrying params as form fields.
func (c *Client) call(ctx context.Context, method string, params map[string]string, upload *uploadPart) (json.RawMessage, error) {
	startTime := time.Now()
	apiURL := fmt.Sprintf("%s/%s", c.apiURL, method)

	req := c.http.R().SetContext(ctx)
	var (
		resp *resty.Response
		err  error
	)
	if upload != nil {
		c.logger.Debug("uploading file", "method", method, "field", upload.field, "name", upload.file.Name)
		resp, err = req.
			SetFormData(params).
			SetFileReader(upload.field, upload.file.Name, upload.file).
			Post(apiURL)
	} else {
		c.logger.Debug("calling method", "method", method)
		resp, err = req.SetQueryParams(params).Get(apiURL)
	}
	duration := time.Since(startTime).Seconds()

	if err != nil {
		terr := c.transportError(method, err)
		if isTimeoutError(err) {
			recordRequestDuration(method, statusTimeout, duration)
			recordError(method, errorTypeTimeout)
		} else {
			recordRequestDuration(method, statusError, duration)
			recordError(method, errorTypeNetwork)
		}
		c.logger.Warn("request failed", "method", method, "error", terr)
		return nil, terr
	}

	var apiResp APIResponse
	if err := json.Unmarshal(resp.Body(), &apiResp); err != nil {
		recordRequestDuration(method, statusError, duration)
		if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
			recordError(method, errorTypeNetwork)
			return nil, &TransportError{Method: method, Err: err, text: fmt.Sprintf("unexpected status %d", resp.StatusCode())}
		}
		return nil, &MalformedPayloadError{Entity: "envelope", Err: err}
	}

	if !apiResp.Ok {
		recordRequestDuration(method, statusError, duration)
		recordError(method, errorTypeAPI)
		c.logger.Warn("server rejected request", "method", method,
			"error_code", apiResp.ErrorCode, "description", apiResp.Description)
		return nil, &APIError{Method: method, Code: apiResp.ErrorCode, Description: apiResp.Description}
	}

	recordRequestDuration(method, statusSuccess, duration)
	return apiResp.Result, nil
}

// invoke calls method and decodes its result into T.
func invoke[T any](ctx context.Context, c *Client, method string, params map[string]string, upload *uploadPart) (*T, error) {
	raw, err := c.call(ctx, method, params, upload)
	if err != nil {
		return nil, c.remember(method, err)
	}
	v, err := decodeResult[T](method, raw)
	if err != nil {
		return nil, c.remember(method, err)
	}
	c.succeeded()
	return v, nil
}

// transportError wraps err with the bot token removed from its text and
// from every error reachable through Unwrap.
func (c *Client) transportError(method string, err error) *TransportError {
	return &TransportError{Method: method, Err: c.redactError(err), text: c.redact(err.Error())}
}

// redactError rebuilds the *url.Error in err's chain around the redacted
// request URL. The underlying cause is kept so timeouts stay detectable.
func (c *Client) redactError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = &url.Error{Op: urlErr.Op, URL: c.redact(urlErr.URL), Err: urlErr.Err}
	}
	if strings.Contains(err.Error(), c.token) {
		return errors.New(c.redact(err.Error()))
	}
	return err
}

func (c *Client) redact(s string) string {
	return strings.ReplaceAll(s, c.token, "[REDACTED]")
}

// isTimeoutError reports whether err is a deadline or network timeout.
func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// restyLogger routes resty's own diagnostics into slog with the token removed.
type restyLogger struct {
	logger *slog.Logger
	token  string
}

func (l restyLogger) sanitize(format string, v ...interface{}) string {
	return strings.ReplaceAll(fmt.Sprintf(format, v...), l.token, "[REDACTED]")
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error(l.sanitize(format, v...), "component", "resty")
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn(l.sanitize(format, v...), "component", "resty")
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug(l.sanitize(format, v...), "component", "resty")
}
