package resource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/errors"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/metrics"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
)

const (
	defaultTimeout           = 10 * time.Second
	defaultUserAgent         = "bagzo-client"
	errorBodyReadLimit int64 = 4096
)

const (
	resourceProducts = "products"
	resourceUsers    = "users"
	resourceOrders   = "orders"
	resourceCart     = "cart"
	resourceAuth     = "auth"
)

var errBaseURLRequired = errors.New("store base url is required")

// Client issues collection-style CRUD calls against the store. It does not
// retry, cache or batch.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	metrics    *metrics.RemoteMetrics

	mu    sync.RWMutex
	token string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the store base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithMetrics records every call on m.
func WithMetrics(m *metrics.RemoteMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithToken sets the initial bearer token.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a store client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	client := &Client{
		baseURL:    strings.TrimSpace(baseURL),
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.baseURL == "" {
		return nil, errBaseURLRequired
	}
	if _, err := url.Parse(client.baseURL); err != nil {
		return nil, fmt.Errorf("invalid store base url: %w", err)
	}
	return client, nil
}

// SetToken replaces the bearer token sent with every request. An empty token
// stops sending the header.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = strings.TrimSpace(token)
	c.mu.Unlock()
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type call struct {
	method   string
	resource string
	path     string
	query    url.Values
	body     any
	out      any
}

func (c *Client) do(ctx context.Context, req call) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "store client not configured")
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("encode %s request", req.resource))
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.buildURL(req.path, req.query), body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("build %s request", req.resource))
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.Observe(req.resource, req.method, 0, time.Since(started))
		return pkgerrors.Remote(pkgerrors.CodeRemote, 0, req.resource, err, "store unreachable")
	}
	defer func() { _ = resp.Body.Close() }()
	c.metrics.Observe(req.resource, req.method, resp.StatusCode, time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(req, resp)
	}

	if req.out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(req.out); err != nil {
		return pkgerrors.Remote(pkgerrors.CodeRemote, resp.StatusCode, req.resource, err, fmt.Sprintf("decode %s response", req.resource))
	}
	return nil
}

// statusError converts a non-2xx response. Auth and conflict statuses keep the
// code the store put in its error envelope; a missing row on DELETE is
// NOT_FOUND; everything else is a remote failure.
func statusError(req call, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))

	message := http.StatusText(resp.StatusCode)
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		message = envelope.Error.Message
	} else if text := strings.TrimSpace(string(raw)); text != "" && !strings.HasPrefix(text, "{") {
		message = text
	}

	code := pkgerrors.CodeRemote
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusConflict:
		code = pkgerrors.CodeForStatus(resp.StatusCode)
		if envelope.Error.Code != "" {
			code = pkgerrors.Code(envelope.Error.Code)
		}
	case http.StatusNotFound:
		if req.method == http.MethodDelete {
			code = pkgerrors.CodeNotFound
		}
	}

	cause := fmt.Errorf("%s %s: status %d", req.method, req.path, resp.StatusCode)
	return pkgerrors.Remote(code, resp.StatusCode, req.resource, cause, message)
}

func (c *Client) buildURL(path string, query url.Values) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	full := fmt.Sprintf("%s/%s", trimmed, path)
	if len(query) > 0 {
		full += "?" + query.Encode()
	}
	return full
}

func itemPath(collection, id string) string {
	return collection + "/" + url.PathEscape(strings.TrimSpace(id))
}

func requireID(resource, id string) error {
	if strings.TrimSpace(id) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s id is required", resource))
	}
	return nil
}
