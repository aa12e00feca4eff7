// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/jeranaias/lintara-tui/internal/model"
)

// maxBodySize caps how much of a response is read.
const maxBodySize = 8 << 20

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the service client.
type ClientConfig struct {
	// BaseURL is the service root (default: http://localhost:8000)
	BaseURL string

	// Timeout for each request (default: 30s)
	Timeout time.Duration

	// PageSize is the default list limit (default: 10)
	PageSize int

	// RatePerSec paces requests. 0 disables pacing.
	RatePerSec float64

	// Token is the initial bearer token.
	Token string

	// UserAgent is sent with every request.
	UserAgent string

	// HTTPClient overrides the transport. Timeout is ignored when set.
	HTTPClient *http.Client

	Logger *zap.Logger
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:    "http://localhost:8000",
		Timeout:    30 * time.Second,
		PageSize:   10,
		RatePerSec: 5,
		UserAgent:  "lintara-tui",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the analysis service. It is safe for concurrent use.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	lists      singleflight.Group
	logger     *zap.Logger

	// listGen advances after every mutation. A list fetched before a
	// mutation is never shared with one started after it.
	listGen atomic.Uint64

	mu    sync.RWMutex
	token string
}

// NewClient creates a client. Zero fields in cfg take their defaults.
func NewClient(cfg *ClientConfig) *Client {
	defaults := DefaultConfig()
	if cfg == nil {
		cfg = defaults
	}
	c := *cfg

	if c.BaseURL == "" {
		c.BaseURL = defaults.BaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
	if c.PageSize <= 0 {
		c.PageSize = defaults.PageSize
	}
	if c.UserAgent == "" {
		c.UserAgent = defaults.UserAgent
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: c.Timeout}
	}

	var limiter *rate.Limiter
	if c.RatePerSec > 0 {
		burst := int(c.RatePerSec)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(c.RatePerSec), burst)
	}

	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		config:     c,
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger.Named("api"),
		token:      c.Token,
	}
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// PageSize returns the default list limit.
func (c *Client) PageSize() int {
	return c.config.PageSize
}

// SetToken replaces the bearer token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.listGen.Add(1)
}

// Token returns the bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Authenticated reports whether a token is set.
func (c *Client) Authenticated() bool {
	return c.Token() != ""
}

// CloseIdleConnections releases pooled connections.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// =============================================================================
// AUTH OPERATIONS
// =============================================================================

// Login exchanges credentials for a token. The token is stored on the client.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var out LoginResponse
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/login",
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
		anonymous:   true,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "login response has no access token"}
	}

	c.SetToken(out.AccessToken)
	c.logger.Info("logged in", zap.String("username", out.Username), zap.Int64("user_id", out.UserID))
	return &out, nil
}

// Logout revokes the token on the server and clears it locally. The local
// token is cleared even if the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	defer c.SetToken("")
	if !c.Authenticated() {
		return nil
	}
	var out messageResponse
	return c.do(ctx, request{method: http.MethodPost, path: "/auth/logout"}, &out)
}

// Register creates a user account.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out User
	if err := c.doJSON(ctx, http.MethodPost, "/users/", in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// ANALYSIS OPERATIONS
// =============================================================================

// Create submits code for analysis. The returned record is pending.
func (c *Client) Create(ctx context.Context, in AnalysisInput) (*model.AnalysisRecord, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	defer c.mutated()
	var out model.AnalysisRecord
	if err := c.doJSON(ctx, http.MethodPost, "/analysis/", in, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns one page of the user's analyses. Concurrent calls for the
// same page share a single request unless a mutation or token change
// happened in between.
func (c *Client) List(ctx context.Context, opts ListOptions) ([]model.AnalysisRecord, error) {
	if opts.Limit <= 0 {
		opts.Limit = c.config.PageSize
	}
	if opts.Skip < 0 {
		opts.Skip = 0
	}

	q := url.Values{}
	q.Set("skip", strconv.Itoa(opts.Skip))
	q.Set("limit", strconv.Itoa(opts.Limit))
	key := strconv.FormatUint(c.listGen.Load(), 10) + "|" + q.Encode()

	v, err, shared := c.lists.Do(key, func() (interface{}, error) {
		var out []model.AnalysisRecord
		if err := c.do(ctx, request{method: http.MethodGet, path: "/analysis/", query: q}, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("list request shared", zap.String("page", key))
	}

	list := v.([]model.AnalysisRecord)
	out := make([]model.AnalysisRecord, len(list))
	copy(out, list)
	return out, nil
}

// mutated is deferred by every call that changes the list on the server.
// Failed calls count too: the server may have applied the change before the
// error reached us.
func (c *Client) mutated() {
	c.listGen.Add(1)
}

// Get fetches one analysis.
func (c *Client) Get(ctx context.Context, id model.ID) (*model.AnalysisRecord, error) {
	var out model.AnalysisRecord
	if err := c.do(ctx, request{method: http.MethodGet, path: analysisPath(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces title, code and language. The service resets the record to
// pending and clears its result.
func (c *Client) Update(ctx context.Context, id model.ID, in AnalysisInput) (*model.AnalysisRecord, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	defer c.mutated()
	var out model.AnalysisRecord
	if err := c.doJSON(ctx, http.MethodPut, analysisPath(id), in, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an analysis.
func (c *Client) Delete(ctx context.Context, id model.ID) error {
	defer c.mutated()
	return c.do(ctx, request{method: http.MethodDelete, path: analysisPath(id)}, nil)
}

// Reanalyze queues an analysis to run again. The service may answer with the
// updated record or with an empty body; the record is nil in the latter case.
func (c *Client) Reanalyze(ctx context.Context, id model.ID) (*model.AnalysisRecord, error) {
	defer c.mutated()
	var out model.AnalysisRecord
	if err := c.do(ctx, request{method: http.MethodPost, path: analysisPath(id) + "/reanalyze"}, &out); err != nil {
		return nil, err
	}
	if out.ID == 0 {
		return nil, nil
	}
	return &out, nil
}

func analysisPath(id model.ID) string {
	return "/analysis/" + id.String()
}

// =============================================================================
// TRANSPORT
// =============================================================================

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	// anonymous requests never carry the bearer token.
	anonymous bool
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}, anonymous bool) error {
	body, err := json.Marshal(in)
	if err != nil {
		return &ClientError{Type: ErrTypeValidation, Message: "failed to marshal request", Cause: err}
	}
	return c.do(ctx, request{
		method:      method,
		path:        path,
		body:        bytes.NewReader(body),
		contentType: "application/json",
		anonymous:   anonymous,
	}, out)
}

// do sends r and decodes a 2xx JSON body into out. An empty body leaves out
// untouched.
func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return transportError(ctx, err)
		}
	}

	u := c.config.BaseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, r.body)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("X-Request-ID", requestID)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if token := c.Token(); token != "" && !r.anonymous {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("request_id", requestID),
			zap.String("method", r.method),
			zap.String("path", r.path),
			zap.Error(err))
		return transportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return transportError(ctx, err)
	}

	c.logger.Debug("request",
		zap.String("request_id", requestID),
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, resp.Status, body)
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ClientError{
			Type:    ErrTypeInvalidResponse,
			Status:  resp.StatusCode,
			Message: "failed to decode response",
			Cause:   err,
		}
	}
	return nil
}

// transportError classifies a failure that produced no HTTP response.
func transportError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return ctx.Err()
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
	}
	return &ClientError{Type: ErrTypeConnection, Message: "cannot reach service", Cause: err}
}
