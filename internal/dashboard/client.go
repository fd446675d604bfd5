// Package dashboard talks to the backend of a generated project over its
// HTTP API.
package dashboard

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
	"time"

	oerrors "github.com/aiimpact/tracker/internal/errors"
)

const (
	loginPath   = "/api/auth/login"
	metricsPath = "/api/metrics"

	defaultBaseURL = "http://localhost:8000"
	defaultTimeout = 5 * time.Second
)

// Client provides typed access to the dashboard API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customises client instantiation.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New constructs a Client pointing at the dashboard base URL.
func New(base string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		return nil, oerrors.NewValidationError(fmt.Sprintf("invalid dashboard url %q", base), "", "use a URL like http://localhost:8000")
	}
	cli := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is a non-2xx response from the dashboard.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("dashboard request failed with status %d", e.Status)
	}
	return fmt.Sprintf("dashboard request failed (%d): %s", e.Status, e.Message)
}

// Unauthorized reports whether the request was rejected for credentials.
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// RunMetricRecord describes one tracked run.
type RunMetricRecord struct {
	ID             int       `json:"id,omitempty"`
	Project        string    `json:"project"`
	Team           string    `json:"team"`
	Environment    string    `json:"environment"`
	EnergyConsumed float64   `json:"energy_consumed"`
	Emissions      float64   `json:"emissions"`
	WaterUsage     float64   `json:"water_usage"`
	Duration       float64   `json:"duration"`
	Timestamp      Timestamp `json:"timestamp"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, loginPath, loginRequest{Username: username, Password: password}, "", &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("login response carried no access_token")
	}
	return resp.AccessToken, nil
}

// PostMetric records a run.
func (c *Client) PostMetric(ctx context.Context, token string, rec RunMetricRecord) error {
	return c.do(ctx, http.MethodPost, metricsPath, rec, token, nil)
}

// ListMetrics returns the recorded runs.
func (c *Client) ListMetrics(ctx context.Context, token string) ([]RunMetricRecord, error) {
	var out []RunMetricRecord
	if err := c.do(ctx, http.MethodGet, metricsPath, nil, token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, token string, v any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	endpoint := c.baseURL + path
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t := strings.TrimSpace(token); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %s %s: %v", oerrors.ErrDashboardUnreachable, method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: extractError(resp.Body)}
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// extractError pulls the message out of a FastAPI style {"detail": ...} or
// {"error": ...} body, falling back to the raw text.
func extractError(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Detail any    `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return strings.TrimSpace(string(data))
	}
	switch d := payload.Detail.(type) {
	case string:
		return d
	case nil:
	default:
		b, _ := json.Marshal(d)
		return string(b)
	}
	if payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(data))
}
