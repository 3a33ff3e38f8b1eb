package greeting

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/user-microservices/internal/middleware"
)

// HelloPath is the test service greeting endpoint.
const HelloPath = "/api/v1/test/hello"

const maxBodyBytes = 1 << 20

var (
	ErrDownstreamUnavailable = errors.New("test service unavailable")
	ErrDownstreamTimeout     = fmt.Errorf("%w: timed out", ErrDownstreamUnavailable)
)

// StatusError reports a non-2xx answer from the test service.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("test service responded with status %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrDownstreamUnavailable
}

// Client calls the test service over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: timeout})
}

func NewClientWithHTTP(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: invalid test service url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("client: unsupported scheme in test service url %q", baseURL)
	}

	return &Client{
		endpoint:   strings.TrimRight(u.String(), "/") + HelloPath,
		httpClient: httpClient,
	}, nil
}

// FetchGreeting performs GET /api/v1/test/hello and returns the body verbatim.
func (c *Client) FetchGreeting(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("client: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")
	if correlationID := middleware.CorrelationIDFromContext(ctx); correlationID != "" {
		req.Header.Set(middleware.CorrelationIDHeader, correlationID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("client: GET %s: %w: %w", c.endpoint, ErrDownstreamTimeout, err)
		}
		return "", fmt.Errorf("client: GET %s: %w: %w", c.endpoint, ErrDownstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("client: reading response: %w: %w", ErrDownstreamTimeout, err)
		}
		return "", fmt.Errorf("client: reading response: %w: %w", ErrDownstreamUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Ctx(ctx).Warn().
			Int("status", resp.StatusCode).
			Str("endpoint", c.endpoint).
			Msg("client: test service returned non-success status")
		return "", fmt.Errorf("client: GET %s: %w", c.endpoint, &StatusError{StatusCode: resp.StatusCode})
	}

	return string(body), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
