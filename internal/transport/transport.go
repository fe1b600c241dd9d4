package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Default timeouts
const (
	DefaultConnectTimeout = 10 * time.Second
	DefaultRequestTimeout = 60 * time.Second
)

// StatusError is returned when the endpoint answers with a non-200 status
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.Code, e.Body)
}

// HTTP posts form-encoded payloads to a single API endpoint
type HTTP struct {
	endpoint   string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Config for creating a new HTTP transport
type Config struct {
	Endpoint       string
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
	Logger         zerolog.Logger
}

// New creates a new HTTP transport
func New(cfg Config) *HTTP {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	dialer := &net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: cfg.ConnectTimeout,
	}

	return &HTTP{
		endpoint: cfg.Endpoint,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.RequestTimeout,
		},
		logger: cfg.Logger.With().Str("component", "transport").Logger(),
	}
}

// Endpoint returns the API endpoint URL
func (h *HTTP) Endpoint() string {
	return h.endpoint
}

// Post sends the form as a single POST and returns the full response body
func (h *HTTP) Post(ctx context.Context, form url.Values) ([]byte, error) {
	if h.endpoint == "" {
		return nil, fmt.Errorf("API endpoint not configured")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "text/plain")

	start := time.Now()
	resp, err := h.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	h.logger.Debug().
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("response received")

	return body, nil
}

// Close closes idle keep-alive connections
func (h *HTTP) Close() {
	h.httpClient.CloseIdleConnections()
}
