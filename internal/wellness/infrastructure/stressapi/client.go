// Package stressapi reads the current work-stress score from the external
// stress dashboard service.
package stressapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/felixgeelhaar/moodscope/internal/shared/infrastructure/breaker"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

const (
	scoresPath     = "/dashboard/scores"
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

// Client implements domain.StressSource over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *breaker.Breaker
	logger  *slog.Logger
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}
}

// WithTokenSource authenticates every request with tokens from source.
func (c *Client) WithTokenSource(source oauth2.TokenSource) *Client {
	if source == nil {
		return c
	}
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.http.Transport = &oauth2.Transport{Source: source, Base: base}
	return c
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	if d > 0 {
		c.http.Timeout = d
	}
	return c
}

// WithBreaker routes requests through b.
func (c *Client) WithBreaker(b *breaker.Breaker) *Client {
	c.breaker = b
	return c
}

type scoresResponse struct {
	WorkStress *domain.StressSignal `json:"work_stress"`
}

type rawResponse struct {
	status int
	body   []byte
}

// CurrentStress fetches the latest stress reading for deviceID. Every
// failure wraps domain.ErrSignalUnavailable; contract violations also wrap
// domain.ErrMalformedResponse.
func (c *Client) CurrentStress(ctx context.Context, deviceID string) (*domain.StressSignal, error) {
	endpoint, err := url.Parse(c.baseURL + scoresPath)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid stress api url: %v", domain.ErrSignalUnavailable, err)
	}
	q := endpoint.Query()
	q.Set("device_id", deviceID)
	endpoint.RawQuery = q.Encode()

	res, err := c.fetch(ctx, endpoint.String())
	if err != nil {
		c.logger.WarnContext(ctx, "stress api request failed", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrSignalUnavailable, err)
	}
	if res.status < 200 || res.status >= 300 {
		c.logger.WarnContext(ctx, "stress api returned non-2xx", "status", res.status)
		return nil, fmt.Errorf("%w: stress api returned status %d", domain.ErrSignalUnavailable, res.status)
	}

	var payload scoresResponse
	if err := json.Unmarshal(res.body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w: %v", domain.ErrSignalUnavailable, domain.ErrMalformedResponse, err)
	}
	if payload.WorkStress == nil {
		return nil, fmt.Errorf("%w: %w: missing work_stress", domain.ErrSignalUnavailable, domain.ErrMalformedResponse)
	}
	if err := payload.WorkStress.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSignalUnavailable, err)
	}
	return payload.WorkStress, nil
}

// fetch performs the GET. Transport errors and 5xx count against the breaker.
func (c *Client) fetch(ctx context.Context, endpoint string) (rawResponse, error) {
	call := func() (rawResponse, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return rawResponse{}, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return rawResponse{}, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return rawResponse{}, fmt.Errorf("read stress api response: %w", err)
		}
		res := rawResponse{status: resp.StatusCode, body: body}
		if resp.StatusCode >= 500 {
			return res, fmt.Errorf("stress api returned status %d", resp.StatusCode)
		}
		return res, nil
	}

	if c.breaker == nil {
		return call()
	}
	return breaker.Do(c.breaker, call)
}
