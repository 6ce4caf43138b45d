// Package reportgen asks the external report service to turn wellness
// summaries into weekly insights and suggestions.
package reportgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/moodscope/internal/shared/infrastructure/breaker"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

const (
	moodReportPath       = "/generate-mood-report"
	screenTimeReportPath = "/generate-screentime-report"
	defaultTimeout       = 30 * time.Second
	maxBodyBytes         = 1 << 20
)

// Client implements domain.ReportGenerator over HTTP.
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

func (c *Client) GenerateMoodReport(ctx context.Context, req domain.MoodReportRequest) (*domain.Report, error) {
	return c.generate(ctx, moodReportPath, req)
}

func (c *Client) GenerateScreenTimeReport(ctx context.Context, req domain.ScreenTimeReportRequest) (*domain.Report, error) {
	return c.generate(ctx, screenTimeReportPath, req)
}

// generate posts payload to path. Transport failures and non-2xx responses
// wrap domain.ErrSignalUnavailable; a body that fails domain.ParseReport
// wraps domain.ErrMalformedResponse.
func (c *Client) generate(ctx context.Context, path string, payload any) (*domain.Report, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode report request: %w", err)
	}

	call := func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("read report response: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("report service returned status %d", resp.StatusCode)
		}
		return data, nil
	}

	var data []byte
	if c.breaker != nil {
		data, err = breaker.Do(c.breaker, call)
	} else {
		data, err = call()
	}
	if err != nil {
		c.logger.WarnContext(ctx, "report generation failed", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrSignalUnavailable, err)
	}

	report, err := domain.ParseReport(data)
	if err != nil {
		c.logger.WarnContext(ctx, "report service returned malformed body", "path", path, "error", err)
		return nil, err
	}
	return report, nil
}
