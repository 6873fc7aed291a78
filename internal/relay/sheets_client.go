package relay

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/RishiKendai/scorerelay/internal/metrics"
	"github.com/RishiKendai/scorerelay/internal/models"
	"github.com/rs/zerolog/log"
)

const secretParam = "secret"

// SheetsClient handles communication with the sheets webhook
type SheetsClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewSheetsClient creates a new sheets webhook client
func NewSheetsClient(baseURL string) *SheetsClient {
	return &SheetsClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			// No timeout - bounded only by the request context
		},
	}
}

// NewSheetsClientWithHTTP lets tests and callers supply their own transport.
func NewSheetsClientWithHTTP(baseURL string, httpClient *http.Client) *SheetsClient {
	return &SheetsClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Get issues a GET with query merged into the webhook URL's own query.
func (c *SheetsClient) Get(ctx context.Context, query url.Values) (*models.UpstreamResponse, error) {
	target, err := c.urlWithQuery(query)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(httpReq)
}

// Post sends form as an URL-encoded body to the webhook URL.
func (c *SheetsClient) Post(ctx context.Context, form url.Values) (*models.UpstreamResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")

	return c.do(httpReq)
}

func (c *SheetsClient) do(httpReq *http.Request) (*models.UpstreamResponse, error) {
	start := time.Now()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.UpstreamDuration.WithLabelValues(httpReq.Method, "error").Observe(time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	metrics.UpstreamDuration.WithLabelValues(httpReq.Method, metrics.StatusClass(resp.StatusCode)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	log.Debug().
		Str("method", httpReq.Method).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("Sheets webhook responded")

	return &models.UpstreamResponse{
		StatusCode: resp.StatusCode,
		BodyText:   string(body),
		Parsed:     models.ParseBody(body),
	}, nil
}

func (c *SheetsClient) urlWithQuery(query url.Values) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid webhook url: %w", err)
	}

	merged := u.Query()
	for key, vals := range query {
		for _, v := range vals {
			merged.Add(key, v)
		}
	}
	u.RawQuery = merged.Encode()

	return u.String(), nil
}

// String hides everything but the host so the URL can be logged.
func (c *SheetsClient) String() string {
	u, err := url.Parse(c.baseURL)
	if err != nil || u.Host == "" {
		return "sheets(invalid)"
	}
	return "sheets(" + u.Scheme + "://" + u.Host + ")"
}
