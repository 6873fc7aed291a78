package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/RishiKendai/scorerelay/internal/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrNotConfigured is returned by Config.Validate when the webhook URL or
// the shared secret is missing.
var ErrNotConfigured = errors.New("sheets webhook url and secret are required")

// Config is everything the relay needs from the environment.
type Config struct {
	UpstreamURL  string
	SharedSecret string
}

func (c Config) Validate() error {
	if c.UpstreamURL == "" || c.SharedSecret == "" {
		return ErrNotConfigured
	}
	return nil
}

// Upstream is the sheets webhook as seen by the relay.
type Upstream interface {
	Get(ctx context.Context, query url.Values) (*models.UpstreamResponse, error)
	Post(ctx context.Context, form url.Values) (*models.UpstreamResponse, error)
}

// Relay validates score traffic and forwards it to the sheets webhook.
// It keeps no state between calls.
type Relay struct {
	cfg      Config
	upstream Upstream
}

func New(cfg Config) *Relay {
	return NewWithUpstream(cfg, NewSheetsClient(cfg.UpstreamURL))
}

func NewWithUpstream(cfg Config, upstream Upstream) *Relay {
	return &Relay{
		cfg:      cfg,
		upstream: upstream,
	}
}

// Handle runs one request through the relay. It never returns an error:
// every failure is translated into a result carrying a stable error code.
func (r *Relay) Handle(ctx context.Context, method string, query url.Values, params map[string]any) (result models.RelayResult) {
	logger := loggerFrom(ctx)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error().
				Err(fmt.Errorf("panic: %v", rec)).
				Str("method", method).
				Msg("Relay panicked")
			result = models.NewErrorResult(http.StatusInternalServerError, models.ErrServerError)
		}
	}()

	if err := r.cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("Relay is not configured")
		return models.NewErrorResult(http.StatusInternalServerError, models.ErrServerNotConfigured)
	}

	switch method {
	case http.MethodGet:
		return r.handleQuery(ctx, logger, query)
	case http.MethodPost:
		return r.handleSubmit(ctx, logger, params)
	default:
		return models.NewErrorResult(http.StatusMethodNotAllowed, models.ErrMethodNotAllowed)
	}
}

// handleQuery forwards read-style queries such as the leaderboard.
func (r *Relay) handleQuery(ctx context.Context, logger *zerolog.Logger, query url.Values) models.RelayResult {
	resp, err := r.upstream.Get(ctx, forwardQuery(query, r.cfg.SharedSecret))
	if err != nil {
		logger.Error().Err(err).Msg("Proxy error")
		return models.NewErrorResult(http.StatusInternalServerError, models.ErrServerError)
	}

	// Upstream failures are relayed as 200, unlike submissions.
	if !resp.OK() {
		logger.Warn().
			Int("upstream_status", resp.StatusCode).
			Msg("Sheets webhook query failed, relaying body as 200")
	}

	if resp.Parsed.IsJSON() {
		return models.RelayResult{StatusCode: http.StatusOK, Payload: resp.Parsed}
	}
	return models.RelayResult{StatusCode: http.StatusOK, Payload: models.TextBody(resp.BodyText)}
}

// handleSubmit validates a score submission and upserts it upstream.
func (r *Relay) handleSubmit(ctx context.Context, logger *zerolog.Logger, params map[string]any) models.RelayResult {
	sub, code := ParseSubmission(params)
	if code != "" {
		return models.NewErrorResult(http.StatusBadRequest, code)
	}

	resp, err := r.upstream.Post(ctx, upsertForm(sub, r.cfg.SharedSecret))
	if err != nil {
		logger.Error().Err(err).Str("roll", sub.Roll).Msg("Proxy error")
		return models.NewErrorResult(http.StatusInternalServerError, models.ErrServerError)
	}

	if resp.Parsed.IsJSON() {
		if !resp.OK() {
			logger.Warn().
				Int("upstream_status", resp.StatusCode).
				Str("roll", sub.Roll).
				Msg("Sheets webhook rejected submission")
			return models.RelayResult{
				StatusCode: http.StatusBadGateway,
				Payload: models.MustJSONBody(models.ErrorResponse{
					Error:   models.ErrSheetError,
					Details: resp.Parsed.JSON,
				}),
				Code: models.ErrSheetError,
			}
		}
		return models.RelayResult{
			StatusCode: http.StatusOK,
			Payload:    models.MustJSONBody(models.SubmitResponse{Success: true, Sheet: resp.Parsed.JSON}),
		}
	}

	if !resp.OK() {
		logger.Warn().
			Int("upstream_status", resp.StatusCode).
			Str("roll", sub.Roll).
			Msg("Sheets webhook failed with a non-JSON body")
		return models.RelayResult{StatusCode: http.StatusBadGateway, Payload: models.TextBody(resp.BodyText)}
	}
	return models.RelayResult{StatusCode: http.StatusOK, Payload: models.TextBody(resp.BodyText)}
}

// loggerFrom prefers the request-scoped logger set by the API middleware.
func loggerFrom(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}
