package api

import (
	"net/http"
	"net/url"

	"github.com/RishiKendai/scorerelay/internal/metrics"
	"github.com/RishiKendai/scorerelay/internal/models"
	"github.com/RishiKendai/scorerelay/internal/relay"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler holds dependencies for handlers
type Handler struct {
	relay *relay.Relay
}

// NewHandler creates a new handler
func NewHandler(r *relay.Relay) *Handler {
	return &Handler{
		relay: r,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// SubmitScore relays leaderboard queries (GET) and score submissions (POST)
// to the sheets webhook. Every other method is answered by the relay with 405.
func (h *Handler) SubmitScore(c *gin.Context) {
	method := c.Request.Method

	var params map[string]any
	if method == http.MethodPost {
		params = bodyParams(c)
	}

	result := h.relay.Handle(c.Request.Context(), method, c.Request.URL.Query(), params)
	metrics.RelayOutcomes.WithLabelValues(method, result.Outcome()).Inc()

	writeResult(c, result)
}

// bodyParams decodes a JSON object or URL-encoded form body. Anything else,
// including a body that fails to decode, yields no params.
func bodyParams(c *gin.Context) map[string]any {
	logger := zerolog.Ctx(c.Request.Context())

	raw, err := c.GetRawData()
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read request body")
		return map[string]any{}
	}

	if c.ContentType() == gin.MIMEPOSTForm {
		values, err := url.ParseQuery(string(raw))
		if err != nil {
			logger.Debug().Err(err).Msg("Malformed form body")
			return map[string]any{}
		}
		return models.FormValues(values)
	}

	if obj, ok := models.ParseBody(raw).Object(); ok {
		return obj
	}
	return map[string]any{}
}

func writeResult(c *gin.Context, result models.RelayResult) {
	if result.Payload.IsJSON() {
		c.Data(result.StatusCode, "application/json; charset=utf-8", result.Payload.JSON)
		return
	}
	c.Data(result.StatusCode, "text/plain; charset=utf-8", []byte(result.Payload.Text))
}
