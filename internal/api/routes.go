package api

import (
	"net/http"

	"github.com/RishiKendai/scorerelay/internal/config"
	"github.com/RishiKendai/scorerelay/internal/relay"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// SubmitScorePath is where the front end sends scores and leaderboard queries.
const SubmitScorePath = "/api/submitScore"

func SetupRoutes(cfg *config.Config, r *relay.Relay) *gin.Engine {
	router := gin.New()

	// Create handler
	handler := NewHandler(r)

	// Middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(RequestLoggerMiddleware())
	router.Use(MetricsMiddleware())

	// Health endpoint (no rate limiting)
	router.GET("/health", handler.Health)

	// Relay routes. Any method reaches the relay so it can answer 405 itself.
	api := router.Group("")
	if cfg.RateLimitRPS > 0 {
		api.Use(RateLimitMiddleware(NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst())))
	}
	{
		api.Any(SubmitScorePath, handler.SubmitScore)
	}

	return router
}

// NewHTTPHandler builds the full request pipeline, CORS included.
func NewHTTPHandler(cfg *config.Config, r *relay.Relay) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{requestIDHeader},
	})

	return c.Handler(SetupRoutes(cfg, r))
}
