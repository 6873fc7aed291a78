package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RishiKendai/scorerelay/internal/api"
	"github.com/RishiKendai/scorerelay/internal/config"
	"github.com/RishiKendai/scorerelay/internal/configs/env"
	"github.com/RishiKendai/scorerelay/internal/logger"
	"github.com/RishiKendai/scorerelay/internal/metrics"
	"github.com/RishiKendai/scorerelay/internal/relay"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := env.LoadEnv(); err != nil {
		log.Warn().Err(err).Msg("Failed to load .env file, continuing with system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid configuration: %v", err))
	}

	logger.Init(cfg.LogLevel, cfg.LogPretty)
	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	log.Info().Msg("Starting score relay")

	relayCfg := cfg.Relay()
	if err := relayCfg.Validate(); errors.Is(err, relay.ErrNotConfigured) {
		log.Warn().Msg("SHEETS_WEBHOOK_URL or SHEETS_SECRET is not set, requests will fail with server_not_configured")
	}
	sheets := relay.NewSheetsClient(relayCfg.UpstreamURL)
	scoreRelay := relay.NewWithUpstream(relayCfg, sheets)
	log.Info().Str("upstream", sheets.String()).Msg("Relay initialized")

	// Initialize Prometheus metrics
	metrics.InitPrometheus()
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metrics.Handler())
	metricsServer := api.StartServer(metricsMux, cfg.MetricsPort, "metrics")

	srv := api.StartServer(api.NewHTTPHandler(cfg, scoreRelay), cfg.ServerPort, "api")

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down gracefully...")

	if err := api.ShutdownServer(srv, cfg.ShutdownTimeout); err != nil {
		log.Error().Err(err).Msg("Error shutting down API server")
	}

	if err := api.ShutdownServer(metricsServer, 5*time.Second); err != nil {
		log.Error().Err(err).Msg("Error shutting down metrics server")
	}

	log.Info().Msg("Shutdown complete")
}
