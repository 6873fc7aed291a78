package handler

import (
	"net/http"
	"sync"

	"github.com/RishiKendai/scorerelay/internal/api"
	"github.com/RishiKendai/scorerelay/internal/config"
	"github.com/RishiKendai/scorerelay/internal/logger"
	"github.com/RishiKendai/scorerelay/internal/relay"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	initOnce sync.Once
	engine   http.Handler
)

// Handler is the Vercel entrypoint for /api/submitScore.
func Handler(w http.ResponseWriter, r *http.Request) {
	initOnce.Do(setup)
	engine.ServeHTTP(w, r)
}

// setup builds the same pipeline as the long-running server, minus the
// metrics listener the platform has no use for.
func setup() {
	cfg, _ := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(gin.ReleaseMode)

	relayCfg := cfg.Relay()
	if err := relayCfg.Validate(); err != nil {
		log.Warn().Err(err).Msg("Relay is not configured")
	}

	engine = api.NewHTTPHandler(cfg, relay.New(relayCfg))
}
