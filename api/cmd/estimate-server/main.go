package main

import (
	"context"
	"log"
	"net/http"

	"go.uber.org/zap"

	"tax-moguls/api/internal/cache"
	"tax-moguls/api/internal/config"
	"tax-moguls/api/internal/gemini"
	"tax-moguls/api/internal/httpserver"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	var store cache.Store
	if cfg.DatabaseURL != "" {
		store, err = cache.NewPostgres(context.Background(), cfg.DatabaseURL, cfg.CacheTTL)
		if err != nil {
			logger.Fatal("cache db unavailable", zap.Error(err))
		}
		logger.Info("using postgres result cache")
	} else {
		store = cache.NewMemory(cfg.CacheTTL)
	}
	defer store.Close()

	gw := gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	srv := httpserver.New(logger, gw, store, cfg.EmbedToken, cfg.AllowedOrigins)

	addr := ":" + cfg.Port
	logger.Info("estimate server listening", zap.String("addr", addr), zap.String("model", cfg.GeminiModel))
	logger.Fatal("server exited", zap.Error(http.ListenAndServe(addr, srv.Handler())))
}
