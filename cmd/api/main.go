package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"sceneforge/internal/genclient"
	"sceneforge/internal/http/handlers"
	"sceneforge/internal/http/httpapi"
	"sceneforge/internal/infra"
	"sceneforge/internal/infra/ipinfo"
	"sceneforge/internal/notify"
	"sceneforge/internal/prompt"
	"sceneforge/internal/registry"
	"sceneforge/internal/stock"
)

func main() {
	// .env is optional.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if cfg.StockAPIKey == "" {
		logger.Warn().Msg("STOCK_API_KEY is not set; generation requests will be rejected until it is configured")
	}

	search := stock.NewClient(stock.Options{
		APIKey:  cfg.StockAPIKey,
		BaseURL: cfg.StockBaseURL,
	})
	gen := genclient.New(search, logger)
	enhancer := prompt.NewEnhancer(gen, cfg.PromptModel, logger)

	var sink notify.Sink = notify.NopSink{}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		sink = notify.NewTelegramSink(notify.TelegramOptions{
			BotToken: cfg.TelegramBotToken,
			ChatID:   cfg.TelegramChatID,
			ThreadID: cfg.TelegramThreadID,
			Logger:   logger,
		})
	}

	prober := ipinfo.NewProber(ipinfo.Options{
		GeoIPDBPath: cfg.GeoIPDBPath,
		Logger:      logger,
	})
	defer func() {
		_ = prober.Close()
	}()

	app := handlers.NewApp(handlers.Options{
		Config:   cfg,
		Logger:   logger,
		Gen:      gen,
		Enhancer: enhancer,
		Registry: registry.New(),
		Sink:     sink,
		Prober:   prober,
	})
	defer app.Shutdown()

	router := httpapi.NewRouter(app, httpapi.RouterOptions{
		AllowedOrigins:  splitOrigins(os.Getenv("CORS_ALLOWED_ORIGINS")),
		RateLimitPerMin: 60,
	})
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
