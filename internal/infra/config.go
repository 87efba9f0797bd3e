package infra

import (
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment
// variables. The generation API key is deliberately not validated here: its
// absence is a user-visible condition reported when a generation is
// attempted, not a startup crash.
type Config struct {
	AppEnv string
	Port   string

	StockAPIKey  string
	StockBaseURL string

	PromptModel string

	RetryDelay  time.Duration
	BatchSize   int
	BatchPause  time.Duration
	SceneLength time.Duration

	TelegramBotToken string
	TelegramChatID   string
	TelegramThreadID string

	GeoIPDBPath string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		StockAPIKey:      os.Getenv("STOCK_API_KEY"),
		StockBaseURL:     os.Getenv("STOCK_BASE_URL"),
		PromptModel:      getEnv("PROMPT_MODEL", "scene-text-v1"),
		RetryDelay:       time.Millisecond * time.Duration(getEnvInt("RETRY_DELAY_MS", 1)),
		BatchSize:        getEnvInt("BATCH_SIZE", 10),
		BatchPause:       time.Millisecond * time.Duration(getEnvInt("BATCH_PAUSE_MS", 250)),
		SceneLength:      time.Second * time.Duration(getEnvInt("SCENE_LENGTH_SECONDS", 8)),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
		TelegramThreadID: os.Getenv("TELEGRAM_THREAD_ID"),
		GeoIPDBPath:      os.Getenv("GEOIP_DB_PATH"),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Millisecond
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
