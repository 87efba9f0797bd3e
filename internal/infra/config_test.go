package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STOCK_API_KEY", "")
	t.Setenv("BATCH_SIZE", "")
	t.Setenv("RETRY_DELAY_MS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.BatchSize != 10 {
		t.Fatalf("BatchSize = %d, want 10", cfg.BatchSize)
	}
	if cfg.RetryDelay != time.Millisecond {
		t.Fatalf("RetryDelay = %s, want 1ms", cfg.RetryDelay)
	}
	if cfg.SceneLength != 8*time.Second {
		t.Fatalf("SceneLength = %s, want 8s", cfg.SceneLength)
	}
	// A missing API key is a runtime condition, never a startup failure.
	if cfg.StockAPIKey != "" {
		t.Fatalf("StockAPIKey = %q, want empty", cfg.StockAPIKey)
	}
}

func TestLoadConfigClampsInvalidValues(t *testing.T) {
	t.Setenv("BATCH_SIZE", "-3")
	t.Setenv("RETRY_DELAY_MS", "0")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.BatchSize != 1 {
		t.Fatalf("BatchSize = %d, want clamped to 1", cfg.BatchSize)
	}
	if cfg.RetryDelay != time.Millisecond {
		t.Fatalf("RetryDelay = %s, want clamped to 1ms", cfg.RetryDelay)
	}
}

func TestLoadConfigReadsOverrides(t *testing.T) {
	t.Setenv("BATCH_SIZE", "4")
	t.Setenv("BATCH_PAUSE_MS", "50")
	t.Setenv("PROMPT_MODEL", "scene-text-v2")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.BatchSize != 4 || cfg.BatchPause != 50*time.Millisecond || cfg.PromptModel != "scene-text-v2" {
		t.Fatalf("cfg = %+v", cfg)
	}
}
