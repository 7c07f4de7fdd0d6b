package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "sqlite://journal.db")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.AI.Provider != "openai" || cfg.AI.Model != "gpt-4o-mini" {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.AI.Temperature != 0.7 || cfg.AI.MaxTokens != 800 || cfg.AI.Timeout != time.Minute || cfg.AI.RPM != 60 {
		t.Fatalf("ai=%+v", cfg.AI)
	}
	if cfg.AI.ChatHistoryLimit != 20 || cfg.ReportSchedule || cfg.ReportInterval != 168*time.Hour {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "x")

	if _, err := Load(); err == nil {
		t.Fatalf("expected missing DATABASE_URL error")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("AI_PROVIDER", "eino")
	t.Setenv("OPENAI_API_KEY", "sk-fallback")
	t.Setenv("AI_TIMEOUT", "15s")
	t.Setenv("REPORT_SCHEDULE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://b.test" {
		t.Fatalf("origins=%v", cfg.CORSAllowedOrigins)
	}
	if cfg.AI.Provider != "eino" || cfg.AI.APIKey != "sk-fallback" || cfg.AI.Timeout != 15*time.Second || !cfg.ReportSchedule {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	setRequired(t)
	t.Setenv("AI_MAX_TOKENS", "lots")
	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}

	t.Setenv("AI_MAX_TOKENS", "")
	t.Setenv("AI_PROVIDER", "anthropic")
	if _, err := Load(); err == nil {
		t.Fatalf("expected provider error")
	}
}

func TestLoadFileOverlay(t *testing.T) {
	setRequired(t)
	t.Setenv("AI_MODEL", "env-model")

	path := filepath.Join(t.TempDir(), "journal.yaml")
	body := "ai:\n  provider: eino\n  base_url: https://api.deepseek.com/v1\n  model: deepseek-chat\n  temperature: 0.3\n  timeout: 30s\n  rpm: 20\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ai := cfg.AI
	if ai.Provider != "eino" || ai.Model != "deepseek-chat" || ai.BaseURL != "https://api.deepseek.com/v1" {
		t.Fatalf("ai=%+v", ai)
	}
	if ai.Temperature != 0.3 || ai.Timeout != 30*time.Second || ai.RPM != 20 || ai.MaxTokens != 800 {
		t.Fatalf("ai=%+v", ai)
	}
}
