package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr             string
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	JWTSecret string

	LogLevel string
	LogFile  string

	AI AI

	ReportSchedule bool
	ReportInterval time.Duration
}

// AI configures the completion service. The same keys can be set in the
// `ai:` section of CONFIG_FILE, which wins over the environment.
type AI struct {
	Provider         string        `yaml:"provider"` // openai | eino
	APIKey           string        `yaml:"-"`
	BaseURL          string        `yaml:"base_url"`
	Model            string        `yaml:"model"`
	Temperature      float64       `yaml:"temperature"`
	MaxTokens        int           `yaml:"max_tokens"`
	Timeout          time.Duration `yaml:"timeout"`
	RPM              int           `yaml:"rpm"`
	ChatHistoryLimit int           `yaml:"chat_history_limit"`
}

type fileConfig struct {
	AI AI `yaml:"ai"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var err error
	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
		LogLevel:             getenv("LOG_LEVEL", "info"),
		LogFile:              getenv("LOG_FILE", ""),
		ReportSchedule:       getenv("REPORT_SCHEDULE", "false") == "true",
	}

	if cfg.DatabaseURL, err = requireEnv("DATABASE_URL"); err != nil {
		return Config{}, err
	}
	if cfg.JWTSecret, err = requireEnv("JWT_SECRET"); err != nil {
		return Config{}, err
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	if cfg.ReportInterval, err = envDuration("REPORT_INTERVAL", 7*24*time.Hour); err != nil {
		return Config{}, err
	}

	cfg.AI = AI{
		Provider: getenv("AI_PROVIDER", "openai"),
		APIKey:   getenv("AI_API_KEY", getenv("OPENAI_API_KEY", "")),
		BaseURL:  getenv("AI_BASE_URL", ""),
		Model:    getenv("AI_MODEL", "gpt-4o-mini"),
	}
	if cfg.AI.Temperature, err = envFloat("AI_TEMPERATURE", 0.7); err != nil {
		return Config{}, err
	}
	if cfg.AI.MaxTokens, err = envInt("AI_MAX_TOKENS", 800); err != nil {
		return Config{}, err
	}
	if cfg.AI.Timeout, err = envDuration("AI_TIMEOUT", 60*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.AI.RPM, err = envInt("AI_RPM", 60); err != nil {
		return Config{}, err
	}
	if cfg.AI.ChatHistoryLimit, err = envInt("AI_CHAT_HISTORY_LIMIT", 20); err != nil {
		return Config{}, err
	}

	if path := getenv("CONFIG_FILE", ""); path != "" {
		if err := overlayFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	switch cfg.AI.Provider {
	case "openai", "eino":
	default:
		return Config{}, fmt.Errorf("AI_PROVIDER: unknown provider %q", cfg.AI.Provider)
	}
	return cfg, nil
}

// overlayFile applies the non-zero fields of the file's ai section.
func overlayFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	ai := fc.AI
	if ai.Provider != "" {
		cfg.AI.Provider = ai.Provider
	}
	if ai.BaseURL != "" {
		cfg.AI.BaseURL = ai.BaseURL
	}
	if ai.Model != "" {
		cfg.AI.Model = ai.Model
	}
	if ai.Temperature != 0 {
		cfg.AI.Temperature = ai.Temperature
	}
	if ai.MaxTokens != 0 {
		cfg.AI.MaxTokens = ai.MaxTokens
	}
	if ai.Timeout != 0 {
		cfg.AI.Timeout = ai.Timeout
	}
	if ai.RPM != 0 {
		cfg.AI.RPM = ai.RPM
	}
	if ai.ChatHistoryLimit != 0 {
		cfg.AI.ChatHistoryLimit = ai.ChatHistoryLimit
	}
	return nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func requireEnv(key string) (string, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return "", fmt.Errorf("missing env: %s", key)
	}
	return v, nil
}

func envInt(key string, def int) (int, error) {
	v := getenv(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := getenv(key, "")
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := getenv(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
