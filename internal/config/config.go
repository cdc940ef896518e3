package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr       string
	LogLevel       string
	SessionSecret  string
	SessionTTL     time.Duration
	RequestTimeout time.Duration
	DailyLimit     int
	HistoryLimit   int
	StoreType      string
	StorePath      string
	OpenRouter     OpenRouterConfig
}

type OpenRouterConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	FallbackModels []string
	SiteURL        string
	SiteTitle      string
}

func Load() (Config, error) {
	var cfg Config

	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.SessionSecret = getEnv("SESSION_SECRET", "")

	sessionTTL, err := parseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SESSION_TTL: %w", err)
	}
	cfg.SessionTTL = sessionTTL

	reqTimeout, err := parseDuration(getEnv("HTTP_CLIENT_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_CLIENT_TIMEOUT: %w", err)
	}
	cfg.RequestTimeout = reqTimeout

	dailyLimit, err := parseIntDefault(getEnv("DAILY_REQUEST_LIMIT", ""), 500)
	if err != nil {
		return Config{}, fmt.Errorf("parse DAILY_REQUEST_LIMIT: %w", err)
	}
	cfg.DailyLimit = dailyLimit

	historyLimit, err := parseIntDefault(getEnv("HISTORY_LIMIT", ""), 20)
	if err != nil {
		return Config{}, fmt.Errorf("parse HISTORY_LIMIT: %w", err)
	}
	cfg.HistoryLimit = historyLimit

	cfg.StoreType = getEnv("STORE_TYPE", "memory")
	cfg.StorePath = getEnv("STORE_PATH", "./data/sessions.db")

	cfg.OpenRouter = OpenRouterConfig{
		APIKey:         getEnv("OPENROUTER_API_KEY", ""),
		BaseURL:        getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		Model:          getEnv("OPENROUTER_MODEL", ""),
		FallbackModels: splitList(getEnv("OPENROUTER_FALLBACK_MODELS", "")),
		SiteURL:        getEnv("SITE_URL", ""),
		SiteTitle:      getEnv("SITE_TITLE", "VibeCoding AI"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate проверяет согласованность загруженной конфигурации.
// Отсутствие ключа API не считается фатальным на старте:
// сервис поднимается, а /chat возвращает понятную ошибку.
func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR cannot be empty")
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be > 0")
	}
	if c.DailyLimit < 0 {
		return fmt.Errorf("DAILY_REQUEST_LIMIT must be >= 0")
	}
	switch c.StoreType {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unknown STORE_TYPE %q (expected memory or sqlite)", c.StoreType)
	}
	if c.StoreType == "sqlite" && c.StorePath == "" {
		return fmt.Errorf("STORE_PATH cannot be empty with STORE_TYPE=sqlite")
	}
	return nil
}

// Models возвращает полную цепочку моделей для ротации:
// основную и резервные, в порядке объявления.
func (c OpenRouterConfig) Models() []string {
	if c.Model == "" {
		return nil
	}
	models := make([]string, 0, 1+len(c.FallbackModels))
	models = append(models, c.Model)
	models = append(models, c.FallbackModels...)
	return models
}

func parseDuration(value string) (time.Duration, error) {
	if value == "" {
		return 0, fmt.Errorf("duration is empty")
	}
	return time.ParseDuration(value)
}

func parseIntDefault(value string, def int) (int, error) {
	if value == "" {
		return def, nil
	}
	return strconv.Atoi(value)
}

// splitList разбирает список через запятую, отбрасывая пустые элементы.
func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}
