package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort                = "8080"
	defaultFrontendOrigin      = "https://app.wutzup.chat"
	defaultOpenAIBaseURL       = "https://api.openai.com/v1"
	defaultSearchBaseURL       = "https://html.duckduckgo.com"
	defaultChatModel           = "gpt-4o-mini"
	defaultChatTemperature     = 0.7
	defaultImageModel          = "dall-e-3"
	defaultImageSize           = "1024x1024"
	defaultGIFFrameSize        = 512
	defaultGIFFrameDelayMillis = 500
	defaultRequestTimeoutSecs  = 10
	defaultMaxSearchResults    = 5
	defaultMaxScrapedRunes     = 1000
	defaultPreviewRunes        = 100
	defaultMaxInstances        = 10
)

type Config struct {
	Port           string
	Environment    string
	FrontendOrigin string
	AllowedOrigins []string
	MaxInstances   int

	DatabaseURL   string
	DatabaseToken string

	OpenAIAPIKey    string
	OpenAIBaseURL   string
	ChatModel       string
	ChatTemperature float64
	ImageModel      string
	ImageSize       string

	GIFFrameSize  int
	GIFFrameDelay time.Duration

	SearchBaseURL           string
	RequestTimeout          time.Duration
	MaxSearchResults        int
	MaxScrapedContentLength int

	NotificationPreviewLen int
	FCMProjectID           string
	GCSBucket              string
}

func (c Config) ListenAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func Load() (Config, error) {
	cfg := Config{
		Port:                    envOrDefault("PORT", defaultPort),
		Environment:             envOrDefault("APP_ENV", "development"),
		FrontendOrigin:          envOrDefault("FRONTEND_ORIGIN", defaultFrontendOrigin),
		MaxInstances:            intOrDefault("MAX_INSTANCES", defaultMaxInstances),
		DatabaseURL:             strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DatabaseToken:           strings.TrimSpace(os.Getenv("DATABASE_AUTH_TOKEN")),
		OpenAIAPIKey:            strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL:           envOrDefault("OPENAI_BASE_URL", defaultOpenAIBaseURL),
		ChatModel:               envOrDefault("AI_MODEL", defaultChatModel),
		ChatTemperature:         floatOrDefault("AI_TEMPERATURE", defaultChatTemperature),
		ImageModel:              envOrDefault("IMAGE_MODEL", defaultImageModel),
		ImageSize:               envOrDefault("IMAGE_SIZE", defaultImageSize),
		GIFFrameSize:            intOrDefault("GIF_FRAME_SIZE", defaultGIFFrameSize),
		SearchBaseURL:           envOrDefault("SEARCH_BASE_URL", defaultSearchBaseURL),
		MaxSearchResults:        intOrDefault("MAX_SEARCH_RESULTS", defaultMaxSearchResults),
		MaxScrapedContentLength: intOrDefault("MAX_SCRAPED_CONTENT_LENGTH", defaultMaxScrapedRunes),
		NotificationPreviewLen:  intOrDefault("NOTIFICATION_PREVIEW_LENGTH", defaultPreviewRunes),
		FCMProjectID:            strings.TrimSpace(os.Getenv("FCM_PROJECT_ID")),
		GCSBucket:               strings.TrimSpace(os.Getenv("GCS_BUCKET")),
	}

	cfg.GIFFrameDelay = time.Duration(intOrDefault("GIF_FRAME_DELAY_MS", defaultGIFFrameDelayMillis)) * time.Millisecond
	if cfg.GIFFrameDelay <= 0 {
		return Config{}, errors.New("GIF_FRAME_DELAY_MS must be > 0")
	}

	cfg.RequestTimeout = time.Duration(intOrDefault("REQUEST_TIMEOUT_SECONDS", defaultRequestTimeoutSecs)) * time.Second
	if cfg.RequestTimeout <= 0 {
		return Config{}, errors.New("REQUEST_TIMEOUT_SECONDS must be > 0")
	}

	origins := parseList(envOrDefault("CORS_ALLOWED_ORIGINS", cfg.FrontendOrigin+",http://localhost:5173"))
	if len(origins) == 0 {
		return Config{}, errors.New("CORS_ALLOWED_ORIGINS must include at least one origin")
	}
	cfg.AllowedOrigins = origins

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if strings.HasPrefix(cfg.DatabaseURL, "libsql://") && cfg.DatabaseToken == "" {
		return Config{}, errors.New("DATABASE_AUTH_TOKEN is required for libsql:// URLs")
	}
	if cfg.GIFFrameSize <= 0 {
		return Config{}, errors.New("GIF_FRAME_SIZE must be > 0")
	}
	if cfg.MaxSearchResults <= 0 {
		return Config{}, errors.New("MAX_SEARCH_RESULTS must be > 0")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func intOrDefault(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func floatOrDefault(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseList(raw string) []string {
	items := strings.Split(raw, ",")
	out := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
