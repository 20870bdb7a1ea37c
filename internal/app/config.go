package app

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/relaybot/internal/clients/redis"
	"github.com/yungbote/relaybot/internal/observability"
	"github.com/yungbote/relaybot/internal/platform/envutil"
	"github.com/yungbote/relaybot/internal/platform/gemini"
	"github.com/yungbote/relaybot/internal/platform/logger"
	"github.com/yungbote/relaybot/internal/platform/openai"
	"github.com/yungbote/relaybot/internal/platform/telegram"
	"github.com/yungbote/relaybot/internal/platform/websearch"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	TelegramToken         string
	TelegramWebhookURL    string
	// TelegramWebhookSecret is the last path segment Telegram must post to.
	TelegramWebhookSecret string
	PollTimeoutSeconds    int

	AIProvider string
	Gemini     gemini.Config
	OpenAI     openai.Config

	DatabaseURL string
	AutoMigrate bool

	Search websearch.Config
	// Redis.Addr empty disables the activity feed.
	Redis redis.Config

	HTTPAddr string
	Otel     observability.OtelConfig
}

// WebhookMode reports whether updates arrive over HTTP instead of long polling.
func (c Config) WebhookMode() bool { return c.TelegramWebhookURL != "" }

// loadDotEnv reads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		TelegramToken:         envutil.String("TELEGRAM_TOKEN", ""),
		TelegramWebhookURL:    envutil.String("TELEGRAM_WEBHOOK_URL", ""),
		TelegramWebhookSecret: envutil.String("TELEGRAM_WEBHOOK_SECRET", ""),
		PollTimeoutSeconds:    envutil.Int("TELEGRAM_POLL_TIMEOUT_SECONDS", 60),

		AIProvider: strings.ToLower(envutil.String("AI_PROVIDER", ProviderGemini)),
		Gemini: gemini.Config{
			APIKey:      envutil.String("GEMINI_API_KEY", ""),
			TextModel:   envutil.String("GEMINI_TEXT_MODEL", ""),
			VisionModel: envutil.String("GEMINI_VISION_MODEL", ""),
		},
		OpenAI: openai.Config{
			APIKey:      envutil.String("OPENAI_API_KEY", ""),
			BaseURL:     envutil.String("OPENAI_BASE_URL", ""),
			Model:       envutil.String("OPENAI_MODEL", ""),
			VisionModel: envutil.String("OPENAI_VISION_MODEL", ""),
			Timeout:     envutil.Seconds("OPENAI_TIMEOUT_SECONDS", 0),
		},

		DatabaseURL: envutil.String("DATABASE_URL", "sqlite://relaybot.db"),
		AutoMigrate: envutil.Bool("DB_AUTO_MIGRATE", true),

		Search: websearch.Config{
			BaseURL:    envutil.String("SEARCH_BASE_URL", websearch.DefaultBaseURL),
			UserAgent:  envutil.String("SEARCH_USER_AGENT", websearch.DefaultUserAgent),
			Selector:   envutil.String("SEARCH_RESULT_SELECTOR", websearch.DefaultSelector),
			MaxResults: envutil.Int("SEARCH_MAX_RESULTS", websearch.DefaultMaxResults),
			Timeout:    envutil.Seconds("SEARCH_TIMEOUT_SECONDS", 20*time.Second),
		},
		Redis: redis.Config{
			Addr:    envutil.String("REDIS_ADDR", ""),
			Channel: envutil.String("REDIS_CHANNEL", redis.DefaultChannel),
		},

		HTTPAddr: envutil.String("HTTP_ADDR", ":8080"),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "relaybot"),
			Environment: envutil.String("APP_ENV", "development"),
			Version:     envutil.String("APP_VERSION", ""),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 0.1),
		},
	}

	if cfg.TelegramToken == "" {
		return Config{}, fmt.Errorf("missing TELEGRAM_TOKEN")
	}
	if cfg.WebhookMode() {
		if cfg.TelegramWebhookSecret == "" {
			cfg.TelegramWebhookSecret = telegram.DeriveWebhookSecret(cfg.TelegramToken)
		}
		if err := telegram.ValidateWebhookSecret(cfg.TelegramWebhookSecret); err != nil {
			return Config{}, fmt.Errorf("TELEGRAM_WEBHOOK_SECRET: %w", err)
		}
	}
	switch cfg.AIProvider {
	case ProviderGemini:
		if cfg.Gemini.APIKey == "" {
			return Config{}, fmt.Errorf("missing GEMINI_API_KEY")
		}
	case ProviderOpenAI:
		if cfg.OpenAI.APIKey == "" {
			return Config{}, fmt.Errorf("missing OPENAI_API_KEY")
		}
	default:
		return Config{}, fmt.Errorf("unknown AI_PROVIDER %q", cfg.AIProvider)
	}

	if log != nil {
		log.Info("Config loaded",
			"ai_provider", cfg.AIProvider,
			"webhook_mode", cfg.WebhookMode(),
			"activity_feed", cfg.Redis.Addr != "",
			"http_addr", cfg.HTTPAddr,
		)
	}
	return cfg, nil
}
