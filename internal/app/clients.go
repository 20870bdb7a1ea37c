package app

import (
	"context"
	"fmt"

	"github.com/yungbote/relaybot/internal/clients/redis"
	"github.com/yungbote/relaybot/internal/modules/dispatch"
	"github.com/yungbote/relaybot/internal/platform/gemini"
	"github.com/yungbote/relaybot/internal/platform/logger"
	"github.com/yungbote/relaybot/internal/platform/openai"
	"github.com/yungbote/relaybot/internal/platform/telegram"
	"github.com/yungbote/relaybot/internal/platform/websearch"
)

type Clients struct {
	Bot       *telegram.Bot
	Assistant dispatch.Assistant
	Search    *websearch.Client
	// ActivityBus is nil when REDIS_ADDR is unset.
	ActivityBus redis.ActivityBus
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Telegram
	bot, err := telegram.New(log, telegram.Config{Token: cfg.TelegramToken})
	if err != nil {
		return Clients{}, fmt.Errorf("init telegram bot: %w", err)
	}

	// AI
	var assistant dispatch.Assistant
	switch cfg.AIProvider {
	case ProviderOpenAI:
		c, err := openai.NewClient(log, cfg.OpenAI)
		if err != nil {
			return Clients{}, fmt.Errorf("init openai client: %w", err)
		}
		assistant = c
	default:
		c, err := gemini.NewClient(ctx, log, cfg.Gemini)
		if err != nil {
			return Clients{}, fmt.Errorf("init gemini client: %w", err)
		}
		assistant = c
	}

	// Search
	search, err := websearch.New(log, cfg.Search)
	if err != nil {
		return Clients{}, fmt.Errorf("init web search: %w", err)
	}

	// Redis
	var bus redis.ActivityBus
	if cfg.Redis.Addr != "" {
		b, err := redis.NewActivityBus(log, cfg.Redis)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis activity bus: %w", err)
		}
		bus = b
	}

	return Clients{
		Bot:         bot,
		Assistant:   assistant,
		Search:      search,
		ActivityBus: bus,
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.ActivityBus != nil {
		_ = c.ActivityBus.Close()
	}
}
