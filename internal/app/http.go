package app

import (
	"github.com/yungbote/relaybot/internal/data/db"
	apphttp "github.com/yungbote/relaybot/internal/http"
	httpH "github.com/yungbote/relaybot/internal/http/handlers"
	"github.com/yungbote/relaybot/internal/platform/logger"
	"github.com/yungbote/relaybot/internal/platform/telegram"
)

type Handlers struct {
	Health  *httpH.HealthHandler
	Webhook *httpH.WebhookHandler
}

func wireHandlers(log *logger.Logger, cfg Config, store *db.Service, clients Clients, modules Modules) Handlers {
	log.Info("Wiring handlers...")

	checks := map[string]httpH.Pinger{"database": store}
	if clients.ActivityBus != nil {
		checks["redis"] = clients.ActivityBus
	}
	h := Handlers{Health: httpH.NewHealthHandler(checks)}
	if cfg.WebhookMode() {
		h.Webhook = httpH.NewWebhookHandler(log, cfg.TelegramWebhookSecret, clients.Bot, telegram.HandlerFunc(modules.Dispatcher.Dispatch))
	}
	return h
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers) *apphttp.Server {
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:            log,
		ServiceName:    cfg.Otel.ServiceName,
		HealthHandler:  handlers.Health,
		WebhookHandler: handlers.Webhook,
	})
}
