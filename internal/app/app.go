package app

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/relaybot/internal/data/db"
	"github.com/yungbote/relaybot/internal/domain/bot"
	apphttp "github.com/yungbote/relaybot/internal/http"
	"github.com/yungbote/relaybot/internal/observability"
	"github.com/yungbote/relaybot/internal/platform/logger"
	"github.com/yungbote/relaybot/internal/platform/telegram"
)

var initOTel = observability.InitOTel

type App struct {
	Log     *logger.Logger
	Store   *db.Service
	Cfg     Config
	Repos   Repos
	Clients Clients
	Modules Modules
	Server  *apphttp.Server

	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}

	a := &App{Log: log, Cfg: cfg, otelShutdown: initOTel(ctx, log, cfg.Otel)}
	fail := func(err error) (*App, error) {
		a.Close()
		return nil, err
	}

	a.Store, err = db.Open(log, cfg.DatabaseURL)
	if err != nil {
		return fail(fmt.Errorf("init store: %w", err))
	}
	if cfg.AutoMigrate {
		if err := a.Store.AutoMigrateAll(); err != nil {
			return fail(fmt.Errorf("store automigrate: %w", err))
		}
	}

	a.Repos = wireRepos(a.Store.DB(), log)

	a.Clients, err = wireClients(ctx, log, cfg)
	if err != nil {
		return fail(err)
	}

	a.Modules, err = wireModules(log, a.Repos, a.Clients)
	if err != nil {
		return fail(err)
	}

	a.Server = wireServer(log, cfg, wireHandlers(log, cfg, a.Store, a.Clients, a.Modules))
	return a, nil
}

// Run serves updates and the ops HTTP surface until ctx is cancelled or either fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.Cfg.WebhookMode() {
		if err := a.Clients.Bot.SetWebhook(telegram.WebhookURL(a.Cfg.TelegramWebhookURL, a.Cfg.TelegramWebhookSecret)); err != nil {
			return err
		}
	} else if err := a.Clients.Bot.DeleteWebhook(); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Log.Info("HTTP server listening", "addr", a.Cfg.HTTPAddr)
		return a.Server.Run(ctx, a.Cfg.HTTPAddr)
	})

	if !a.Cfg.WebhookMode() {
		handle := telegram.HandlerFunc(a.Modules.Dispatcher.Dispatch)
		g.Go(func() error {
			return a.Clients.Bot.Poll(ctx, a.Cfg.PollTimeoutSeconds, handle)
		})
	}

	if a.Clients.ActivityBus != nil {
		alog := a.Log.With("service", "ActivityFeed")
		if err := a.Clients.ActivityBus.StartForwarder(ctx, func(act bot.Activity) {
			alog.Debug("Activity", "type", string(act.Type), "user_id", act.UserID, "record_id", act.RecordID.String())
		}); err != nil {
			a.Log.Warn("Activity forwarder not started", "error", err)
		}
	}

	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.Store != nil {
		_ = a.Store.Close()
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
