package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Poll long-polls getUpdates and handles updates one at a time until ctx is done.
func (b *Bot) Poll(ctx context.Context, timeoutSeconds int, handle HandlerFunc) error {
	cfg := tgbotapi.NewUpdate(0)
	if timeoutSeconds > 0 {
		cfg.Timeout = timeoutSeconds
	} else {
		cfg.Timeout = 60
	}
	updates := b.api.GetUpdatesChan(cfg)
	b.log.Info("Polling for updates", "timeout_seconds", cfg.Timeout)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("Polling stopped")
			return nil
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			Invoke(ctx, b.log, handle, u)
		}
	}
}
