package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/yungbote/relaybot/internal/pkg/httpx"
	"github.com/yungbote/relaybot/internal/platform/logger"
)

const (
	defaultAPIEndpoint  = tgbotapi.APIEndpoint
	defaultFileEndpoint = tgbotapi.FileEndpoint
)

type Config struct {
	Token string
	// APIEndpoint and FileEndpoint are fmt patterns taking (token, method|path).
	APIEndpoint  string
	FileEndpoint string
	HTTPClient   *http.Client
}

// Bot is the Telegram side of the dispatcher: outbound replies and file downloads.
type Bot struct {
	log          *logger.Logger
	api          *tgbotapi.BotAPI
	token        string
	fileEndpoint string
	httpClient   *http.Client
}

func New(log *logger.Logger, cfg Config) (*Bot, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, fmt.Errorf("missing TELEGRAM_TOKEN")
	}
	if cfg.APIEndpoint == "" {
		cfg.APIEndpoint = defaultAPIEndpoint
	}
	if cfg.FileEndpoint == "" {
		cfg.FileEndpoint = defaultFileEndpoint
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 90 * time.Second, Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}

	api, err := tgbotapi.NewBotAPIWithClient(token, cfg.APIEndpoint, cfg.HTTPClient)
	if err != nil {
		return nil, fmt.Errorf("telegram getMe: %w", err)
	}
	blog := log.With("service", "TelegramBot", "bot_username", api.Self.UserName)
	blog.Info("Telegram bot authorized")

	return &Bot{
		log:          blog,
		api:          api,
		token:        token,
		fileEndpoint: cfg.FileEndpoint,
		httpClient:   cfg.HTTPClient,
	}, nil
}

func (b *Bot) SendText(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	return nil
}

// SendContactRequest attaches a one-time keyboard with a single contact-share button.
func (b *Bot) SendContactRequest(ctx context.Context, chatID int64, text, buttonLabel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewOneTimeReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonContact(buttonLabel)),
	)
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	return nil
}

// DownloadFile resolves fileID with getFile and fetches the raw bytes.
func (b *Bot) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("telegram getFile: %w", err)
	}
	if file.FilePath == "" {
		return nil, fmt.Errorf("telegram getFile: empty file_path")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(b.fileEndpoint, b.token, file.FilePath), nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram file download: %w", err)
	}
	defer resp.Body.Close()
	if err := httpx.CheckResponse(resp, "telegram file"); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

// SetWebhook registers url with Telegram so updates arrive over HTTP instead of polling.
func (b *Bot) SetWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("telegram webhook url: %w", err)
	}
	if _, err := b.api.Request(wh); err != nil {
		return fmt.Errorf("telegram setWebhook: %w", err)
	}
	b.log.Info("Telegram webhook registered")
	return nil
}

// DeleteWebhook clears any webhook so getUpdates polling is allowed.
func (b *Bot) DeleteWebhook() error {
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("telegram deleteWebhook: %w", err)
	}
	return nil
}

// DecodeUpdate parses a webhook request body.
func (b *Bot) DecodeUpdate(r *http.Request) (*tgbotapi.Update, error) {
	return b.api.HandleUpdate(r)
}
