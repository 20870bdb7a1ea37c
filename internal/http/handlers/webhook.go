package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yungbote/relaybot/internal/platform/logger"
	"github.com/yungbote/relaybot/internal/platform/telegram"
)

type UpdateDecoder interface {
	DecodeUpdate(r *http.Request) (*tgbotapi.Update, error)
}

// WebhookHandler accepts Telegram pushes on /telegram/webhook/:secret. Requests
// with the wrong secret get 404 and are never decoded. Accepted requests always
// answer 200 so Telegram does not redeliver an update whose handling already
// failed once.
type WebhookHandler struct {
	log     *logger.Logger
	secret  []byte
	decoder UpdateDecoder
	handle  telegram.HandlerFunc
}

func NewWebhookHandler(log *logger.Logger, secret string, decoder UpdateDecoder, handle telegram.HandlerFunc) *WebhookHandler {
	return &WebhookHandler{
		log:     log.With("handler", "TelegramWebhook"),
		secret:  []byte(secret),
		decoder: decoder,
		handle:  handle,
	}
}

func (h *WebhookHandler) authorized(c *gin.Context) bool {
	if len(h.secret) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.Param("secret")), h.secret) == 1
}

func (h *WebhookHandler) Receive(c *gin.Context) {
	if !h.authorized(c) {
		h.log.Warn("Webhook request with bad secret", "remote_addr", c.ClientIP())
		c.Status(http.StatusNotFound)
		return
	}
	u, err := h.decoder.DecodeUpdate(c.Request)
	if err != nil {
		h.log.Warn("Webhook update rejected", "error", err)
		c.Status(http.StatusOK)
		return
	}
	telegram.Invoke(c.Request.Context(), h.log, h.handle, *u)
	c.Status(http.StatusOK)
}
