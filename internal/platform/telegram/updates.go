package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yungbote/relaybot/internal/modules/dispatch"
	apperrors "github.com/yungbote/relaybot/internal/pkg/errors"
	"github.com/yungbote/relaybot/internal/pkg/httpx"
	"github.com/yungbote/relaybot/internal/platform/logger"
)

// HandlerFunc consumes one converted update.
type HandlerFunc func(ctx context.Context, ev dispatch.Event) error

// EventFromUpdate routes an update the way the bot registers its handlers:
// /start and /websearch first, then contact, photo and finally non-command text.
func EventFromUpdate(u tgbotapi.Update) dispatch.Event {
	ev := dispatch.Event{Kind: dispatch.KindIgnored, UpdateID: u.UpdateID}
	m := u.Message
	if m == nil {
		return ev
	}
	if m.Chat != nil {
		ev.ChatID = m.Chat.ID
	}
	if m.From != nil {
		ev.Sender = dispatch.Sender{ID: m.From.ID, FirstName: m.From.FirstName, Username: m.From.UserName}
	}

	switch {
	case m.IsCommand():
		switch m.Command() {
		case "start":
			ev.Kind = dispatch.KindStart
		case "websearch":
			ev.Kind = dispatch.KindWebSearch
			ev.Args = strings.Fields(m.CommandArguments())
		}
	case m.Contact != nil:
		ev.Kind = dispatch.KindContact
		ev.Contact = &dispatch.Contact{PhoneNumber: m.Contact.PhoneNumber}
	case len(m.Photo) > 0:
		ev.Kind = dispatch.KindPhoto
		ev.Photos = make([]dispatch.PhotoVariant, 0, len(m.Photo))
		for _, p := range m.Photo {
			ev.Photos = append(ev.Photos, dispatch.PhotoVariant{
				FileID:   p.FileID,
				Width:    p.Width,
				Height:   p.Height,
				FileSize: p.FileSize,
			})
		}
	case m.Text != "":
		ev.Kind = dispatch.KindText
		ev.Text = m.Text
	}
	return ev
}

// Invoke converts and handles one update. Handler errors and panics are logged
// and swallowed so the update loop keeps serving other chats.
func Invoke(ctx context.Context, log *logger.Logger, handle HandlerFunc, u tgbotapi.Update) {
	ev := EventFromUpdate(u)
	if ev.Kind == dispatch.KindIgnored {
		log.Debug("Update ignored", "update_id", u.UpdateID)
		return
	}
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Error("Update handler panicked", "kind", string(ev.Kind), "update_id", u.UpdateID, "panic", fmt.Sprint(r))
		}
	}()

	if err := handle(ctx, ev); err != nil {
		kind, _ := apperrors.KindOf(err)
		status := httpx.StatusCode(err)
		log.Error("Update handler failed",
			"kind", string(ev.Kind),
			"update_id", u.UpdateID,
			"chat_id", ev.ChatID,
			"failure", string(kind),
			"upstream_status", status,
			"transient", httpx.IsRetryableHTTPStatus(status),
			"error", err,
		)
		return
	}
	log.Info("Update handled",
		"kind", string(ev.Kind),
		"update_id", u.UpdateID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
