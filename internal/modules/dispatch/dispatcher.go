package dispatch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/relaybot/internal/data/repos"
	"github.com/yungbote/relaybot/internal/domain/bot"
	"github.com/yungbote/relaybot/internal/pkg/dbctx"
	apperrors "github.com/yungbote/relaybot/internal/pkg/errors"
	"github.com/yungbote/relaybot/internal/platform/logger"
)

type Deps struct {
	Log *logger.Logger

	Transport Transport
	AI        Assistant
	Search    Searcher
	// Publisher is optional.
	Publisher Publisher

	Users    repos.UserProfileRepo
	Chats    repos.ChatRecordRepo
	Files    repos.FileRecordRepo
	Searches repos.SearchRecordRepo

	// Now defaults to time.Now in UTC.
	Now func() time.Time
}

// Dispatcher maps each inbound event to one outbound action. It keeps no state
// between events, so one instance serves every chat concurrently.
type Dispatcher struct {
	deps   Deps
	log    *logger.Logger
	tracer trace.Tracer
}

func New(deps Deps) (*Dispatcher, error) {
	switch {
	case deps.Log == nil:
		return nil, fmt.Errorf("logger required")
	case deps.Transport == nil:
		return nil, fmt.Errorf("transport required")
	case deps.AI == nil:
		return nil, fmt.Errorf("assistant required")
	case deps.Search == nil:
		return nil, fmt.Errorf("searcher required")
	case deps.Users == nil || deps.Chats == nil || deps.Files == nil || deps.Searches == nil:
		return nil, fmt.Errorf("repos required")
	}
	if deps.Publisher == nil {
		deps.Publisher = noopPublisher{}
	}
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Dispatcher{
		deps:   deps,
		log:    deps.Log.With("service", "Dispatcher"),
		tracer: otel.Tracer("github.com/yungbote/relaybot/internal/modules/dispatch"),
	}, nil
}

// Dispatch runs the handler for ev.Kind. Failures are returned unrecovered; the
// caller decides how to log them. Ignored events are a no-op.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) error {
	ctx, span := d.tracer.Start(ctx, "dispatch."+string(ev.Kind), trace.WithAttributes(
		attribute.String("event.kind", string(ev.Kind)),
		attribute.Int("update.id", ev.UpdateID),
	))
	defer span.End()

	var err error
	switch ev.Kind {
	case KindStart:
		err = d.Welcome(ctx, ev)
	case KindContact:
		err = d.RegisterContact(ctx, ev)
	case KindText:
		err = d.AnswerText(ctx, ev)
	case KindPhoto:
		err = d.AnalyzeImage(ctx, ev)
	case KindWebSearch:
		err = d.WebSearch(ctx, ev)
	case KindIgnored, "":
		return nil
	default:
		err = fmt.Errorf("unknown event kind %q: %w", ev.Kind, apperrors.ErrInvalidArgument)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// Welcome offers the contact-share button once. Nothing is persisted.
func (d *Dispatcher) Welcome(ctx context.Context, ev Event) error {
	err := d.deps.Transport.SendContactRequest(ctx, ev.ChatID, WelcomeText, ShareContactLabel)
	return apperrors.Wrap(apperrors.KindTransport, "welcome", err)
}

// RegisterContact upserts the sender's profile; the latest registration wins.
func (d *Dispatcher) RegisterContact(ctx context.Context, ev Event) error {
	const op = "register_contact"
	if ev.Contact == nil {
		return fmt.Errorf("%s: missing contact: %w", op, apperrors.ErrInvalidArgument)
	}
	profile := &bot.UserProfile{
		ChatID:       ev.AccountID(),
		FirstName:    ev.Sender.FirstName,
		Username:     ev.Sender.Username,
		Phone:        ev.Contact.PhoneNumber,
		RegisteredAt: d.deps.Now(),
	}
	if err := d.deps.Users.Upsert(dbctx.New(ctx), profile); err != nil {
		return apperrors.Wrap(apperrors.KindStore, op, err)
	}
	d.publish(ctx, bot.Activity{Type: bot.ActivityRegistered, UserID: profile.ChatID, At: profile.RegisteredAt})

	err := d.deps.Transport.SendText(ctx, ev.ChatID, RegisteredText)
	return apperrors.Wrap(apperrors.KindTransport, op, err)
}

// AnswerText relays the raw text to the assistant without any prior context and
// replies with the completion verbatim.
func (d *Dispatcher) AnswerText(ctx context.Context, ev Event) error {
	const op = "answer_text"
	response, err := d.deps.AI.Complete(ctx, ev.Text)
	if err != nil {
		return apperrors.Wrap(apperrors.KindAI, op, err)
	}

	rows, err := d.deps.Chats.Create(dbctx.New(ctx), []*bot.ChatRecord{{
		UserID:    ev.AccountID(),
		Query:     ev.Text,
		Response:  response,
		Timestamp: d.deps.Now(),
	}})
	if err != nil {
		return apperrors.Wrap(apperrors.KindStore, op, err)
	}
	d.publish(ctx, bot.Activity{Type: bot.ActivityChat, UserID: rows[0].UserID, RecordID: rows[0].ID, At: rows[0].Timestamp})

	err = d.deps.Transport.SendText(ctx, ev.ChatID, response)
	return apperrors.Wrap(apperrors.KindTransport, op, err)
}

// AnalyzeImage describes the largest photo variant.
func (d *Dispatcher) AnalyzeImage(ctx context.Context, ev Event) error {
	const op = "analyze_image"
	if len(ev.Photos) == 0 {
		return fmt.Errorf("%s: missing photo: %w", op, apperrors.ErrInvalidArgument)
	}
	photo := ev.Photos[len(ev.Photos)-1]
	d.log.Debug("Analyzing photo",
		"variants", len(ev.Photos),
		"width", photo.Width,
		"height", photo.Height,
		"file_size", photo.FileSize,
	)

	img, err := d.deps.Transport.DownloadFile(ctx, photo.FileID)
	if err != nil {
		return apperrors.Wrap(apperrors.KindTransport, op, err)
	}
	description, err := d.deps.AI.Describe(ctx, img, http.DetectContentType(img))
	if err != nil {
		return apperrors.Wrap(apperrors.KindAI, op, err)
	}

	rows, err := d.deps.Files.Create(dbctx.New(ctx), []*bot.FileRecord{{
		UserID:      ev.AccountID(),
		FileID:      photo.FileID,
		Description: description,
		Timestamp:   d.deps.Now(),
	}})
	if err != nil {
		return apperrors.Wrap(apperrors.KindStore, op, err)
	}
	d.publish(ctx, bot.Activity{Type: bot.ActivityFile, UserID: rows[0].UserID, RecordID: rows[0].ID, At: rows[0].Timestamp})

	err = d.deps.Transport.SendText(ctx, ev.ChatID, ImageLabel+description)
	return apperrors.Wrap(apperrors.KindTransport, op, err)
}

// WebSearch scrapes results for the joined command arguments and summarizes them.
// Zero snippets still go to the summarizer as an empty list.
func (d *Dispatcher) WebSearch(ctx context.Context, ev Event) error {
	const op = "web_search"
	query := strings.Join(ev.Args, " ")

	snippets, err := d.deps.Search.Search(ctx, query)
	if err != nil {
		return apperrors.Wrap(apperrors.KindSearch, op, err)
	}
	if len(snippets) == 0 {
		d.log.Warn("Search returned no snippets", "query_len", len(query))
	}

	summary, err := d.deps.AI.Complete(ctx, SummarizePrompt(snippets))
	if err != nil {
		return apperrors.Wrap(apperrors.KindAI, op, err)
	}

	rows, err := d.deps.Searches.Create(dbctx.New(ctx), []*bot.SearchRecord{{
		UserID:    ev.AccountID(),
		Query:     query,
		Summary:   summary,
		Timestamp: d.deps.Now(),
	}})
	if err != nil {
		return apperrors.Wrap(apperrors.KindStore, op, err)
	}
	d.publish(ctx, bot.Activity{Type: bot.ActivitySearch, UserID: rows[0].UserID, RecordID: rows[0].ID, At: rows[0].Timestamp})

	err = d.deps.Transport.SendText(ctx, ev.ChatID, SearchLabel+summary)
	return apperrors.Wrap(apperrors.KindTransport, op, err)
}

func (d *Dispatcher) publish(ctx context.Context, activity bot.Activity) {
	if err := d.deps.Publisher.Publish(ctx, activity); err != nil {
		d.log.Warn("Activity publish failed", "type", string(activity.Type), "error", err)
	}
}
