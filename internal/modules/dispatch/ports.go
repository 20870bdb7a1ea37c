package dispatch

import (
	"context"

	"github.com/yungbote/relaybot/internal/domain/bot"
)

// Transport is the outbound half of the messaging platform.
type Transport interface {
	SendText(ctx context.Context, chatID int64, text string) error
	// SendContactRequest offers a single one-shot button that shares the user's contact.
	SendContactRequest(ctx context.Context, chatID int64, text, buttonLabel string) error
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

// Assistant is the generative-AI service. Calls are stateless.
type Assistant interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Describe(ctx context.Context, image []byte, mimeType string) (string, error)
}

// Searcher returns result snippets for a query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}

type Publisher interface {
	Publish(ctx context.Context, activity bot.Activity) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, bot.Activity) error { return nil }
