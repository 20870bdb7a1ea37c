package dispatch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/relaybot/internal/data/repos"
	"github.com/yungbote/relaybot/internal/data/repos/testutil"
	"github.com/yungbote/relaybot/internal/domain/bot"
	"github.com/yungbote/relaybot/internal/pkg/dbctx"
	apperrors "github.com/yungbote/relaybot/internal/pkg/errors"
)

type sentMessage struct {
	ChatID       int64
	Text         string
	ContactLabel string
}

type fakeTransport struct {
	mu      sync.Mutex
	sent    []sentMessage
	files   map[string][]byte
	sendErr error
}

func (f *fakeTransport) SendText(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Text: text})
	return nil
}

func (f *fakeTransport) SendContactRequest(_ context.Context, chatID int64, text, label string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Text: text, ContactLabel: label})
	return nil
}

func (f *fakeTransport) DownloadFile(_ context.Context, fileID string) ([]byte, error) {
	b, ok := f.files[fileID]
	if !ok {
		return nil, errors.New("file not found")
	}
	return b, nil
}

type fakeAssistant struct {
	mu          sync.Mutex
	prompts     []string
	images      [][]byte
	mimeTypes   []string
	completion  string
	description string
	err         error
}

func (f *fakeAssistant) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.completion, nil
}

func (f *fakeAssistant) Describe(_ context.Context, image []byte, mimeType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.images = append(f.images, image)
	f.mimeTypes = append(f.mimeTypes, mimeType)
	if f.err != nil {
		return "", f.err
	}
	return f.description, nil
}

type fakeSearcher struct {
	queries  []string
	snippets []string
	err      error
}

func (f *fakeSearcher) Search(_ context.Context, query string) ([]string, error) {
	f.queries = append(f.queries, query)
	return f.snippets, f.err
}

type fakePublisher struct {
	mu         sync.Mutex
	activities []bot.Activity
	err        error
}

func (f *fakePublisher) Publish(_ context.Context, a bot.Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activities = append(f.activities, a)
	return f.err
}

type harness struct {
	d         *Dispatcher
	transport *fakeTransport
	ai        *fakeAssistant
	search    *fakeSearcher
	publisher *fakePublisher

	users    repos.UserProfileRepo
	chats    repos.ChatRecordRepo
	files    repos.FileRecordRepo
	searches repos.SearchRecordRepo
}

var fixedNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	h := &harness{
		transport: &fakeTransport{files: map[string][]byte{}},
		ai:        &fakeAssistant{},
		search:    &fakeSearcher{},
		publisher: &fakePublisher{},
		users:     repos.NewUserProfileRepo(db, log),
		chats:     repos.NewChatRecordRepo(db, log),
		files:     repos.NewFileRecordRepo(db, log),
		searches:  repos.NewSearchRecordRepo(db, log),
	}
	d, err := New(Deps{
		Log:       log,
		Transport: h.transport,
		AI:        h.ai,
		Search:    h.search,
		Publisher: h.publisher,
		Users:     h.users,
		Chats:     h.chats,
		Files:     h.files,
		Searches:  h.searches,
		Now:       func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	h.d = d
	return h
}

func (h *harness) totalRows(t *testing.T) int64 {
	t.Helper()
	dbc := dbctx.New(context.Background())
	var total int64
	for _, count := range []func(dbctx.Context) (int64, error){h.users.Count, h.chats.Count, h.files.Count, h.searches.Count} {
		n, err := count(dbc)
		require.NoError(t, err)
		total += n
	}
	return total
}

func TestNewRequiresDeps(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)
}

func TestStartSendsSingleContactRequestWithoutWrites(t *testing.T) {
	h := newHarness(t)

	err := h.d.Dispatch(context.Background(), Event{Kind: KindStart, ChatID: 42, Sender: Sender{ID: 42}})
	require.NoError(t, err)

	require.Len(t, h.transport.sent, 1)
	assert.Equal(t, WelcomeText, h.transport.sent[0].Text)
	assert.Equal(t, ShareContactLabel, h.transport.sent[0].ContactLabel)
	assert.EqualValues(t, 0, h.totalRows(t))
	assert.Empty(t, h.publisher.activities)
}

func TestRegisterContactLastWriteWins(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.d.Dispatch(ctx, Event{
		Kind:    KindContact,
		ChatID:  42,
		Sender:  Sender{ID: 42, FirstName: "Ana", Username: "ana"},
		Contact: &Contact{PhoneNumber: "+1555"},
	}))
	got, err := h.users.GetByChatID(dbctx.New(ctx), 42)
	require.NoError(t, err)
	assert.Equal(t, "+1555", got.Phone)
	assert.Equal(t, "Ana", got.FirstName)

	require.NoError(t, h.d.Dispatch(ctx, Event{
		Kind:    KindContact,
		ChatID:  42,
		Sender:  Sender{ID: 42},
		Contact: &Contact{PhoneNumber: "+1556"},
	}))
	n, err := h.users.Count(dbctx.New(ctx))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err = h.users.GetByChatID(dbctx.New(ctx), 42)
	require.NoError(t, err)
	assert.Equal(t, "+1556", got.Phone)

	require.Len(t, h.transport.sent, 2)
	assert.Equal(t, RegisteredText, h.transport.sent[1].Text)
	require.Len(t, h.publisher.activities, 2)
	assert.Equal(t, bot.ActivityRegistered, h.publisher.activities[0].Type)
}

func TestRegisterContactMissingPayload(t *testing.T) {
	h := newHarness(t)
	err := h.d.Dispatch(context.Background(), Event{Kind: KindContact, ChatID: 1, Sender: Sender{ID: 1}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	assert.Empty(t, h.transport.sent)
}

func TestAnswerTextRepliesVerbatimAndRecords(t *testing.T) {
	h := newHarness(t)
	h.ai.completion = "hi there"
	ctx := context.Background()

	require.NoError(t, h.d.Dispatch(ctx, Event{Kind: KindText, ChatID: 42, Sender: Sender{ID: 42}, Text: "hello"}))

	assert.Equal(t, []string{"hello"}, h.ai.prompts)
	require.Len(t, h.transport.sent, 1)
	assert.Equal(t, "hi there", h.transport.sent[0].Text)

	rows, err := h.chats.ListByUser(dbctx.New(ctx), 42, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "hello", rows[0].Query)
	assert.Equal(t, h.transport.sent[0].Text, rows[0].Response)
	assert.True(t, rows[0].Timestamp.Equal(fixedNow))
}

func TestAnswerTextIsStateless(t *testing.T) {
	h := newHarness(t)
	h.ai.completion = strings.Repeat("long answer ", 500)
	ctx := context.Background()

	for _, text := range []string{"first", "second"} {
		require.NoError(t, h.d.Dispatch(ctx, Event{Kind: KindText, ChatID: 7, Text: text}))
	}
	assert.Equal(t, []string{"first", "second"}, h.ai.prompts)

	n, err := h.chats.Count(dbctx.New(ctx))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, h.ai.completion, h.transport.sent[1].Text)
}

func TestAnswerTextAIFailureIsSilent(t *testing.T) {
	h := newHarness(t)
	h.ai.err = context.DeadlineExceeded

	err := h.d.Dispatch(context.Background(), Event{Kind: KindText, ChatID: 42, Text: "hello"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	kind, ok := apperrors.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindAI, kind)

	assert.Empty(t, h.transport.sent)
	assert.EqualValues(t, 0, h.totalRows(t))
}

func TestAnalyzeImageUsesLargestVariant(t *testing.T) {
	h := newHarness(t)
	png := []byte("\x89PNG\r\n\x1a\n0000")
	h.transport.files["big"] = png
	h.ai.description = "a cat on a sofa"
	ctx := context.Background()

	require.NoError(t, h.d.Dispatch(ctx, Event{
		Kind:   KindPhoto,
		ChatID: 42,
		Sender: Sender{ID: 42},
		Photos: []PhotoVariant{{FileID: "small", Width: 90}, {FileID: "big", Width: 1280}},
	}))

	require.Len(t, h.ai.images, 1)
	assert.Equal(t, png, h.ai.images[0])
	assert.Equal(t, "image/png", h.ai.mimeTypes[0])

	require.Len(t, h.transport.sent, 1)
	reply := h.transport.sent[0].Text
	require.True(t, strings.HasPrefix(reply, ImageLabel))

	rows, err := h.files.ListByUser(dbctx.New(ctx), 42, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "big", rows[0].FileID)
	assert.Equal(t, strings.TrimPrefix(reply, ImageLabel), rows[0].Description)
}

func TestAnalyzeImageDownloadFailure(t *testing.T) {
	h := newHarness(t)
	err := h.d.Dispatch(context.Background(), Event{Kind: KindPhoto, ChatID: 1, Photos: []PhotoVariant{{FileID: "gone"}}})
	kind, ok := apperrors.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindTransport, kind)
	assert.Empty(t, h.ai.images)
	assert.EqualValues(t, 0, h.totalRows(t))
}

func TestWebSearchEmptySnippetsStillSummarizes(t *testing.T) {
	h := newHarness(t)
	h.search.snippets = nil
	h.ai.completion = "No results to summarize."
	ctx := context.Background()

	require.NoError(t, h.d.Dispatch(ctx, Event{Kind: KindWebSearch, ChatID: 42, Sender: Sender{ID: 42}, Args: []string{"foo", "bar"}}))

	assert.Equal(t, []string{"foo bar"}, h.search.queries)
	assert.Equal(t, []string{"Summarize these search results: []"}, h.ai.prompts)
	require.Len(t, h.transport.sent, 1)
	assert.True(t, strings.HasPrefix(h.transport.sent[0].Text, SearchLabel))

	rows, err := h.searches.ListByUser(dbctx.New(ctx), 42, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "foo bar", rows[0].Query)
	assert.Equal(t, "No results to summarize.", rows[0].Summary)
}

func TestWebSearchPassesSnippetsAsList(t *testing.T) {
	h := newHarness(t)
	h.search.snippets = []string{"Go is a language", "Gophers"}
	h.ai.completion = "summary"

	require.NoError(t, h.d.Dispatch(context.Background(), Event{Kind: KindWebSearch, ChatID: 1, Args: []string{"golang"}}))
	assert.Equal(t, []string{`Summarize these search results: ["Go is a language","Gophers"]`}, h.ai.prompts)
	assert.Equal(t, SearchLabel+"summary", h.transport.sent[0].Text)
}

func TestWebSearchEmptyQuery(t *testing.T) {
	h := newHarness(t)
	h.ai.completion = "summary"

	require.NoError(t, h.d.Dispatch(context.Background(), Event{Kind: KindWebSearch, ChatID: 1}))
	assert.Equal(t, []string{""}, h.search.queries)
}

func TestWebSearchFetchFailureStopsPipeline(t *testing.T) {
	h := newHarness(t)
	h.search.err = errors.New("connection refused")

	err := h.d.Dispatch(context.Background(), Event{Kind: KindWebSearch, ChatID: 1, Args: []string{"x"}})
	kind, ok := apperrors.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindSearch, kind)
	assert.Empty(t, h.ai.prompts)
	assert.Empty(t, h.transport.sent)
}

func TestSendFailureSurfacesAfterWrite(t *testing.T) {
	h := newHarness(t)
	h.ai.completion = "hi"
	h.transport.sendErr = errors.New("chat not found")

	err := h.d.Dispatch(context.Background(), Event{Kind: KindText, ChatID: 1, Text: "hello"})
	kind, ok := apperrors.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindTransport, kind)
	assert.EqualValues(t, 1, h.totalRows(t))
}

func TestPublishFailureDoesNotChangeOutcome(t *testing.T) {
	h := newHarness(t)
	h.ai.completion = "hi"
	h.publisher.err = errors.New("redis down")

	require.NoError(t, h.d.Dispatch(context.Background(), Event{Kind: KindText, ChatID: 1, Text: "hello"}))
	assert.Len(t, h.transport.sent, 1)
}

func TestIgnoredAndUnknownKinds(t *testing.T) {
	h := newHarness(t)
	assert.NoError(t, h.d.Dispatch(context.Background(), Event{Kind: KindIgnored, ChatID: 1}))
	assert.ErrorIs(t, h.d.Dispatch(context.Background(), Event{Kind: "sticker", ChatID: 1}), apperrors.ErrInvalidArgument)
	assert.Empty(t, h.transport.sent)
}

func TestSummarizePrompt(t *testing.T) {
	assert.Equal(t, "Summarize these search results: []", SummarizePrompt(nil))
	assert.Equal(t, "Summarize these search results: []", SummarizePrompt([]string{}))
	assert.Equal(t, `Summarize these search results: ["a \"quoted\" b"]`, SummarizePrompt([]string{`a "quoted" b`}))
	assert.Equal(t, `Summarize these search results: ["Q&A <b>"]`, SummarizePrompt([]string{"Q&A <b>"}))
}

func TestAccountIDFallsBackToChat(t *testing.T) {
	assert.EqualValues(t, 5, Event{ChatID: 5}.AccountID())
	assert.EqualValues(t, 6, Event{ChatID: 5, Sender: Sender{ID: 6}}.AccountID())
}
