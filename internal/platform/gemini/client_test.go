package gemini

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/relaybot/internal/platform/logger"
)

type capture struct {
	path string
	body string
}

func newTestClient(t *testing.T, status int, reply string) (*Client, *capture) {
	t.Helper()
	got := &capture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		got.path = r.URL.Path
		got.body = string(raw)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(context.Background(), logger.NewNop(), Config{
		APIKey:      "test-key",
		TextModel:   "text-model",
		VisionModel: "vision-model",
		BaseURL:     srv.URL + "/",
		HTTPClient:  srv.Client(),
	})
	require.NoError(t, err)
	return c, got
}

const okReply = `{"candidates":[{"content":{"role":"model","parts":[{"text":"hi there"}]}}]}`

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), logger.NewNop(), Config{})
	assert.Error(t, err)
}

func TestDefaultModels(t *testing.T) {
	c, err := NewClient(context.Background(), logger.NewNop(), Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, defaultTextModel, c.textModel)
	assert.Equal(t, defaultVisionModel, c.visionModel)
}

func TestComplete(t *testing.T) {
	c, got := newTestClient(t, http.StatusOK, okReply)

	text, err := c.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", text)
	assert.True(t, strings.HasSuffix(got.path, "models/text-model:generateContent"), got.path)
	assert.Contains(t, got.body, `"hello"`)
}

func TestDescribeSendsInlineImageOnly(t *testing.T) {
	c, got := newTestClient(t, http.StatusOK, okReply)

	_, err := c.Describe(context.Background(), []byte("png"), "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(got.path, "models/vision-model:generateContent"), got.path)
	assert.Contains(t, got.body, "cG5n")
	assert.Contains(t, got.body, "image/png")
	assert.NotContains(t, got.body, `"text"`)
}

func TestEmptyCandidatesIsError(t *testing.T) {
	c, _ := newTestClient(t, http.StatusOK, `{"candidates":[]}`)
	_, err := c.Complete(context.Background(), "hello")
	assert.Error(t, err)
}

func TestServerError(t *testing.T) {
	c, _ := newTestClient(t, http.StatusInternalServerError, `{"error":{"code":500,"message":"boom","status":"INTERNAL"}}`)
	_, err := c.Complete(context.Background(), "hello")
	assert.Error(t, err)
}
