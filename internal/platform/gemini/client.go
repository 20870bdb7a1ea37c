package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/genai"

	"github.com/yungbote/relaybot/internal/platform/logger"
)

const (
	defaultTextModel   = "gemini-2.5-flash"
	defaultVisionModel = "gemini-2.5-flash"
)

type Config struct {
	APIKey      string
	TextModel   string
	VisionModel string
	// BaseURL overrides the Gemini API host.
	BaseURL    string
	HTTPClient *http.Client
}

// Client backs the dispatcher's assistant with two Gemini models: one for
// text completions and one for image descriptions.
type Client struct {
	log         *logger.Logger
	genai       *genai.Client
	textModel   string
	visionModel string
}

func NewClient(ctx context.Context, log *logger.Logger, cfg Config) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}

	c := &Client{
		log:         log.With("client", "GeminiClient"),
		genai:       gc,
		textModel:   strings.TrimSpace(cfg.TextModel),
		visionModel: strings.TrimSpace(cfg.VisionModel),
	}
	if c.textModel == "" {
		c.textModel = defaultTextModel
	}
	if c.visionModel == "" {
		c.visionModel = defaultVisionModel
	}
	return c, nil
}

func (c *Client) generate(ctx context.Context, model string, contents []*genai.Content) (string, error) {
	start := time.Now()
	resp, err := c.genai.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		c.log.Warn("Gemini request failed", "model", model, "error", err)
		return "", err
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini %s: empty response", model)
	}
	c.log.Debug("Gemini response", "model", model, "duration_ms", time.Since(start).Milliseconds())
	return text, nil
}

// Complete sends prompt alone to the text model.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, c.textModel, genai.Text(prompt))
}

// Describe sends the image bytes with no accompanying prompt to the vision model.
func (c *Client) Describe(ctx context.Context, image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("empty image")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	parts := []*genai.Part{genai.NewPartFromBytes(image, mimeType)}
	return c.generate(ctx, c.visionModel, []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)})
}
