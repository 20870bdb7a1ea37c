package dispatch

import (
	"bytes"
	"encoding/json"
	"strings"
)

const (
	WelcomeText       = "👋 Welcome! Please share your contact:"
	ShareContactLabel = "📱 Share Contact"
	RegisteredText    = "✅ Registration complete! Now chat with me!"
	ImageLabel        = "🔍 Analysis:\n"
	SearchLabel       = "🌐 Web Results:\n"

	summarizeInstruction = "Summarize these search results: "
)

// SummarizePrompt renders the snippets as a JSON list after the fixed instruction.
// No snippets renders as "[]" so the summarizer still runs on degenerate input.
func SummarizePrompt(snippets []string) string {
	if snippets == nil {
		snippets = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(snippets); err != nil {
		return summarizeInstruction + "[]"
	}
	return summarizeInstruction + strings.TrimRight(buf.String(), "\n")
}
