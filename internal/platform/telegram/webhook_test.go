package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveWebhookSecret(t *testing.T) {
	a := DeriveWebhookSecret("123:abc")
	assert.Len(t, a, 32)
	assert.Equal(t, a, DeriveWebhookSecret("123:abc"))
	assert.NotEqual(t, a, DeriveWebhookSecret("123:abd"))
	assert.NotContains(t, a, "abc")
	assert.NoError(t, ValidateWebhookSecret(a))
}

func TestValidateWebhookSecret(t *testing.T) {
	assert.NoError(t, ValidateWebhookSecret("s3cret_path-segment"))
	assert.Error(t, ValidateWebhookSecret(""))
	assert.Error(t, ValidateWebhookSecret("short"))
	assert.Error(t, ValidateWebhookSecret("has/slash/in/the/middle"))
	assert.Error(t, ValidateWebhookSecret("has spaces in the secret"))
}

func TestWebhookURL(t *testing.T) {
	assert.Equal(t, "https://bot.example.com/telegram/webhook/abc", WebhookURL("https://bot.example.com/telegram/webhook/", "abc"))
	assert.Equal(t, "https://bot.example.com/telegram/webhook/abc", WebhookURL("https://bot.example.com/telegram/webhook", "abc"))
}
