package telegram

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

var webhookSecretPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{16,256}$`)

// DeriveWebhookSecret returns a stable path secret for token, used when no
// explicit secret is configured.
func DeriveWebhookSecret(token string) string {
	sum := sha256.Sum256([]byte("relaybot-webhook:" + token))
	return hex.EncodeToString(sum[:16])
}

// ValidateWebhookSecret rejects secrets that are short or need URL escaping.
func ValidateWebhookSecret(secret string) error {
	if !webhookSecretPattern.MatchString(secret) {
		return fmt.Errorf("webhook secret must be 16-256 characters of [A-Za-z0-9_-]")
	}
	return nil
}

// WebhookURL appends the secret path segment to the public webhook base URL.
func WebhookURL(base, secret string) string {
	return strings.TrimRight(base, "/") + "/" + secret
}
