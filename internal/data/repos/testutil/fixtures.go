package testutil

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/relaybot/internal/domain/bot"
)

func SeedUserProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, chatID int64, phone string) *bot.UserProfile {
	tb.Helper()
	u := &bot.UserProfile{
		ChatID:       chatID,
		FirstName:    "Seed",
		Username:     "seed",
		Phone:        phone,
		RegisteredAt: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user profile: %v", err)
	}
	return u
}
