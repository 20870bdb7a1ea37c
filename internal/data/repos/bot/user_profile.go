package bot

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/relaybot/internal/domain/bot"
	"github.com/yungbote/relaybot/internal/pkg/dbctx"
	apperrors "github.com/yungbote/relaybot/internal/pkg/errors"
	"github.com/yungbote/relaybot/internal/platform/logger"
)

type UserProfileRepo interface {
	// Upsert inserts the profile or replaces every registration field of the existing row.
	Upsert(dbc dbctx.Context, profile *types.UserProfile) error
	GetByChatID(dbc dbctx.Context, chatID int64) (*types.UserProfile, error)
	Count(dbc dbctx.Context) (int64, error)
}

type userProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProfileRepo(db *gorm.DB, baseLog *logger.Logger) UserProfileRepo {
	return &userProfileRepo{db: db, log: baseLog.With("repo", "UserProfileRepo")}
}

func (r *userProfileRepo) Upsert(dbc dbctx.Context, profile *types.UserProfile) error {
	if profile == nil || profile.ChatID == 0 {
		return fmt.Errorf("upsert user profile: %w", apperrors.ErrInvalidArgument)
	}
	if profile.RegisteredAt.IsZero() {
		profile.RegisteredAt = time.Now().UTC()
	}
	return dbc.Conn(r.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "chat_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"first_name",
				"username",
				"phone",
				"registered_at",
			}),
		}).
		Create(profile).Error
}

func (r *userProfileRepo) GetByChatID(dbc dbctx.Context, chatID int64) (*types.UserProfile, error) {
	var out types.UserProfile
	err := dbc.Conn(r.db).Where("chat_id = ?", chatID).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userProfileRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.Conn(r.db).Model(&types.UserProfile{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
