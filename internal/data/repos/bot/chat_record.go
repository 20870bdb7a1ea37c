package bot

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/relaybot/internal/domain/bot"
	"github.com/yungbote/relaybot/internal/pkg/dbctx"
	"github.com/yungbote/relaybot/internal/platform/logger"
)

type ChatRecordRepo interface {
	Create(dbc dbctx.Context, rows []*types.ChatRecord) ([]*types.ChatRecord, error)
	ListByUser(dbc dbctx.Context, userID int64, limit int) ([]*types.ChatRecord, error)
	Count(dbc dbctx.Context) (int64, error)
}

type chatRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatRecordRepo(db *gorm.DB, baseLog *logger.Logger) ChatRecordRepo {
	return &chatRecordRepo{db: db, log: baseLog.With("repo", "ChatRecordRepo")}
}

func (r *chatRecordRepo) Create(dbc dbctx.Context, rows []*types.ChatRecord) ([]*types.ChatRecord, error) {
	if len(rows) == 0 {
		return []*types.ChatRecord{}, nil
	}
	now := time.Now().UTC()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		if row.Timestamp.IsZero() {
			row.Timestamp = now
		}
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByUser returns the newest records first.
func (r *chatRecordRepo) ListByUser(dbc dbctx.Context, userID int64, limit int) ([]*types.ChatRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []*types.ChatRecord
	if err := dbc.Conn(r.db).
		Where("user_id = ?", userID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *chatRecordRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.Conn(r.db).Model(&types.ChatRecord{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
