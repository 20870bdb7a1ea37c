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

type FileRecordRepo interface {
	Create(dbc dbctx.Context, rows []*types.FileRecord) ([]*types.FileRecord, error)
	ListByUser(dbc dbctx.Context, userID int64, limit int) ([]*types.FileRecord, error)
	Count(dbc dbctx.Context) (int64, error)
}

type fileRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFileRecordRepo(db *gorm.DB, baseLog *logger.Logger) FileRecordRepo {
	return &fileRecordRepo{db: db, log: baseLog.With("repo", "FileRecordRepo")}
}

func (r *fileRecordRepo) Create(dbc dbctx.Context, rows []*types.FileRecord) ([]*types.FileRecord, error) {
	if len(rows) == 0 {
		return []*types.FileRecord{}, nil
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
func (r *fileRecordRepo) ListByUser(dbc dbctx.Context, userID int64, limit int) ([]*types.FileRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []*types.FileRecord
	if err := dbc.Conn(r.db).
		Where("user_id = ?", userID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *fileRecordRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.Conn(r.db).Model(&types.FileRecord{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
