package bot

import (
	"time"

	"github.com/google/uuid"
)

// ChatRecord is one stateless question/answer exchange.
type ChatRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    int64     `gorm:"column:user_id;not null;index" json:"user_id"`
	Query     string    `gorm:"column:query;type:text;not null" json:"query"`
	Response  string    `gorm:"column:response;type:text;not null" json:"response"`
	Timestamp time.Time `gorm:"column:timestamp;not null;index" json:"timestamp"`
}

func (ChatRecord) TableName() string { return "chats" }

// FileRecord is the description generated for an uploaded photo.
type FileRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      int64     `gorm:"column:user_id;not null;index" json:"user_id"`
	FileID      string    `gorm:"column:file_id;not null" json:"file_id"`
	Description string    `gorm:"column:description;type:text;not null" json:"description"`
	Timestamp   time.Time `gorm:"column:timestamp;not null;index" json:"timestamp"`
}

func (FileRecord) TableName() string { return "files" }

// SearchRecord is the summary produced for a /websearch query.
type SearchRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    int64     `gorm:"column:user_id;not null;index" json:"user_id"`
	Query     string    `gorm:"column:query;type:text;not null" json:"query"`
	Summary   string    `gorm:"column:summary;type:text;not null" json:"summary"`
	Timestamp time.Time `gorm:"column:timestamp;not null;index" json:"timestamp"`
}

func (SearchRecord) TableName() string { return "searches" }
