package bot

import (
	"time"

	"github.com/google/uuid"
)

type ActivityType string

const (
	ActivityRegistered ActivityType = "user.registered"
	ActivityChat       ActivityType = "chat.answered"
	ActivityFile       ActivityType = "file.described"
	ActivitySearch     ActivityType = "search.summarized"
)

// Activity announces that a record was persisted. RecordID is uuid.Nil for registrations.
type Activity struct {
	Type     ActivityType `json:"type"`
	UserID   int64        `json:"user_id"`
	RecordID uuid.UUID    `json:"record_id"`
	At       time.Time    `json:"at"`
}
