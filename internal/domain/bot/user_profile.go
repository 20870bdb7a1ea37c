package bot

import "time"

// UserProfile is the registration captured from a shared contact.
// There is at most one row per ChatID; re-registering replaces the row's fields.
type UserProfile struct {
	ChatID       int64     `gorm:"column:chat_id;primaryKey;autoIncrement:false" json:"chat_id"`
	FirstName    string    `gorm:"column:first_name;not null;default:''" json:"first_name"`
	Username     string    `gorm:"column:username;not null;default:''" json:"username"`
	Phone        string    `gorm:"column:phone;not null;default:''" json:"phone"`
	RegisteredAt time.Time `gorm:"column:registered_at;not null" json:"registered_at"`
}

func (UserProfile) TableName() string { return "users" }
