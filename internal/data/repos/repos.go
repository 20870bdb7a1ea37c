package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/relaybot/internal/data/repos/bot"
	"github.com/yungbote/relaybot/internal/platform/logger"
)

type UserProfileRepo = bot.UserProfileRepo
type ChatRecordRepo = bot.ChatRecordRepo
type FileRecordRepo = bot.FileRecordRepo
type SearchRecordRepo = bot.SearchRecordRepo

func NewUserProfileRepo(db *gorm.DB, log *logger.Logger) UserProfileRepo {
	return bot.NewUserProfileRepo(db, log)
}

func NewChatRecordRepo(db *gorm.DB, log *logger.Logger) ChatRecordRepo {
	return bot.NewChatRecordRepo(db, log)
}

func NewFileRecordRepo(db *gorm.DB, log *logger.Logger) FileRecordRepo {
	return bot.NewFileRecordRepo(db, log)
}

func NewSearchRecordRepo(db *gorm.DB, log *logger.Logger) SearchRecordRepo {
	return bot.NewSearchRecordRepo(db, log)
}
