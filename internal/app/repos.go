package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/relaybot/internal/data/repos"
	"github.com/yungbote/relaybot/internal/platform/logger"
)

type Repos struct {
	UserProfile  repos.UserProfileRepo
	ChatRecord   repos.ChatRecordRepo
	FileRecord   repos.FileRecordRepo
	SearchRecord repos.SearchRecordRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		UserProfile:  repos.NewUserProfileRepo(db, log),
		ChatRecord:   repos.NewChatRecordRepo(db, log),
		FileRecord:   repos.NewFileRecordRepo(db, log),
		SearchRecord: repos.NewSearchRecordRepo(db, log),
	}
}
