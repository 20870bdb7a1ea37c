package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/relaybot/internal/domain/bot"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&bot.UserProfile{},
		&bot.ChatRecord{},
		&bot.FileRecord{},
		&bot.SearchRecord{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Running store automigration")
	return AutoMigrateAll(s.db)
}
