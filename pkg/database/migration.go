package database

import (
	"github.com/translationhub/server/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Session{},
		&model.Translation{},
		&model.LanguageStat{},
		&model.AuditLog{},
	)
}
