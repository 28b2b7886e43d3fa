package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Translation struct {
	ID             string    `gorm:"column:id;type:uuid;primaryKey"`
	UserID         string    `gorm:"column:user_id;type:uuid;not null;index:idx_translations_user_kind"`
	Kind           string    `gorm:"column:kind;not null;index:idx_translations_user_kind"`
	FromLang       string    `gorm:"column:from_lang;not null"`
	ToLang         string    `gorm:"column:to_lang;not null"`
	OriginalText   string    `gorm:"column:original_text;type:text;not null"`
	TranslatedText string    `gorm:"column:translated_text;type:text;not null"`
	Type           string    `gorm:"column:type"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (t *Translation) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// LanguageStat counts completed translations per user and language pair.
type LanguageStat struct {
	ID       uint   `gorm:"column:id;primaryKey"`
	UserID   string `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_language_stats_pair"`
	FromLang string `gorm:"column:from_lang;not null;uniqueIndex:idx_language_stats_pair"`
	ToLang   string `gorm:"column:to_lang;not null;uniqueIndex:idx_language_stats_pair"`
	Count    int64  `gorm:"column:count;not null;default:0"`
}

type AuditLog struct {
	ID        string         `gorm:"column:id;type:uuid;primaryKey"`
	UserID    string         `gorm:"column:user_id;type:uuid;not null;index"`
	Action    string         `gorm:"column:action;not null"`
	TableName string         `gorm:"column:table_name"`
	RecordID  string         `gorm:"column:record_id"`
	Details   datatypes.JSON `gorm:"column:details"`
	CreatedAt time.Time      `gorm:"column:created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
