package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID              string     `gorm:"column:id;type:uuid;primaryKey"`
	Email           string     `gorm:"column:email;unique;not null"`
	PasswordHash    string     `gorm:"column:password_hash;not null" json:"-"`
	DefaultFromLang *string    `gorm:"column:default_from_lang"`
	DefaultToLang   *string    `gorm:"column:default_to_lang"`
	LastLogin       *time.Time `gorm:"column:last_login"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
