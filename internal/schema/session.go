package schema

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session is one active login, addressed by its opaque token.
type Session struct {
	ID        string    `gorm:"column:id;primaryKey;size:36;not null"`
	Token     string    `gorm:"column:token;size:190;not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	UserID    string    `gorm:"column:user_id;size:36;not null;index"`
	User      User      `gorm:"foreignKey:UserID;references:ID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName provides the explicit table binding for GORM.
func (Session) TableName() string {
	return "sessions"
}

// BeforeCreate assigns a UUIDv7 identifier when none was provided.
func (s *Session) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		value, err := uuid.NewV7()
		if err != nil {
			return err
		}
		s.ID = value.String()
	}
	return nil
}
