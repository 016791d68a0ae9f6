package schema

import "time"

// AuthToken is a one-time verification token keyed by (email, token).
// Consumed with delete-on-use semantics.
type AuthToken struct {
	Email     string    `gorm:"column:email;primaryKey;size:320;not null"`
	Token     string    `gorm:"column:token;primaryKey;size:190;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName provides the explicit table binding for GORM.
func (AuthToken) TableName() string {
	return "auth_tokens"
}
