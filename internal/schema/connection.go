package schema

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OAuthClientConnection links a user to an external identity at one
// provider. The (provider, identifier) pair is unique: one external
// account can only ever be linked to a single user. ProviderID is a
// plain slug, not a relation; statically configured providers have no
// stored record to point at.
type OAuthClientConnection struct {
	ID           string    `gorm:"column:id;primaryKey;size:36;not null"`
	UserID       string    `gorm:"column:user_id;size:36;not null;index"`
	User         User      `gorm:"foreignKey:UserID;references:ID"`
	ProviderID   string    `gorm:"column:provider_id;size:190;not null;uniqueIndex:idx_connection_provider_identifier,priority:1"`
	Identifier   string    `gorm:"column:identifier;size:190;not null;uniqueIndex:idx_connection_provider_identifier,priority:2"`
	RefreshToken *string   `gorm:"column:refresh_token;type:text"`
	AccessToken  *string   `gorm:"column:access_token;type:text"`
	ExpiresAt    *int64    `gorm:"column:expires_at"`
	TokenType    *string   `gorm:"column:token_type;size:64"`
	Scope        *string   `gorm:"column:scope;size:512"`
	IDToken      *string   `gorm:"column:id_token;type:text"`
	SessionState *string   `gorm:"column:session_state;size:190"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName provides the explicit table binding for GORM.
func (OAuthClientConnection) TableName() string {
	return "oauth_client_connections"
}

// BeforeCreate assigns a UUIDv7 identifier when none was provided.
func (c *OAuthClientConnection) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		value, err := uuid.NewV7()
		if err != nil {
			return err
		}
		c.ID = value.String()
	}
	return nil
}
