package schema

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LocaleText stores a display name keyed by language code.
type LocaleText map[string]string

// Resolve returns the best display value for the mapping, preferring
// English and falling back to any populated locale.
func (t LocaleText) Resolve() string {
	if value, ok := t["en"]; ok && value != "" {
		return value
	}
	for _, value := range t {
		if value != "" {
			return value
		}
	}
	return ""
}

// User is the identity record. Profile data lives on the related Entity.
type User struct {
	ID        string    `gorm:"column:id;primaryKey;size:36;not null"`
	EntityID  string    `gorm:"column:entity_id;size:36;not null;uniqueIndex"`
	Entity    Entity    `gorm:"foreignKey:EntityID;references:ID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName provides the explicit table binding for GORM.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUIDv7 identifier when none was provided.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		value, err := uuid.NewV7()
		if err != nil {
			return err
		}
		u.ID = value.String()
	}
	return nil
}

// Entity carries the profile attached to a user: a locale-keyed display
// name, a unique handle and an optional profile image.
type Entity struct {
	ID              string         `gorm:"column:id;primaryKey;size:36;not null"`
	Name            LocaleText     `gorm:"column:name;serializer:json"`
	Handle          *string        `gorm:"column:handle;size:190;uniqueIndex"`
	ProfileImageURL *string        `gorm:"column:profile_image_url;size:512"`
	EmailAddresses  []EmailAddress `gorm:"foreignKey:EntityID;references:ID"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName provides the explicit table binding for GORM.
func (Entity) TableName() string {
	return "entities"
}

// BeforeCreate assigns a UUIDv7 identifier when none was provided.
func (e *Entity) BeforeCreate(*gorm.DB) error {
	if e.ID == "" {
		value, err := uuid.NewV7()
		if err != nil {
			return err
		}
		e.ID = value.String()
	}
	return nil
}

// EmailAddress is one address owned by an entity. At most one address
// per entity carries the primary flag; uniqueness of the address itself
// is owned by the external schema, the adapter only defends against
// violations it can observe.
type EmailAddress struct {
	ID                string     `gorm:"column:id;primaryKey;size:36;not null"`
	EntityID          string     `gorm:"column:entity_id;size:36;not null;index"`
	Email             string     `gorm:"column:email;size:320;not null;index"`
	IsPrimary         bool       `gorm:"column:is_primary;not null;default:false"`
	IsVerified        bool       `gorm:"column:is_verified;not null;default:false"`
	VerifiedAt        *time.Time `gorm:"column:verified_at"`
	VerificationToken *string    `gorm:"column:verification_token;size:190"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName provides the explicit table binding for GORM.
func (EmailAddress) TableName() string {
	return "email_addresses"
}

// BeforeCreate assigns a UUIDv7 identifier when none was provided.
func (a *EmailAddress) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		value, err := uuid.NewV7()
		if err != nil {
			return err
		}
		a.ID = value.String()
	}
	return nil
}
