package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nixysoftware/authbridge/internal/schema"
)

var errMissingDatabase = errors.New("adapter: database handle is required")

// Config describes the dependencies required by the adapter. The
// database handle is passed explicitly so tests and multi-tenant
// deployments can run against isolated stores.
type Config struct {
	Database *gorm.DB
	Logger   *zap.Logger
}

// Adapter implements the persistence contract the authentication
// middleware invokes on every auth event. It holds no mutable state of
// its own; every call is an independent unit of work against the
// store, safe for concurrent use.
type Adapter struct {
	db     *gorm.DB
	logger *zap.Logger
}

// New validates the configuration and constructs an Adapter.
func New(cfg Config) (*Adapter, error) {
	if cfg.Database == nil {
		return nil, errMissingDatabase
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{db: cfg.Database, logger: logger}, nil
}

// userQuery returns a query with the entity and email addresses
// preloaded, the include every user-shaped read needs.
func (a *Adapter) userQuery(ctx context.Context) *gorm.DB {
	return a.db.WithContext(ctx).Preload("Entity.EmailAddresses")
}

// CreateUser writes a new user with a nested entity and an initial
// primary email address in a single insert transaction.
func (a *Adapter) CreateUser(ctx context.Context, input CreateUserInput) (*User, error) {
	user := schema.User{
		Entity: schema.Entity{
			Name:            schema.LocaleText{"en": input.Name},
			ProfileImageURL: input.Image,
			EmailAddresses: []schema.EmailAddress{{
				Email:      input.Email,
				IsPrimary:  true,
				IsVerified: input.EmailVerified != nil,
				VerifiedAt: input.EmailVerified,
			}},
		},
	}

	if err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&user).Error
	}); err != nil {
		a.logError("create_user", err)
		return nil, err
	}

	return toAdapterUser(user)
}

// GetUser returns the user with the given id, or nil when absent.
func (a *Adapter) GetUser(ctx context.Context, id string) (*User, error) {
	var user schema.User
	err := a.userQuery(ctx).Where("id = ?", id).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		a.logError("get_user", err)
		return nil, err
	}
	return toAdapterUser(user)
}

// GetUserByEmail returns the single user owning the given email
// address, nil when none does and ErrDuplicateEmail when more than one
// does. The duplicate case is a data-integrity violation the schema
// should prevent; it is surfaced rather than silently resolved.
func (a *Adapter) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var addresses []schema.EmailAddress
	if err := a.db.WithContext(ctx).Where("email = ?", email).Find(&addresses).Error; err != nil {
		a.logError("get_user_by_email", err)
		return nil, err
	}
	if len(addresses) == 0 {
		return nil, nil
	}

	entityIDs := make([]string, 0, len(addresses))
	seen := map[string]bool{}
	for _, address := range addresses {
		if !seen[address.EntityID] {
			seen[address.EntityID] = true
			entityIDs = append(entityIDs, address.EntityID)
		}
	}

	var users []schema.User
	if err := a.userQuery(ctx).Where("entity_id IN ?", entityIDs).Find(&users).Error; err != nil {
		a.logError("get_user_by_email", err)
		return nil, err
	}
	if len(users) > 1 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, email)
	}
	if len(users) == 0 {
		return nil, nil
	}
	return toAdapterUser(users[0])
}

// GetUserByAccount returns the user linked to the external identity
// identified by the (provider, providerAccountID) pair, or nil.
func (a *Adapter) GetUserByAccount(ctx context.Context, provider, providerAccountID string) (*User, error) {
	var connection schema.OAuthClientConnection
	err := a.db.WithContext(ctx).
		Where("provider_id = ? AND identifier = ?", provider, providerAccountID).
		Take(&connection).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		a.logError("get_user_by_account", err)
		return nil, err
	}

	var user schema.User
	err = a.userQuery(ctx).Where("id = ?", connection.UserID).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		a.logError("get_user_by_account", err)
		return nil, err
	}
	return toAdapterUser(user)
}

// UpdateUser merges the fields present on the partial input into the
// stored user and returns the updated shape. Nil fields are left
// untouched. The read and write run in one transaction, which narrows
// but does not close the lost-update window between two concurrent
// updates of the same user; the adapter contract offers no way to
// surface a version conflict to the middleware.
func (a *Adapter) UpdateUser(ctx context.Context, input UpdateUserInput) (*User, error) {
	var updated schema.User
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user schema.User
		if err := tx.Preload("Entity.EmailAddresses").Where("id = ?", input.ID).Take(&user).Error; err != nil {
			return err
		}
		entity := user.Entity

		if input.Name != nil {
			if entity.Name == nil {
				entity.Name = schema.LocaleText{}
			}
			entity.Name["en"] = *input.Name
		}
		if input.Image != nil && (entity.ProfileImageURL == nil || *entity.ProfileImageURL == "") {
			entity.ProfileImageURL = input.Image
		}
		if input.Name != nil || input.Image != nil {
			if err := tx.Model(&schema.Entity{}).
				Where("id = ?", entity.ID).
				Select("name", "profile_image_url").
				Updates(schema.Entity{Name: entity.Name, ProfileImageURL: entity.ProfileImageURL}).Error; err != nil {
				return err
			}
		}

		if input.Email != nil {
			if err := upsertEmailAddress(tx, entity, *input.Email, input.EmailVerified); err != nil {
				return err
			}
		}

		return tx.Preload("Entity.EmailAddresses").Where("id = ?", input.ID).Take(&updated).Error
	})
	if err != nil {
		a.logError("update_user", err)
		return nil, err
	}
	return toAdapterUser(updated)
}

// upsertEmailAddress updates the verification state of an existing
// address keyed by the email string, creating the address when the
// entity does not hold it yet. The primary flag is never touched here.
func upsertEmailAddress(tx *gorm.DB, entity schema.Entity, email string, verifiedAt *time.Time) error {
	for i := range entity.EmailAddresses {
		if entity.EmailAddresses[i].Email == email {
			return tx.Model(&schema.EmailAddress{}).
				Where("id = ?", entity.EmailAddresses[i].ID).
				Updates(map[string]any{
					"is_verified": verifiedAt != nil,
					"verified_at": verifiedAt,
				}).Error
		}
	}
	return tx.Create(&schema.EmailAddress{
		EntityID:   entity.ID,
		Email:      email,
		IsVerified: verifiedAt != nil,
		VerifiedAt: verifiedAt,
	}).Error
}

// DeleteUser cascades the delete over sessions, connections, email
// addresses and the entity, returning the pre-delete shape. Absent
// users yield nil.
func (a *Adapter) DeleteUser(ctx context.Context, id string) (*User, error) {
	var deleted *User
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user schema.User
		err := tx.Preload("Entity.EmailAddresses").Where("id = ?", id).Take(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		mapped, err := toAdapterUser(user)
		if err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&schema.OAuthClientConnection{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&schema.Session{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&schema.User{}).Error; err != nil {
			return err
		}
		if err := tx.Where("entity_id = ?", user.EntityID).Delete(&schema.EmailAddress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", user.EntityID).Delete(&schema.Entity{}).Error; err != nil {
			return err
		}

		deleted = mapped
		return nil
	})
	if err != nil {
		a.logError("delete_user", err)
		return nil, err
	}
	return deleted, nil
}

// LinkAccount creates the connection for a freshly signed-in external
// identity.
func (a *Adapter) LinkAccount(ctx context.Context, account Account) (*Account, error) {
	connection := fromAdapterAccount(account)
	if err := a.db.WithContext(ctx).Create(&connection).Error; err != nil {
		a.logError("link_account", err)
		return nil, err
	}
	return toAdapterAccount(connection), nil
}

// UnlinkAccount deletes the connection for the given external
// identity, returning its pre-delete shape or nil when absent.
func (a *Adapter) UnlinkAccount(ctx context.Context, provider, providerAccountID string) (*Account, error) {
	var account *Account
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var connection schema.OAuthClientConnection
		err := tx.Where("provider_id = ? AND identifier = ?", provider, providerAccountID).
			Take(&connection).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Where("id = ?", connection.ID).Delete(&schema.OAuthClientConnection{}).Error; err != nil {
			return err
		}
		account = toAdapterAccount(connection)
		return nil
	})
	if err != nil {
		a.logError("unlink_account", err)
		return nil, err
	}
	return account, nil
}

// GetSessionAndUser returns the session with the given token together
// with its owning user, or nil when the session is absent.
func (a *Adapter) GetSessionAndUser(ctx context.Context, sessionToken string) (*SessionAndUser, error) {
	var session schema.Session
	err := a.db.WithContext(ctx).
		Preload("User.Entity.EmailAddresses").
		Where("token = ?", sessionToken).
		Take(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		a.logError("get_session_and_user", err)
		return nil, err
	}

	user, err := toAdapterUser(session.User)
	if err != nil {
		return nil, err
	}
	return &SessionAndUser{Session: *toAdapterSession(session), User: *user}, nil
}

// CreateSession inserts a new session record.
func (a *Adapter) CreateSession(ctx context.Context, session Session) (*Session, error) {
	record := schema.Session{
		Token:     session.SessionToken,
		ExpiresAt: session.Expires,
		UserID:    session.UserID,
	}
	if err := a.db.WithContext(ctx).Create(&record).Error; err != nil {
		a.logError("create_session", err)
		return nil, err
	}
	return toAdapterSession(record), nil
}

// UpdateSession merges the present fields into the session addressed
// by token, returning nil when it does not exist.
func (a *Adapter) UpdateSession(ctx context.Context, input UpdateSessionInput) (*Session, error) {
	var updated *Session
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session schema.Session
		err := tx.Where("token = ?", input.SessionToken).Take(&session).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if input.Expires != nil {
			session.ExpiresAt = *input.Expires
		}
		if input.UserID != nil {
			session.UserID = *input.UserID
		}
		if err := tx.Save(&session).Error; err != nil {
			return err
		}
		updated = toAdapterSession(session)
		return nil
	})
	if err != nil {
		a.logError("update_session", err)
		return nil, err
	}
	return updated, nil
}

// DeleteSession removes the session addressed by token, returning its
// pre-delete shape or nil when absent.
func (a *Adapter) DeleteSession(ctx context.Context, sessionToken string) (*Session, error) {
	var deleted *Session
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session schema.Session
		err := tx.Where("token = ?", sessionToken).Take(&session).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Where("token = ?", sessionToken).Delete(&schema.Session{}).Error; err != nil {
			return err
		}
		deleted = toAdapterSession(session)
		return nil
	})
	if err != nil {
		a.logError("delete_session", err)
		return nil, err
	}
	return deleted, nil
}

// CreateVerificationToken inserts a one-time token.
func (a *Adapter) CreateVerificationToken(ctx context.Context, token VerificationToken) (*VerificationToken, error) {
	record := schema.AuthToken{
		Email:     token.Identifier,
		Token:     token.Token,
		ExpiresAt: token.Expires,
	}
	if err := a.db.WithContext(ctx).Create(&record).Error; err != nil {
		a.logError("create_verification_token", err)
		return nil, err
	}
	return toVerificationToken(record), nil
}

// UseVerificationToken consumes a one-time token with delete-on-use
// semantics. A missing row is the expected "already used or never
// existed" outcome and yields nil; every other storage failure
// propagates unchanged.
func (a *Adapter) UseVerificationToken(ctx context.Context, identifier, token string) (*VerificationToken, error) {
	var used *VerificationToken
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record schema.AuthToken
		if err := tx.Where("email = ? AND token = ?", identifier, token).Take(&record).Error; err != nil {
			return err
		}
		if err := tx.Where("email = ? AND token = ?", identifier, token).Delete(&schema.AuthToken{}).Error; err != nil {
			return err
		}
		used = toVerificationToken(record)
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		a.logError("use_verification_token", err)
		return nil, err
	}
	return used, nil
}

func (a *Adapter) logError(operation string, err error) {
	a.logger.Error("adapter operation failed",
		zap.String("operation", operation),
		zap.Error(err))
}
