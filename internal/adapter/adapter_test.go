package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/nixysoftware/authbridge/internal/schema"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&schema.Entity{},
		&schema.EmailAddress{},
		&schema.User{},
		&schema.Session{},
		&schema.OAuthClientProvider{},
		&schema.OAuthClientConnection{},
		&schema.AuthToken{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return db
}

func newTestAdapter(t *testing.T) (*Adapter, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	a, err := New(Config{Database: db})
	if err != nil {
		t.Fatalf("failed to create adapter: %v", err)
	}
	return a, db
}

func mustCreateUser(t *testing.T, a *Adapter, input CreateUserInput) *User {
	t.Helper()
	user, err := a.CreateUser(context.Background(), input)
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func TestCreateUserAssignsIDAndPrimaryEmail(t *testing.T) {
	a, db := newTestAdapter(t)
	verified := time.Unix(1700000000, 0).UTC()
	image := "https://example.com/avatar.png"

	user := mustCreateUser(t, a, CreateUserInput{
		Name:          "Clara Oswald",
		Email:         "clara@example.com",
		EmailVerified: &verified,
		Image:         &image,
	})

	if user.ID == "" {
		t.Fatalf("expected an assigned user id")
	}
	if user.Email != "clara@example.com" {
		t.Fatalf("unexpected email %q", user.Email)
	}
	if user.EmailVerified == nil || !user.EmailVerified.Equal(verified) {
		t.Fatalf("unexpected verification timestamp: %v", user.EmailVerified)
	}
	if user.Name != "Clara Oswald" {
		t.Fatalf("unexpected name %q", user.Name)
	}

	var address schema.EmailAddress
	if err := db.Where("email = ?", "clara@example.com").Take(&address).Error; err != nil {
		t.Fatalf("stored address missing: %v", err)
	}
	if !address.IsPrimary || !address.IsVerified {
		t.Fatalf("initial address should be primary and verified: %+v", address)
	}
}

func TestGetUserReturnsNilWhenAbsent(t *testing.T) {
	a, _ := newTestAdapter(t)
	user, err := a.GetUser(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil for missing user, got %+v", user)
	}
}

func TestGetUserByEmail(t *testing.T) {
	a, db := newTestAdapter(t)
	created := mustCreateUser(t, a, CreateUserInput{Name: "Clara", Email: "clara@example.com"})

	t.Run("no match", func(t *testing.T) {
		user, err := a.GetUserByEmail(context.Background(), "nobody@example.com")
		if err != nil || user != nil {
			t.Fatalf("expected nil, nil; got %+v, %v", user, err)
		}
	})

	t.Run("single match", func(t *testing.T) {
		user, err := a.GetUserByEmail(context.Background(), "clara@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user == nil || user.ID != created.ID {
			t.Fatalf("expected user %s, got %+v", created.ID, user)
		}
	})

	t.Run("duplicate is an integrity failure", func(t *testing.T) {
		other := mustCreateUser(t, a, CreateUserInput{Name: "Other", Email: "other@example.com"})
		var otherUser schema.User
		if err := db.Where("id = ?", other.ID).Take(&otherUser).Error; err != nil {
			t.Fatalf("failed to load user: %v", err)
		}
		if err := db.Create(&schema.EmailAddress{
			EntityID: otherUser.EntityID,
			Email:    "clara@example.com",
		}).Error; err != nil {
			t.Fatalf("failed to seed duplicate address: %v", err)
		}

		_, err := a.GetUserByEmail(context.Background(), "clara@example.com")
		if !errors.Is(err, ErrDuplicateEmail) {
			t.Fatalf("expected ErrDuplicateEmail, got %v", err)
		}
	})
}

func TestLinkAccountAndGetUserByAccount(t *testing.T) {
	a, _ := newTestAdapter(t)
	created := mustCreateUser(t, a, CreateUserInput{Name: "Clara", Email: "clara@example.com"})
	refresh := "refresh-token"

	linked, err := a.LinkAccount(context.Background(), Account{
		Type:              "oauth",
		Provider:          "google",
		ProviderAccountID: "external-123",
		UserID:            created.ID,
		RefreshToken:      &refresh,
	})
	if err != nil {
		t.Fatalf("link account failed: %v", err)
	}
	if linked.Provider != "google" || linked.ProviderAccountID != "external-123" {
		t.Fatalf("unexpected linked account: %+v", linked)
	}

	user, err := a.GetUserByAccount(context.Background(), "google", "external-123")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if user == nil || user.ID != created.ID {
		t.Fatalf("expected user %s, got %+v", created.ID, user)
	}

	missing, err := a.GetUserByAccount(context.Background(), "google", "unknown")
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for unknown account; got %+v, %v", missing, err)
	}
}

func TestUnlinkAccount(t *testing.T) {
	a, _ := newTestAdapter(t)
	created := mustCreateUser(t, a, CreateUserInput{Name: "Clara", Email: "clara@example.com"})
	if _, err := a.LinkAccount(context.Background(), Account{
		Provider:          "google",
		ProviderAccountID: "external-123",
		UserID:            created.ID,
	}); err != nil {
		t.Fatalf("link account failed: %v", err)
	}

	removed, err := a.UnlinkAccount(context.Background(), "google", "external-123")
	if err != nil {
		t.Fatalf("unlink failed: %v", err)
	}
	if removed == nil || removed.ProviderAccountID != "external-123" {
		t.Fatalf("expected pre-delete shape, got %+v", removed)
	}

	again, err := a.UnlinkAccount(context.Background(), "google", "external-123")
	if err != nil || again != nil {
		t.Fatalf("second unlink should be nil, nil; got %+v, %v", again, err)
	}
}

func TestUpdateUserMergesOnlyPresentFields(t *testing.T) {
	a, db := newTestAdapter(t)
	verified := time.Unix(1700000000, 0).UTC()
	created := mustCreateUser(t, a, CreateUserInput{Name: "Clara", Email: "clara@example.com"})

	t.Run("email only leaves name untouched", func(t *testing.T) {
		email := "clara.new@example.com"
		updated, err := a.UpdateUser(context.Background(), UpdateUserInput{
			ID:            created.ID,
			Email:         &email,
			EmailVerified: &verified,
		})
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if updated.Name != "Clara" {
			t.Fatalf("name should be untouched, got %q", updated.Name)
		}

		// The new address is stored non-primary; the canonical email
		// stays the primary one.
		var address schema.EmailAddress
		if err := db.Where("email = ?", email).Take(&address).Error; err != nil {
			t.Fatalf("upserted address missing: %v", err)
		}
		if address.IsPrimary {
			t.Fatalf("upserted address must not claim the primary flag")
		}
		if !address.IsVerified || address.VerifiedAt == nil {
			t.Fatalf("verification state not applied: %+v", address)
		}
		if updated.Email != "clara@example.com" {
			t.Fatalf("canonical email should stay primary, got %q", updated.Email)
		}
	})

	t.Run("name only leaves email untouched", func(t *testing.T) {
		name := "Clara Oswald"
		updated, err := a.UpdateUser(context.Background(), UpdateUserInput{
			ID:   created.ID,
			Name: &name,
		})
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if updated.Name != "Clara Oswald" {
			t.Fatalf("name not updated: %q", updated.Name)
		}
		if updated.Email != "clara@example.com" {
			t.Fatalf("email should be untouched, got %q", updated.Email)
		}
	})

	t.Run("existing email updates verification state", func(t *testing.T) {
		email := "clara@example.com"
		updated, err := a.UpdateUser(context.Background(), UpdateUserInput{
			ID:            created.ID,
			Email:         &email,
			EmailVerified: &verified,
		})
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if updated.EmailVerified == nil || !updated.EmailVerified.Equal(verified) {
			t.Fatalf("verification timestamp not applied: %v", updated.EmailVerified)
		}
	})

	t.Run("image is only written when unset", func(t *testing.T) {
		first := "https://example.com/first.png"
		updated, err := a.UpdateUser(context.Background(), UpdateUserInput{ID: created.ID, Image: &first})
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if updated.Image == nil || *updated.Image != first {
			t.Fatalf("image not set: %v", updated.Image)
		}

		second := "https://example.com/second.png"
		updated, err = a.UpdateUser(context.Background(), UpdateUserInput{ID: created.ID, Image: &second})
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if updated.Image == nil || *updated.Image != first {
			t.Fatalf("existing image should win, got %v", updated.Image)
		}
	})
}

func TestDeleteUserCascades(t *testing.T) {
	a, db := newTestAdapter(t)
	created := mustCreateUser(t, a, CreateUserInput{Name: "Clara", Email: "clara@example.com"})
	if _, err := a.LinkAccount(context.Background(), Account{
		Provider:          "google",
		ProviderAccountID: "external-123",
		UserID:            created.ID,
	}); err != nil {
		t.Fatalf("link account failed: %v", err)
	}
	if _, err := a.CreateSession(context.Background(), Session{
		SessionToken: "session-token",
		UserID:       created.ID,
		Expires:      time.Now().Add(time.Hour),
	}); err != nil {
		t.Fatalf("create session failed: %v", err)
	}

	deleted, err := a.DeleteUser(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if deleted == nil || deleted.ID != created.ID {
		t.Fatalf("expected pre-delete shape, got %+v", deleted)
	}

	var sessionCount, connectionCount, addressCount int64
	db.Model(&schema.Session{}).Count(&sessionCount)
	db.Model(&schema.OAuthClientConnection{}).Count(&connectionCount)
	db.Model(&schema.EmailAddress{}).Count(&addressCount)
	if sessionCount != 0 || connectionCount != 0 || addressCount != 0 {
		t.Fatalf("cascade incomplete: sessions=%d connections=%d addresses=%d",
			sessionCount, connectionCount, addressCount)
	}

	again, err := a.DeleteUser(context.Background(), created.ID)
	if err != nil || again != nil {
		t.Fatalf("second delete should be nil, nil; got %+v, %v", again, err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	a, _ := newTestAdapter(t)
	created := mustCreateUser(t, a, CreateUserInput{Name: "Clara", Email: "clara@example.com"})
	expires := time.Unix(1700003600, 0).UTC()

	session, err := a.CreateSession(context.Background(), Session{
		SessionToken: "session-token",
		UserID:       created.ID,
		Expires:      expires,
	})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	if session.SessionToken != "session-token" || session.UserID != created.ID {
		t.Fatalf("unexpected session: %+v", session)
	}

	joined, err := a.GetSessionAndUser(context.Background(), "session-token")
	if err != nil {
		t.Fatalf("joined lookup failed: %v", err)
	}
	if joined == nil || joined.User.ID != created.ID || joined.Session.SessionToken != "session-token" {
		t.Fatalf("unexpected joined result: %+v", joined)
	}

	missing, err := a.GetSessionAndUser(context.Background(), "unknown")
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for unknown session; got %+v, %v", missing, err)
	}

	later := expires.Add(time.Hour)
	updated, err := a.UpdateSession(context.Background(), UpdateSessionInput{
		SessionToken: "session-token",
		Expires:      &later,
	})
	if err != nil {
		t.Fatalf("update session failed: %v", err)
	}
	if updated == nil || !updated.Expires.Equal(later) {
		t.Fatalf("expiry not updated: %+v", updated)
	}

	deleted, err := a.DeleteSession(context.Background(), "session-token")
	if err != nil {
		t.Fatalf("delete session failed: %v", err)
	}
	if deleted == nil || deleted.SessionToken != "session-token" {
		t.Fatalf("expected pre-delete shape, got %+v", deleted)
	}

	gone, err := a.DeleteSession(context.Background(), "session-token")
	if err != nil || gone != nil {
		t.Fatalf("second delete should be nil, nil; got %+v, %v", gone, err)
	}
}

func TestUseVerificationToken(t *testing.T) {
	a, db := newTestAdapter(t)
	expires := time.Unix(1700003600, 0).UTC()

	created, err := a.CreateVerificationToken(context.Background(), VerificationToken{
		Identifier: "clara@example.com",
		Token:      "one-time-token",
		Expires:    expires,
	})
	if err != nil {
		t.Fatalf("create token failed: %v", err)
	}
	if created.Identifier != "clara@example.com" || created.Token != "one-time-token" {
		t.Fatalf("unexpected token: %+v", created)
	}

	used, err := a.UseVerificationToken(context.Background(), "clara@example.com", "one-time-token")
	if err != nil {
		t.Fatalf("use token failed: %v", err)
	}
	if used == nil || used.Token != "one-time-token" || !used.Expires.Equal(expires) {
		t.Fatalf("unexpected used token: %+v", used)
	}

	again, err := a.UseVerificationToken(context.Background(), "clara@example.com", "one-time-token")
	if err != nil || again != nil {
		t.Fatalf("consumed token should yield nil, nil; got %+v, %v", again, err)
	}

	// Any failure other than a missing row must propagate unchanged.
	if err := db.Migrator().DropTable(&schema.AuthToken{}); err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}
	_, err = a.UseVerificationToken(context.Background(), "clara@example.com", "one-time-token")
	if err == nil {
		t.Fatalf("expected storage failure to propagate")
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("storage failure must not be classified as absence: %v", err)
	}
}
