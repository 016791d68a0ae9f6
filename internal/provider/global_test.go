package provider

import (
	"context"
	"errors"
	"testing"

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
	if err := db.AutoMigrate(&schema.OAuthClientProvider{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return db
}

func TestGlobalProvidersReturnsOnlyGlobalRecords(t *testing.T) {
	db := openTestDB(t)
	records := []schema.OAuthClientProvider{
		{ID: "google", Type: schema.ProviderTypeGoogle, Name: "Google", IsGlobal: true},
		{ID: "github", Type: schema.ProviderTypeGitHub, Name: "GitHub", IsGlobal: false},
	}
	for i := range records {
		if err := db.Create(&records[i]).Error; err != nil {
			t.Fatalf("failed to seed provider: %v", err)
		}
	}

	runtimes, err := GlobalProviders(context.Background(), db)
	if err != nil {
		t.Fatalf("global providers failed: %v", err)
	}
	if len(runtimes) != 1 {
		t.Fatalf("expected one global provider, got %d", len(runtimes))
	}
	if runtimes[0].ID != "google" {
		t.Fatalf("unexpected provider %q", runtimes[0].ID)
	}
}

func TestGlobalProvidersFailsOnUnknownType(t *testing.T) {
	db := openTestDB(t)
	if err := db.Create(&schema.OAuthClientProvider{
		ID:       "mystery",
		Type:     schema.ProviderType("SOMETHING_NEW"),
		Name:     "Mystery",
		IsGlobal: true,
	}).Error; err != nil {
		t.Fatalf("failed to seed provider: %v", err)
	}

	_, err := GlobalProviders(context.Background(), db)
	if !errors.Is(err, ErrUnknownProviderType) {
		t.Fatalf("expected ErrUnknownProviderType, got %v", err)
	}
}
