package provider

import (
	"context"

	"gorm.io/gorm"

	"github.com/nixysoftware/authbridge/internal/schema"
)

// GlobalRecords returns the raw provider records flagged global.
func GlobalRecords(ctx context.Context, db *gorm.DB) ([]schema.OAuthClientProvider, error) {
	var records []schema.OAuthClientProvider
	err := db.WithContext(ctx).
		Where("is_global = ?", true).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// GlobalProviders resolves every provider record flagged global, the
// set available to all tenants without per-request configuration. A
// record whose type has no registered constructor fails the whole call.
func GlobalProviders(ctx context.Context, db *gorm.DB) ([]Runtime, error) {
	records, err := GlobalRecords(ctx, db)
	if err != nil {
		return nil, err
	}

	runtimes := make([]Runtime, 0, len(records))
	for _, record := range records {
		runtime, err := Resolve(record)
		if err != nil {
			return nil, err
		}
		runtimes = append(runtimes, runtime)
	}
	return runtimes, nil
}
