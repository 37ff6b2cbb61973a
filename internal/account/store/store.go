// Package store persists the provider account credentials. Load is
// fail-soft: a store with no record yet returns the zero value and no error,
// matching the behavior callers depend on at first boot. Save is fail-hard.
package store

import (
	"context"

	"icbridge/internal/account/models"
)

// Store reads and writes the single credentials record.
type Store interface {
	Load(ctx context.Context) (models.Credentials, error)
	Save(ctx context.Context, creds models.Credentials) error
}
