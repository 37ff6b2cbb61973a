//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icbridge/internal/account/models"
	"icbridge/pkg/testutil/containers"
)

func TestPostgresStore_Integration(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	ctx := context.Background()

	s := NewPostgres(pg.DB)
	require.NoError(t, s.Migrate(ctx))
	// Migration is idempotent.
	require.NoError(t, s.Migrate(ctx))

	creds, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, creds.IsZero())

	want := models.Credentials{
		APIKey:          "key-1",
		ClientID:        "client-1",
		ClientSecret:    "secret-1",
		ContractorTaxID: "12345678000199",
	}
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Saving again replaces the single row instead of adding one.
	want.ClientSecret = "rotated"
	require.NoError(t, s.Save(ctx, want))

	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rotated", got.ClientSecret)

	var rows int
	require.NoError(t, pg.DB.QueryRowContext(ctx, "SELECT count(*) FROM provider_account").Scan(&rows))
	assert.Equal(t, 1, rows)
}
