package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icbridge/internal/account/models"
)

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	s := NewFile(filepath.Join(t.TempDir(), "credentials.json"))

	creds, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, creds.IsZero())
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	s := NewFile(path)

	want := models.Credentials{
		APIKey:          "key-1",
		ClientID:        "client-1",
		ClientSecret:    "secret-1",
		ContractorTaxID: "12345678000199",
	}
	require.NoError(t, s.Save(context.Background(), want))

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	s := NewFile(path)

	require.NoError(t, s.Save(context.Background(), models.Credentials{ClientID: "old"}))
	require.NoError(t, s.Save(context.Background(), models.Credentials{ClientID: "new"}))

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", got.ClientID)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFile(path).Load(context.Background())
	assert.ErrorContains(t, err, "decode credentials file")
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	s := NewMemory()

	creds, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, creds.IsZero())

	want := models.Credentials{ClientID: "client-1", ClientSecret: "secret-1", ContractorTaxID: "12345678000199"}
	require.NoError(t, s.Save(context.Background(), want))

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
