package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"icbridge/internal/account/models"
)

// PostgresStore keeps the credentials in a single-row table so multiple
// instances of the bridge share one record.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a Postgres-backed store on an existing connection.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres opens a lib/pq connection and verifies it.
func OpenPostgres(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Migrate creates the account table when it does not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS provider_account (
			id               smallint PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			api_key          text NOT NULL,
			client_id        text NOT NULL,
			client_secret    text NOT NULL,
			cnpj_contratante text NOT NULL,
			updated_at       timestamptz NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("migrate provider_account: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (models.Credentials, error) {
	var creds models.Credentials
	err := s.db.QueryRowContext(ctx, `
		SELECT api_key, client_id, client_secret, cnpj_contratante
		FROM provider_account WHERE id = 1`).
		Scan(&creds.APIKey, &creds.ClientID, &creds.ClientSecret, &creds.ContractorTaxID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Credentials{}, nil
		}
		return models.Credentials{}, fmt.Errorf("load provider account: %w", err)
	}
	return creds, nil
}

func (s *PostgresStore) Save(ctx context.Context, creds models.Credentials) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO provider_account (id, api_key, client_id, client_secret, cnpj_contratante, updated_at)
		VALUES (1, $1, $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE SET
			api_key = EXCLUDED.api_key,
			client_id = EXCLUDED.client_id,
			client_secret = EXCLUDED.client_secret,
			cnpj_contratante = EXCLUDED.cnpj_contratante,
			updated_at = now()`,
		creds.APIKey, creds.ClientID, creds.ClientSecret, creds.ContractorTaxID)
	if err != nil {
		return fmt.Errorf("save provider account: %w", err)
	}
	return nil
}
