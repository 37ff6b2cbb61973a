// Package service coordinates reads and writes of the provider account
// credentials. The store itself has no concurrent-write guarantees, so the
// service serializes writers.
package service

import (
	"context"
	"log/slog"
	"sync"

	"icbridge/internal/account/models"
	"icbridge/internal/account/store"
	"icbridge/internal/platform/metrics"
	dErrors "icbridge/pkg/domain-errors"
)

// Service is the single writer over the account store.
type Service struct {
	mu      sync.Mutex
	store   store.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New creates an account Service.
func New(st store.Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{store: st, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the current credentials. A store with no record yet yields the
// zero value, never an error.
func (s *Service) Get(ctx context.Context) (models.Credentials, error) {
	creds, err := s.store.Load(ctx)
	if err != nil {
		return models.Credentials{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load credentials")
	}
	return creds, nil
}

// Update replaces the whole credentials record. There is no partial merge;
// callers read-modify-write.
func (s *Service) Update(ctx context.Context, creds models.Credentials) error {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return dErrors.New(dErrors.CodeBadRequest, "client_id and client_secret are required")
	}
	if creds.ContractorTaxID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "cnpj_contratante is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(ctx, creds); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save credentials")
	}

	s.logger.InfoContext(ctx, "provider account credentials updated",
		"client_id", creds.ClientID,
		"cnpj_contratante", creds.ContractorTaxID,
	)
	if s.metrics != nil {
		s.metrics.AccountUpdates.Inc()
	}
	return nil
}
