package relay

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	accountmodels "icbridge/internal/account/models"
	"icbridge/internal/audit"
	"icbridge/internal/envelope"
	"icbridge/internal/platform/metrics"
	"icbridge/internal/token"
	"icbridge/pkg/requestcontext"
)

// AccountReader supplies the contracting party's provider credentials.
type AccountReader interface {
	Get(ctx context.Context) (accountmodels.Credentials, error)
}

// Service orchestrates one relayed operation: credentials, authentication,
// envelope, forward, normalize. It never returns an error; every outcome is
// a Result.
type Service struct {
	accounts        AccountReader
	broker          token.Broker
	router          Router
	auditor         *audit.Publisher
	metrics         *metrics.Metrics
	logger          *slog.Logger
	tracer          trace.Tracer
	defaultSystemID string
}

// Option configures the Service.
type Option func(*Service)

// WithAuditor attaches an audit publisher. Audit failures never change the
// relay outcome.
func WithAuditor(p *audit.Publisher) Option {
	return func(s *Service) { s.auditor = p }
}

// WithMetrics attaches the application metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithDefaultSystemID overrides the idSistema used when the caller omits it.
func WithDefaultSystemID(id string) Option {
	return func(s *Service) { s.defaultSystemID = id }
}

// New creates a relay Service.
func New(accounts AccountReader, broker token.Broker, router Router, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		accounts: accounts,
		broker:   broker,
		router:   router,
		logger:   logger,
		tracer:   otel.Tracer("icbridge/relay"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute relays one operation. The two outbound calls are strictly
// sequential: the forward cannot start until authentication succeeds.
func (s *Service) Execute(ctx context.Context, req Request) Result {
	ctx, span := s.tracer.Start(ctx, "relay.execute",
		trace.WithAttributes(attribute.String("operation", string(req.Operation))))
	defer span.End()

	result := s.relay(ctx, req)
	result.ExecutionTime = time.Since(requestcontext.StartTime(ctx)).Seconds()

	outcome := "error"
	if result.Success {
		outcome = "success"
	} else if result.StatusCode == 501 {
		outcome = "not_implemented"
	}
	span.SetAttributes(attribute.Int("status_code", result.StatusCode))
	if s.metrics != nil {
		s.metrics.ObserveRelay(string(req.Operation), outcome, result.ExecutionTime)
	}
	s.emitAudit(ctx, req, result)

	return result
}

func (s *Service) relay(ctx context.Context, req Request) Result {
	creds, err := s.accounts.Get(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load provider credentials",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		return Normalize(nil, err)
	}

	cred, err := s.broker.Authenticate(ctx, creds)
	if err != nil {
		s.logger.WarnContext(ctx, "authentication with identity provider failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		return Normalize(nil, err)
	}

	systemID := req.SystemID
	if systemID == "" {
		systemID = s.defaultSystemID
	}
	env := envelope.Build(creds.ContractorTaxID, req.TaxpayerID, systemID, req.ServiceID, req.SystemVersion, req.Payload)

	resp, err := s.router.Route(ctx, req.Operation, env, cred)
	if err != nil {
		return Normalize(nil, err)
	}
	return Normalize(resp, nil)
}

func (s *Service) emitAudit(ctx context.Context, req Request, result Result) {
	if s.auditor == nil {
		return
	}
	err := s.auditor.Emit(ctx, audit.Event{
		RequestID:       requestcontext.RequestID(ctx),
		Operation:       string(req.Operation),
		TaxpayerID:      req.TaxpayerID,
		ServiceID:       req.ServiceID,
		StatusCode:      result.StatusCode,
		Success:         result.Success,
		DurationSeconds: result.ExecutionTime,
	})
	if err != nil {
		// Fail-open: the relay result already went out, or is about to.
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
	}
}
