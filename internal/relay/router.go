package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"icbridge/internal/envelope"
	"icbridge/internal/token"
)

var upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "icbridge_upstream_duration_seconds",
	Help:    "Latency of operation endpoint calls in seconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
}, []string{"operation"})

// ForwardTimeout bounds the operation endpoint call.
const ForwardTimeout = 30 * time.Second

// UpstreamResponse is the raw answer from an operation endpoint.
type UpstreamResponse struct {
	StatusCode int
	Body       []byte
}

// Router dispatches an envelope to the endpoint for the operation kind.
type Router interface {
	Route(ctx context.Context, op Operation, env envelope.Envelope, cred *token.Credential) (*UpstreamResponse, error)
}

// GatewayRouter forwards query operations to the SERPRO gateway. Issue and
// declare are recognized but return NotImplemented without any outbound
// call; the operation bodies were never built.
type GatewayRouter struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// RouterOption configures a GatewayRouter.
type RouterOption func(*GatewayRouter)

// WithTimeout overrides the 30s forward timeout.
func WithTimeout(d time.Duration) RouterOption {
	return func(r *GatewayRouter) { r.client.Timeout = d }
}

// NewGatewayRouter constructs a router against the given gateway base URL.
func NewGatewayRouter(baseURL string, logger *slog.Logger, opts ...RouterOption) *GatewayRouter {
	r := &GatewayRouter{
		baseURL: baseURL,
		client:  &http.Client{Timeout: ForwardTimeout},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *GatewayRouter) Route(ctx context.Context, op Operation, env envelope.Envelope, cred *token.Credential) (*UpstreamResponse, error) {
	switch op {
	case OperationQuery:
		return r.forward(ctx, op, env, cred)
	case OperationIssue, OperationDeclare:
		return nil, &RouteError{Kind: KindNotImplemented, Operation: op}
	default:
		return nil, &RouteError{Kind: KindInvalidOperation, Operation: op}
	}
}

func (r *GatewayRouter) forward(ctx context.Context, op Operation, env envelope.Envelope, cred *token.Credential) (*UpstreamResponse, error) {
	start := time.Now()
	defer func() {
		upstreamDuration.WithLabelValues(string(op)).Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+op.endpointPath(), bytes.NewReader(body))
	if err != nil {
		return nil, &RouteError{Kind: KindUnreachable, Operation: op, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("jwt_token", cred.JWTToken)

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.WarnContext(ctx, "operation endpoint unreachable",
			"operation", string(op),
			"error", err.Error(),
		)
		return nil, &RouteError{Kind: KindUnreachable, Operation: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RouteError{Kind: KindUnreachable, Operation: op, Err: err}
	}

	return &UpstreamResponse{StatusCode: resp.StatusCode, Body: respBody}, nil
}
