// Package handler is the thin HTTP layer over the relay service. It owns
// request validation and the route-vs-body sourcing of the operation kind;
// everything past validation is the service's problem.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"icbridge/internal/platform/middleware"
	"icbridge/internal/relay"
	"icbridge/pkg/platform/httputil"
	"icbridge/pkg/requestcontext"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "API Integra Contador is running"

// RelayService executes a validated operation request.
type RelayService interface {
	Execute(ctx context.Context, req relay.Request) relay.Result
}

// Handler serves the relay endpoints.
type Handler struct {
	relay    RelayService
	logger   *slog.Logger
	verifier middleware.SecretVerifier
}

// New creates a relay Handler. A nil verifier disables access control.
func New(svc RelayService, logger *slog.Logger, verifier middleware.SecretVerifier) *Handler {
	return &Handler{relay: svc, logger: logger, verifier: verifier}
}

// Register mounts the relay routes. The health endpoint stays outside the
// access-control guard so probes work without the shared secret.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.handleHealth)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSecret(h.verifier, h.logger))
		r.Post("/api", h.handleRelay)
		r.Post("/api/{operation}", h.handleRelay)
	})
}

// apiRequest mirrors the caller-facing JSON contract. External field names
// are fixed by the original deployments; validation errors must quote them
// verbatim.
type apiRequest struct {
	Operation     string          `json:"tipo"`
	TaxpayerID    string          `json:"cnpj"`
	SystemID      string          `json:"idSistema"`
	ServiceID     string          `json:"idServico"`
	SystemVersion string          `json:"versaoSistema"`
	Payload       json.RawMessage `json:"dados"`
}

func (h *Handler) handleRelay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req apiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeResult(w, ctx, relay.Result{
			Success:    false,
			StatusCode: http.StatusBadRequest,
			Error:      "No data provided",
		})
		return
	}

	// The route path wins over the body when both name an operation.
	if fromPath := chi.URLParam(r, "operation"); fromPath != "" {
		req.Operation = fromPath
	}

	if missing := missingFields(req); len(missing) > 0 {
		h.writeResult(w, ctx, relay.Result{
			Success:    false,
			StatusCode: http.StatusBadRequest,
			Error:      "Missing required parameters: " + strings.Join(missing, ", "),
		})
		return
	}

	op, ok := relay.ParseOperation(req.Operation)
	if !ok {
		h.writeResult(w, ctx, relay.Result{
			Success:    false,
			StatusCode: http.StatusBadRequest,
			Error:      "Invalid operation type: " + req.Operation,
		})
		return
	}

	if !govalidator.IsNumeric(req.TaxpayerID) {
		h.writeResult(w, ctx, relay.Result{
			Success:    false,
			StatusCode: http.StatusBadRequest,
			Error:      "cnpj must contain only digits",
		})
		return
	}

	result := h.relay.Execute(ctx, relay.Request{
		Operation:     op,
		TaxpayerID:    req.TaxpayerID,
		SystemID:      req.SystemID,
		ServiceID:     req.ServiceID,
		SystemVersion: req.SystemVersion,
		Payload:       req.Payload,
	})
	h.writeResult(w, ctx, result)
}

// missingFields enumerates absent required fields by their external names,
// in the contract's order. idSistema is never required; the service applies
// the configured default.
func missingFields(req apiRequest) []string {
	var missing []string
	if req.Operation == "" {
		missing = append(missing, "tipo")
	}
	if req.TaxpayerID == "" {
		missing = append(missing, "cnpj")
	}
	if req.ServiceID == "" {
		missing = append(missing, "idServico")
	}
	if req.SystemVersion == "" {
		missing = append(missing, "versaoSistema")
	}
	if emptyPayload(req.Payload) {
		missing = append(missing, "dados")
	}
	return missing
}

func emptyPayload(payload json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(payload))
	return trimmed == "" || trimmed == "null"
}

// writeResult emits the uniform envelope, stamping execution time on paths
// that never reached the service.
func (h *Handler) writeResult(w http.ResponseWriter, ctx context.Context, result relay.Result) {
	if result.ExecutionTime == 0 {
		result.ExecutionTime = time.Since(requestcontext.StartTime(ctx)).Seconds()
	}
	httputil.WriteJSON(w, result.StatusCode, result)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "online",
		"message": ServiceName,
	})
}
