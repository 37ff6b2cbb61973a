// Package handler exposes the administrative credential update surface.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"icbridge/internal/account/models"
	dErrors "icbridge/pkg/domain-errors"
	"icbridge/pkg/platform/httputil"
	"icbridge/pkg/requestcontext"
)

// Service defines the account operations the handler needs.
type Service interface {
	Get(ctx context.Context) (models.Credentials, error)
	Update(ctx context.Context, creds models.Credentials) error
}

// Handler serves GET/PUT /config.
type Handler struct {
	account Service
	logger  *slog.Logger
}

// New creates an account Handler.
func New(account Service, logger *slog.Logger) *Handler {
	return &Handler{account: account, logger: logger}
}

// Register mounts the config routes on the given router. Access control is
// applied by the caller so /api and /config share the same guard.
func (h *Handler) Register(r chi.Router) {
	r.Get("/config", h.handleGet)
	r.Put("/config", h.handleUpdate)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	creds, err := h.account.Get(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to load account credentials",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, creds.Redacted())
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if creds.ContractorTaxID != "" && !govalidator.IsNumeric(creds.ContractorTaxID) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "cnpj_contratante must contain only digits"))
		return
	}

	if err := h.account.Update(r.Context(), creds); err != nil {
		if !dErrors.HasCode(err, dErrors.CodeBadRequest) {
			h.logger.ErrorContext(r.Context(), "failed to update account credentials",
				"request_id", requestcontext.RequestID(r.Context()),
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
