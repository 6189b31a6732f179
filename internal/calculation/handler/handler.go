// Package handler exposes the calculation endpoint over HTTP.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"souzoku/internal/calculation"
	"souzoku/internal/transport/http/shared"
	domainerrors "souzoku/pkg/domain-errors"
)

// Handler handles heir calculation requests.
type Handler struct {
	logger  *slog.Logger
	service *calculation.Service
}

// New creates a calculation Handler.
func New(service *calculation.Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// CalculateRequest identifies the case to calculate.
type CalculateRequest struct {
	CaseID uuid.UUID `json:"case_id"`
}

// Register registers the calculation routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/calculations", h.handleCalculate)
	r.Get("/cases/{caseID}/calculation", h.handleCalculateByPath)
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CaseID == uuid.Nil {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "case_id is required"))
		return
	}
	h.respond(w, r, req.CaseID)
}

func (h *Handler) handleCalculateByPath(w http.ResponseWriter, r *http.Request) {
	caseID, err := uuid.Parse(chi.URLParam(r, "caseID"))
	if err != nil {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid case id"))
		return
	}
	h.respond(w, r, caseID)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, caseID uuid.UUID) {
	resp, err := h.service.Calculate(r.Context(), caseID)
	if err != nil {
		h.logger.WarnContext(r.Context(), "calculation failed",
			"case_id", caseID.String(), "error", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, resp)
}
