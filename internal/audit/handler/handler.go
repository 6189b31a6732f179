// Package handler exposes the per-case audit trail over HTTP.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"souzoku/internal/audit"
	"souzoku/internal/transport/http/shared"
	domainerrors "souzoku/pkg/domain-errors"
)

// Handler serves audit event listings.
type Handler struct {
	logger    *slog.Logger
	publisher *audit.Publisher
}

// New creates an audit Handler.
func New(publisher *audit.Publisher, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, publisher: publisher}
}

// ListResponse wraps the event list of one case.
type ListResponse struct {
	Events []audit.Event `json:"events"`
	Total  int           `json:"total"`
}

// Register registers the audit routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/cases/{caseID}/audit-events", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	caseID, err := uuid.Parse(chi.URLParam(r, "caseID"))
	if err != nil {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid case id"))
		return
	}
	events, err := h.publisher.List(r.Context(), caseID)
	if err != nil {
		h.logger.WarnContext(r.Context(), "audit list failed",
			"case_id", caseID.String(), "error", err)
		shared.WriteError(w, domainerrors.Wrap(err, domainerrors.CodeInternal, "audit trail unavailable"))
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	shared.WriteJSON(w, http.StatusOK, ListResponse{Events: events, Total: len(events)})
}
