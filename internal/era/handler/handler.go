// Package handler exposes the calendar conversion endpoints.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"souzoku/internal/era"
	"souzoku/internal/transport/http/shared"
	domainerrors "souzoku/pkg/domain-errors"
)

// Handler converts dates between the Japanese and western calendars.
type Handler struct {
	logger *slog.Logger
}

// New creates a conversion Handler.
func New(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// ConversionRequest carries the date to convert and, for conversions into
// the Japanese calendar, the output style.
type ConversionRequest struct {
	DateStr    string `json:"date_str"`
	FormatType string `json:"format_type,omitempty"`
}

// ConversionResponse carries both sides of a conversion.
type ConversionResponse struct {
	Original  string `json:"original"`
	Converted string `json:"converted"`
	EraName   string `json:"era_name,omitempty"`
}

// Register registers the conversion routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/utils", func(r chi.Router) {
		r.Post("/convert-era-to-western", h.handleToWestern)
		r.Post("/convert-western-to-era", h.handleToEra)
		r.Post("/detect-and-convert", h.handleDetect)
	})
}

func (h *Handler) handleToWestern(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	h.toWestern(w, req)
}

func (h *Handler) handleToEra(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	h.toEra(w, req)
}

// handleDetect picks the conversion direction from the input shape: western
// dates go to the Japanese calendar and everything else goes the other way.
func (h *Handler) handleDetect(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	if era.IsWestern(req.DateStr) {
		h.toEra(w, req)
		return
	}
	h.toWestern(w, req)
}

func (h *Handler) toWestern(w http.ResponseWriter, req ConversionRequest) {
	d, err := era.Parse(req.DateStr)
	if err != nil {
		shared.WriteError(w, conversionError(err))
		return
	}
	name, err := era.Name(d)
	if err != nil {
		shared.WriteError(w, conversionError(err))
		return
	}
	shared.WriteJSON(w, http.StatusOK, ConversionResponse{
		Original:  req.DateStr,
		Converted: d.Format("2006-01-02"),
		EraName:   name,
	})
}

func (h *Handler) toEra(w http.ResponseWriter, req ConversionRequest) {
	d, err := era.Parse(req.DateStr)
	if err != nil {
		shared.WriteError(w, conversionError(err))
		return
	}
	converted, err := era.Format(d, era.Style(req.FormatType))
	if err != nil {
		shared.WriteError(w, conversionError(err))
		return
	}
	name, err := era.Name(d)
	if err != nil {
		shared.WriteError(w, conversionError(err))
		return
	}
	shared.WriteJSON(w, http.StatusOK, ConversionResponse{
		Original:  req.DateStr,
		Converted: converted,
		EraName:   name,
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (ConversionRequest, bool) {
	var req ConversionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return ConversionRequest{}, false
	}
	if req.DateStr == "" {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "date_str is required"))
		return ConversionRequest{}, false
	}
	return req, true
}

func conversionError(err error) error {
	if errors.Is(err, era.ErrConversion) {
		return domainerrors.Wrap(err, domainerrors.CodeBadRequest, err.Error())
	}
	return domainerrors.Wrap(err, domainerrors.CodeInternal, "date conversion failed")
}
