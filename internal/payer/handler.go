package payer

import (
	"errors"
	"net/http"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/respond"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/validation"
	"go.uber.org/zap"
)

type Handler struct {
	service ServiceInterface
	logger  *zap.Logger
}

func NewHandler(service ServiceInterface, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type PayerSuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Payer   *Payer `json:"payer,omitempty"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseParams(r)
	list, total, err := h.service.List(r.Context(), params)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"payers":     list,
		"pagination": params.Meta(total),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, PayerSuccessResponse{Success: true, Message: "Insurance payer retrieved successfully", Payer: p})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req PayerRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	p, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, PayerSuccessResponse{Success: true, Message: "Insurance payer created successfully", Payer: p})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	var req PayerRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	p, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, PayerSuccessResponse{Success: true, Message: "Insurance payer updated successfully", Payer: p})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Insurance payer deleted successfully",
	})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if verrs, ok := validation.As(err); ok {
		respond.Validation(w, verrs)
		return
	}
	if errors.Is(err, ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	h.logger.Error("payer request failed", zap.Error(err))
	respond.Error(w, http.StatusInternalServerError, "internal_error", "failed to process insurance payer request")
}
