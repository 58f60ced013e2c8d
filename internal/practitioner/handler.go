package practitioner

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

type PractitionerSuccessResponse struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message"`
	Practitioner *Practitioner `json:"practitioner,omitempty"`
}

type PractitionerListResponse struct {
	Success       bool            `json:"success"`
	Practitioners []Practitioner  `json:"practitioners"`
	Pagination    pagination.Meta `json:"pagination"`
}

// List handles GET /practitioners?page=&limit=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseParams(r)
	list, total, err := h.service.List(r.Context(), params)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, PractitionerListResponse{
		Success:       true,
		Practitioners: list,
		Pagination:    params.Meta(total),
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
	respond.JSON(w, http.StatusOK, PractitionerSuccessResponse{Success: true, Message: "Practitioner retrieved successfully", Practitioner: p})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req PractitionerRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	p, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, PractitionerSuccessResponse{Success: true, Message: "Practitioner created successfully", Practitioner: p})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	var req PractitionerRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	p, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, PractitionerSuccessResponse{Success: true, Message: "Practitioner updated successfully", Practitioner: p})
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
		"message": "Practitioner deleted successfully",
	})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if verrs, ok := validation.As(err); ok {
		respond.Validation(w, verrs)
		return
	}
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ErrStillReferenced):
		respond.Error(w, http.StatusConflict, "still_referenced", err.Error())
	default:
		h.logger.Error("practitioner request failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal_error", "failed to process practitioner request")
	}
}
