package patient

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/respond"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/validation"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/visit"
	"go.uber.org/zap"
)

type Handler struct {
	service ServiceInterface
	logger  *zap.Logger
}

func NewHandler(service ServiceInterface, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type PatientSuccessResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Patient *Patient `json:"patient,omitempty"`
	Next    string   `json:"next,omitempty"`
}

type PatientListResponse struct {
	Success bool `json:"success"`
	PatientPage
}

type PatientDetailResponse struct {
	Success bool          `json:"success"`
	Patient *Patient      `json:"patient"`
	Visits  []visit.Visit `json:"visits"`
}

// List handles GET /patients?q=&page=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseFixed(r, PageSize)
	page, err := h.service.List(r.Context(), r.URL.Query().Get("q"), params)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, PatientListResponse{Success: true, PatientPage: *page})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	detail, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, PatientDetailResponse{Success: true, Patient: detail.Patient, Visits: detail.Visits})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req PatientRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	p, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, PatientSuccessResponse{
		Success: true,
		Message: "Patient created successfully",
		Patient: p,
		Next:    fmt.Sprintf("/appointments/draft?patient_id=%d", p.ID),
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	var req PatientRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	p, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, PatientSuccessResponse{
		Success: true,
		Message: "Patient updated successfully",
		Patient: p,
		Next:    fmt.Sprintf("/patients/%d", p.ID),
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
	h.logger.Error("patient request failed", zap.Error(err))
	respond.Error(w, http.StatusInternalServerError, "internal_error", "failed to process patient request")
}
