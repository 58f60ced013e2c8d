package visit

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/auth"
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

type VisitCreatedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Visit   *Visit `json:"visit"`
	Exam    *Exam  `json:"exam"`
	Next    string `json:"next"`
}

// Create handles POST /patients/{patientID}/visits.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	patientID, ok := respond.PathID(w, r, "patientID")
	if !ok {
		return
	}
	var req CreateVisitRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	var userID string
	if pr, ok := auth.FromContext(r.Context()); ok {
		userID = pr.UserID
	}

	v, err := h.service.Create(r.Context(), patientID, userID, req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, VisitCreatedResponse{
		Success: true,
		Message: "Clinical visit and ophthalmic exam created successfully",
		Visit:   v,
		Exam:    v.Exam,
		Next:    fmt.Sprintf("/patients/%d", patientID),
	})
}

// GetExam handles GET /visits/{visitID}/exam.
func (h *Handler) GetExam(w http.ResponseWriter, r *http.Request) {
	visitID, ok := respond.PathID(w, r, "visitID")
	if !ok {
		return
	}
	exam, err := h.service.GetExam(r.Context(), visitID)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"exam":    exam,
	})
}

func (h *Handler) AcuityChoices(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"choices": AcuityChoices(),
	})
}

// Update handles PUT /visits/{visitID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "visitID")
	if !ok {
		return
	}
	var req UpdateVisitRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	v, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Clinical visit updated successfully",
		"visit":   v,
	})
}

// UpdateExam handles PUT /visits/{visitID}/exam.
func (h *Handler) UpdateExam(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "visitID")
	if !ok {
		return
	}
	var req ExamRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	exam, err := h.service.UpdateExam(r.Context(), id, req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Ophthalmic exam updated successfully",
		"exam":    exam,
	})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if verrs, ok := validation.As(err); ok {
		respond.Validation(w, verrs)
		return
	}
	switch {
	case errors.Is(err, ErrPatientNotFound), errors.Is(err, ErrVisitNotFound), errors.Is(err, ErrExamNotFound):
		respond.Error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ErrRecordsImmutable):
		respond.Error(w, http.StatusForbidden, "records_immutable", err.Error())
	default:
		h.logger.Error("clinical visit request failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal_error", "failed to process clinical visit request")
	}
}
