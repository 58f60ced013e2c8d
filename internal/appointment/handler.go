package appointment

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/respond"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/validation"
	"go.uber.org/zap"
)

const dayLayout = "2006-01-02"

type Handler struct {
	service ServiceInterface
	logger  *zap.Logger
}

func NewHandler(service ServiceInterface, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type AppointmentSuccessResponse struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message"`
	Appointment *Appointment `json:"appointment,omitempty"`
}

type AgendaResponse struct {
	Success bool `json:"success"`
	Agenda
}

// List handles GET /appointments?date=&practitioner_id=&state=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := ListFilter{State: q.Get("state")}
	errs := validation.Errors{}

	if s := q.Get("date"); s != "" {
		day, err := time.ParseInLocation(dayLayout, s, time.Local)
		if err != nil {
			errs.Add("date", "date must be formatted YYYY-MM-DD")
		} else {
			f.Day = &day
		}
	}
	if s := q.Get("practitioner_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id < 1 {
			errs.Add("practitioner_id", "practitioner_id must be a positive integer")
		} else {
			f.PractitionerID = &id
		}
	}
	if len(errs) > 0 {
		respond.Validation(w, errs)
		return
	}

	agenda, err := h.service.List(r.Context(), f)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, AgendaResponse{Success: true, Agenda: *agenda})
}

// Draft handles GET /appointments/draft?patient_id=.
func (h *Handler) Draft(w http.ResponseWriter, r *http.Request) {
	var patientID *int64
	if s := r.URL.Query().Get("patient_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id < 1 {
			respond.Validation(w, validation.Errors{"patient_id": "patient_id must be a positive integer"})
			return
		}
		patientID = &id
	}
	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"draft":   h.service.Draft(patientID),
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	a, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, AppointmentSuccessResponse{
		Success:     true,
		Message:     "Appointment created successfully",
		Appointment: a,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, AppointmentSuccessResponse{
		Success:     true,
		Message:     "Appointment retrieved successfully",
		Appointment: a,
	})
}

// Update handles PATCH /appointments/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateAppointmentRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	a, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, AppointmentSuccessResponse{
		Success:     true,
		Message:     "Appointment updated successfully",
		Appointment: a,
	})
}

// Feed handles GET /appointments/feed.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Feed(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if verrs, ok := validation.As(err); ok {
		respond.Validation(w, verrs)
		return
	}
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ErrInvalidTransition):
		respond.Error(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, ErrStateChanged):
		respond.Error(w, http.StatusConflict, "conflict", err.Error())
	default:
		h.logger.Error("appointment request failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal_error", "failed to process appointment request")
	}
}
