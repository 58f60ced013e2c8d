// Package dashboard summarises practice activity for the landing page.
package dashboard

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/respond"
	"go.uber.org/zap"
)

const (
	VisitWindow       = 30 * 24 * time.Hour
	AppointmentWindow = 7 * 24 * time.Hour
)

type Summary struct {
	TotalPatients        int       `json:"total_patients"`
	RecentVisits         int       `json:"visits_last_30_days"`
	UpcomingAppointments int       `json:"appointments_next_7_days"`
	GeneratedAt          time.Time `json:"generated_at"`
}

type Counter interface {
	Summary(ctx context.Context, now time.Time) (*Summary, error)
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Summary(ctx context.Context, now time.Time) (*Summary, error) {
	s := Summary{GeneratedAt: now}
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM patients),
			(SELECT COUNT(*) FROM clinical_visits WHERE created_at >= $1),
			(SELECT COUNT(*) FROM appointments WHERE scheduled_at >= $2 AND scheduled_at < $3)`,
		now.Add(-VisitWindow), now, now.Add(AppointmentWindow),
	).Scan(&s.TotalPatients, &s.RecentVisits, &s.UpcomingAppointments)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard counts: %w", err)
	}
	return &s, nil
}

type Handler struct {
	counter Counter
	logger  *zap.Logger
	now     func() time.Time
}

func NewHandler(counter Counter, logger *zap.Logger) *Handler {
	return &Handler{counter: counter, logger: logger, now: time.Now}
}

// Get handles GET /dashboard.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.counter.Summary(r.Context(), h.now())
	if err != nil {
		h.logger.Error("dashboard request failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal_error", "failed to load dashboard")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"dashboard": s,
	})
}
