package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/config"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/db"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/registration"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/validation"
)

// FeedLookback is how far into the past the windowed calendar feed reaches.
const FeedLookback = 6 * time.Hour

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const appointmentSelect = `
	SELECT a.id, a.patient_id, a.practitioner_id, pr.surname || ', ' || pr.name,
	       a.scheduled_at, a.state, a.notes, a.created_at, a.updated_at,
	       p.registration_seq, p.surname, p.name, p.national_id, p.phone
	FROM appointments a
	JOIN patients p ON p.id = a.patient_id
	JOIN practitioners pr ON pr.id = a.practitioner_id`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(s scanner) (*Appointment, error) {
	var (
		a         Appointment
		ps        PatientSummary
		seq       int64
		updatedAt sql.NullTime
	)
	err := s.Scan(
		&a.ID, &a.PatientID, &a.PractitionerID, &a.PractitionerName,
		&a.ScheduledAt, &a.State, &a.Notes, &a.CreatedAt, &updatedAt,
		&seq, &ps.Surname, &ps.Name, &ps.NationalID, &ps.Phone,
	)
	if err != nil {
		return nil, err
	}
	ps.ID = a.PatientID
	ps.RegistrationNumber = registration.Format(seq)
	a.Patient = &ps
	if updatedAt.Valid {
		a.UpdatedAt = &updatedAt.Time
	}
	return &a, nil
}

func (r *Repository) query(ctx context.Context, query string, args ...interface{}) ([]Appointment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	list := []Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		list = append(list, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating appointments: %w", err)
	}
	return list, nil
}

// Create inserts a; the referenced patient and practitioner must exist.
func (r *Repository) Create(ctx context.Context, a *Appointment) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO appointments (patient_id, practitioner_id, scheduled_at, state, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		a.PatientID, a.PractitionerID, a.ScheduledAt, a.State, a.Notes,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if field, ok := db.ForeignKeyViolation(err); ok {
			switch field {
			case "patient_id":
				return validation.Field("patient_id", "patient does not exist")
			case "practitioner_id":
				return validation.Field("practitioner_id", "practitioner does not exist")
			}
		}
		return fmt.Errorf("failed to insert appointment: %w", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id int64) (*Appointment, error) {
	a, err := scanAppointment(r.db.QueryRowContext(ctx, appointmentSelect+` WHERE a.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return a, nil
}

// Upcoming lists appointments from now on, or on f.Day when set, soonest first.
// Filters combine with AND.
func (r *Repository) Upcoming(ctx context.Context, f ListFilter, now time.Time) ([]Appointment, error) {
	var (
		conds []string
		args  []interface{}
	)
	add := func(cond string, v interface{}) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Day != nil {
		add("a.scheduled_at >= $%d", *f.Day)
		add("a.scheduled_at < $%d", f.Day.AddDate(0, 0, 1))
	} else {
		add("a.scheduled_at >= $%d", now)
	}
	if f.PractitionerID != nil {
		add("a.practitioner_id = $%d", *f.PractitionerID)
	}
	if f.State != "" {
		add("a.state = $%d", f.State)
	}

	return r.query(ctx, appointmentSelect+`
		WHERE `+strings.Join(conds, " AND ")+`
		ORDER BY a.scheduled_at ASC, a.id ASC`, args...)
}

// Recent returns the latest appointments scheduled before now, newest first.
func (r *Repository) Recent(ctx context.Context, now time.Time, limit int) ([]Appointment, error) {
	return r.query(ctx, appointmentSelect+`
		WHERE a.scheduled_at < $1
		ORDER BY a.scheduled_at DESC, a.id DESC
		LIMIT $2`, now, limit)
}

// UpdateStateNotes applies req only while the appointment is still in
// fromState, so two concurrent transitions cannot both succeed.
func (r *Repository) UpdateStateNotes(ctx context.Context, id int64, fromState string, req UpdateAppointmentRequest) (*Appointment, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments
		SET state = COALESCE($1, state),
		    notes = COALESCE($2, notes),
		    updated_at = NOW()
		WHERE id = $3 AND state = $4`,
		nullString(req.State), nullString(req.Notes), id, fromState,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrStateChanged
	}
	return r.Get(ctx, id)
}

// FeedEntries selects the calendar feed rows for mode.
func (r *Repository) FeedEntries(ctx context.Context, mode string, now time.Time) ([]Appointment, error) {
	if mode == config.FeedModeActive {
		return r.query(ctx, appointmentSelect+`
			WHERE a.state <> $1
			ORDER BY a.scheduled_at ASC, a.id ASC`, StateCancelled)
	}
	return r.query(ctx, appointmentSelect+`
		WHERE a.scheduled_at >= $1
		ORDER BY a.scheduled_at ASC, a.id ASC`, now.Add(-FeedLookback))
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}
