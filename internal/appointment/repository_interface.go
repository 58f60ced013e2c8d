package appointment

import (
	"context"
	"time"
)

// RepositoryInterface defines the contract for appointment data access
type RepositoryInterface interface {
	Create(ctx context.Context, a *Appointment) error
	Get(ctx context.Context, id int64) (*Appointment, error)
	Upcoming(ctx context.Context, f ListFilter, now time.Time) ([]Appointment, error)
	Recent(ctx context.Context, now time.Time, limit int) ([]Appointment, error)
	UpdateStateNotes(ctx context.Context, id int64, fromState string, req UpdateAppointmentRequest) (*Appointment, error)
	FeedEntries(ctx context.Context, mode string, now time.Time) ([]Appointment, error)
}

var _ RepositoryInterface = (*Repository)(nil)
