package appointment

import "context"

// ServiceInterface defines the contract for appointment operations
type ServiceInterface interface {
	List(ctx context.Context, f ListFilter) (*Agenda, error)
	Draft(patientID *int64) Draft
	Create(ctx context.Context, req CreateAppointmentRequest) (*Appointment, error)
	Get(ctx context.Context, id int64) (*Appointment, error)
	Update(ctx context.Context, id int64, req UpdateAppointmentRequest) (*Appointment, error)
	Feed(ctx context.Context) ([]byte, error)
}

type MetricsRecorder interface {
	RecordAppointmentOperation(ctx context.Context, operation, state string)
}

var _ ServiceInterface = (*Service)(nil)
