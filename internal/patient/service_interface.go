package patient

import (
	"context"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/registration"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/visit"
)

// ServiceInterface defines the contract for patient business logic operations
type ServiceInterface interface {
	List(ctx context.Context, q string, params pagination.Params) (*PatientPage, error)
	Get(ctx context.Context, id int64) (*PatientDetail, error)
	Create(ctx context.Context, req PatientRequest) (*Patient, error)
	Update(ctx context.Context, id int64, req PatientRequest) (*Patient, error)
}

// RegistrationAssigner hands out registration sequence values for new patients,
// drawn inside the insert transaction.
type RegistrationAssigner interface {
	Assign(ctx context.Context, tx registration.Tx) int64
}

// VisitLister loads a patient's clinical history.
type VisitLister interface {
	ListByPatient(ctx context.Context, patientID int64) ([]visit.Visit, error)
}

type MetricsRecorder interface {
	RecordPatientOperation(ctx context.Context, operation string)
}

var _ ServiceInterface = (*Service)(nil)
