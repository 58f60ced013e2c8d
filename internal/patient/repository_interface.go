package patient

import "context"

// RepositoryInterface defines the contract for patient data access
type RepositoryInterface interface {
	Create(ctx context.Context, assigner RegistrationAssigner, req PatientRequest) (*Patient, error)
	Get(ctx context.Context, id int64) (*Patient, error)
	Search(ctx context.Context, q string, limit, offset int) ([]Patient, int, error)
	Update(ctx context.Context, id int64, req PatientRequest) (*Patient, error)
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
