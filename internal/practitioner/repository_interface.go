package practitioner

import "context"

// RepositoryInterface defines the contract for practitioner data access
type RepositoryInterface interface {
	List(ctx context.Context, limit, offset int) ([]Practitioner, int, error)
	Get(ctx context.Context, id int64) (*Practitioner, error)
	GetByUserID(ctx context.Context, userID string) (*Practitioner, error)
	First(ctx context.Context) (*Practitioner, error)
	Create(ctx context.Context, req PractitionerRequest) (*Practitioner, error)
	Update(ctx context.Context, id int64, req PractitionerRequest) (*Practitioner, error)
	Delete(ctx context.Context, id int64) error
}

var _ RepositoryInterface = (*Repository)(nil)
