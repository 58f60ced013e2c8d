package practitioner

import (
	"context"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/pagination"
)

// ServiceInterface defines the contract for practitioner catalog operations
type ServiceInterface interface {
	List(ctx context.Context, params pagination.Params) ([]Practitioner, int, error)
	Get(ctx context.Context, id int64) (*Practitioner, error)
	Create(ctx context.Context, req PractitionerRequest) (*Practitioner, error)
	Update(ctx context.Context, id int64, req PractitionerRequest) (*Practitioner, error)
	Delete(ctx context.Context, id int64) error
}

var _ ServiceInterface = (*Service)(nil)
