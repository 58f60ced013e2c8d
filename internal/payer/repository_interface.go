package payer

import "context"

type RepositoryInterface interface {
	List(ctx context.Context, limit, offset int) ([]Payer, int, error)
	Get(ctx context.Context, id int64) (*Payer, error)
	Create(ctx context.Context, req PayerRequest) (*Payer, error)
	Update(ctx context.Context, id int64, req PayerRequest) (*Payer, error)
	Delete(ctx context.Context, id int64) error
}

var _ RepositoryInterface = (*Repository)(nil)
