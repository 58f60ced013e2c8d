package payer

import (
	"context"
	"strings"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/validation"
	"go.uber.org/zap"
)

// ServiceInterface defines the contract for payer catalog operations
type ServiceInterface interface {
	List(ctx context.Context, params pagination.Params) ([]Payer, int, error)
	Get(ctx context.Context, id int64) (*Payer, error)
	Create(ctx context.Context, req PayerRequest) (*Payer, error)
	Update(ctx context.Context, id int64, req PayerRequest) (*Payer, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo   RepositoryInterface
	logger *zap.Logger
}

func NewService(repo RepositoryInterface, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context, params pagination.Params) ([]Payer, int, error) {
	return s.repo.List(ctx, params.Limit, params.Offset())
}

func (s *Service) Get(ctx context.Context, id int64) (*Payer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req PayerRequest) (*Payer, error) {
	req, err := clean(req)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, req)
}

func (s *Service) Update(ctx context.Context, id int64, req PayerRequest) (*Payer, error) {
	req, err := clean(req)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, req)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("insurance payer deleted", zap.Int64("payer_id", id))
	return nil
}

func clean(req PayerRequest) (PayerRequest, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Abbreviation != nil {
		a := strings.ToUpper(strings.TrimSpace(*req.Abbreviation))
		req.Abbreviation = &a
	}

	errs := validation.Errors{}
	errs.Required("name", req.Name)
	if req.Abbreviation != nil && len(*req.Abbreviation) > 20 {
		errs.Add("abbreviation", "abbreviation must be at most 20 characters")
	}
	return req, errs.Err()
}
