package practitioner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/validation"
	"go.uber.org/zap"
)

type Service struct {
	repo   RepositoryInterface
	logger *zap.Logger
}

func NewService(repo RepositoryInterface, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context, params pagination.Params) ([]Practitioner, int, error) {
	return s.repo.List(ctx, params.Limit, params.Offset())
}

func (s *Service) Get(ctx context.Context, id int64) (*Practitioner, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req PractitionerRequest) (*Practitioner, error) {
	req = normalize(req)
	if err := validate(req); err != nil {
		return nil, err
	}
	p, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("practitioner created", zap.Int64("practitioner_id", p.ID))
	return p, nil
}

func (s *Service) Update(ctx context.Context, id int64, req PractitionerRequest) (*Practitioner, error) {
	req = normalize(req)
	if err := validate(req); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, req)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("practitioner deleted", zap.Int64("practitioner_id", id))
	return nil
}

// ResolveForUser picks the practitioner to credit with a new visit: the one
// linked to userID, else the first in catalog order. It returns nil when the
// catalog is empty.
func (s *Service) ResolveForUser(ctx context.Context, userID string) (*int64, error) {
	if userID != "" {
		p, err := s.repo.GetByUserID(ctx, userID)
		if err == nil {
			return &p.ID, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("resolve practitioner for user: %w", err)
		}
	}

	p, err := s.repo.First(ctx)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve default practitioner: %w", err)
	}
	return &p.ID, nil
}

func normalize(req PractitionerRequest) PractitionerRequest {
	req.Name = strings.TrimSpace(req.Name)
	req.Surname = strings.TrimSpace(req.Surname)
	req.LicenseNumber = strings.TrimSpace(req.LicenseNumber)
	if req.UserID != nil {
		u := strings.TrimSpace(*req.UserID)
		req.UserID = &u
		if u == "" {
			req.UserID = nil
		}
	}
	return req
}

func validate(req PractitionerRequest) error {
	errs := validation.Errors{}
	errs.Required("name", req.Name)
	errs.Required("surname", req.Surname)
	errs.Required("license_number", req.LicenseNumber)
	return errs.Err()
}
