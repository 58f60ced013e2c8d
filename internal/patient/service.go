package patient

import (
	"context"
	"strings"
	"time"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/validation"
	"go.uber.org/zap"
)

type Service struct {
	repo      RepositoryInterface
	assigner  RegistrationAssigner
	visits    VisitLister
	publisher messaging.PublisherInterface
	metrics   MetricsRecorder
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires the patient service. publisher and metrics may be nil.
func NewService(
	repo RepositoryInterface,
	assigner RegistrationAssigner,
	visits VisitLister,
	publisher messaging.PublisherInterface,
	metrics MetricsRecorder,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:      repo,
		assigner:  assigner,
		visits:    visits,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) List(ctx context.Context, q string, params pagination.Params) (*PatientPage, error) {
	q = strings.TrimSpace(q)
	patients, total, err := s.repo.Search(ctx, q, params.Limit, params.Offset())
	if err != nil {
		return nil, err
	}
	today := s.now()
	for i := range patients {
		patients[i].Age = AgeOn(patients[i].birth, today)
	}
	return &PatientPage{Patients: patients, Query: q, Pagination: params.Meta(total)}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*PatientDetail, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Age = AgeOn(p.birth, s.now())

	visits, err := s.visits.ListByPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PatientDetail{Patient: p, Visits: visits}, nil
}

// Create validates req, assigns the next registration number and stores the patient.
func (s *Service) Create(ctx context.Context, req PatientRequest) (*Patient, error) {
	req = normalize(req)
	if err := s.validate(req); err != nil {
		return nil, err
	}

	p, err := s.repo.Create(ctx, s.assigner, req)
	if err != nil {
		return nil, err
	}
	p.Age = AgeOn(p.birth, s.now())

	s.logger.Info("patient created",
		zap.Int64("patient_id", p.ID),
		zap.String("registration_number", p.RegistrationNumber),
	)
	s.record(ctx, "create")
	s.publish(ctx, messaging.EventPatientCreated, p)
	return p, nil
}

// Update replaces the patient's demographic data. The registration number is kept.
func (s *Service) Update(ctx context.Context, id int64, req PatientRequest) (*Patient, error) {
	req = normalize(req)
	if err := s.validate(req); err != nil {
		return nil, err
	}

	p, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	p.Age = AgeOn(p.birth, s.now())

	s.logger.Info("patient updated", zap.Int64("patient_id", p.ID))
	s.record(ctx, "update")
	s.publish(ctx, messaging.EventPatientUpdated, p)
	return p, nil
}

func (s *Service) record(ctx context.Context, op string) {
	if s.metrics != nil {
		s.metrics.RecordPatientOperation(ctx, op)
	}
}

func (s *Service) publish(ctx context.Context, eventType string, p *Patient) {
	messaging.PublishOrLog(ctx, s.publisher, s.logger, eventType,
		messaging.NewPatientEvent(eventType, messaging.PatientData{
			PatientID:          p.ID,
			RegistrationNumber: p.RegistrationNumber,
			Surname:            p.Surname,
			Name:               p.Name,
			NationalID:         p.NationalID,
			OccurredAt:         s.now().UTC(),
		}))
}

func normalize(req PatientRequest) PatientRequest {
	req.Surname = strings.TrimSpace(req.Surname)
	req.Name = strings.TrimSpace(req.Name)
	req.NationalID = strings.TrimSpace(req.NationalID)
	req.BirthDate = strings.TrimSpace(req.BirthDate)
	req.Gender = strings.ToUpper(strings.TrimSpace(req.Gender))
	req.Phone = strings.TrimSpace(req.Phone)
	req.Address = strings.TrimSpace(req.Address)
	req.MedicalHistory = strings.TrimSpace(req.MedicalHistory)
	if req.PayerMemberNumber != nil {
		m := strings.TrimSpace(*req.PayerMemberNumber)
		req.PayerMemberNumber = &m
		if m == "" {
			req.PayerMemberNumber = nil
		}
	}
	req.RegistrationNumber = ""
	return req
}

func (s *Service) validate(req PatientRequest) error {
	errs := validation.Errors{}
	errs.Required("surname", req.Surname)
	errs.Required("name", req.Name)
	errs.Required("national_id", req.NationalID)
	errs.Required("birth_date", req.BirthDate)
	errs.Required("gender", req.Gender)
	errs.Required("phone", req.Phone)
	errs.Required("address", req.Address)

	if req.BirthDate != "" {
		birth, err := time.Parse(birthDateLayout, req.BirthDate)
		switch {
		case err != nil:
			errs.Add("birth_date", "birth_date must be formatted YYYY-MM-DD")
		case birth.After(s.now()):
			errs.Add("birth_date", "birth_date cannot be in the future")
		}
	}
	switch req.Gender {
	case "", GenderMale, GenderFemale, GenderOther:
	default:
		errs.Add("gender", "gender must be one of M, F, O")
	}
	if req.InsurancePayerID != nil && *req.InsurancePayerID < 1 {
		errs.Add("insurance_payer_id", "insurance payer does not exist")
	}
	return errs.Err()
}
