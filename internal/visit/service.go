package visit

import (
	"context"
	"fmt"
	"strings"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/validation"
	"go.uber.org/zap"
)

type Service struct {
	repo      RepositoryInterface
	resolver  PractitionerResolver
	policy    RecordPolicy
	publisher messaging.PublisherInterface
	metrics   MetricsRecorder
	logger    *zap.Logger
}

// NewService wires the visit service. publisher and metrics may be nil.
func NewService(
	repo RepositoryInterface,
	resolver PractitionerResolver,
	policy RecordPolicy,
	publisher messaging.PublisherInterface,
	metrics MetricsRecorder,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:      repo,
		resolver:  resolver,
		policy:    policy,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Create opens a visit for patientID with its exam, crediting the practitioner
// linked to userID (or the first in the catalog).
func (s *Service) Create(ctx context.Context, patientID int64, userID string, req CreateVisitRequest) (*Visit, error) {
	exam, err := buildExam(req.ExamRequest)
	if err != nil {
		return nil, err
	}

	practitionerID, err := s.resolver.ResolveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	v := &Visit{
		PatientID:      patientID,
		PractitionerID: practitionerID,
		Reason:         orDefault(req.Reason, DefaultReason),
		Diagnosis:      orDefault(req.Diagnosis, DefaultDiagnosis),
		Treatment:      orDefault(req.Treatment, DefaultTreatment),
		Notes:          strings.TrimSpace(req.Notes),
	}
	if err := s.repo.CreateWithExam(ctx, v, exam); err != nil {
		return nil, err
	}

	s.logger.Info("clinical visit created",
		zap.Int64("visit_id", v.ID),
		zap.Int64("patient_id", patientID),
	)
	if s.metrics != nil {
		s.metrics.RecordVisitOperation(ctx, "create")
	}
	messaging.PublishOrLog(ctx, s.publisher, s.logger, messaging.EventVisitCreated,
		messaging.NewVisitCreatedEvent(messaging.VisitCreatedData{
			VisitID:        v.ID,
			PatientID:      v.PatientID,
			PractitionerID: v.PractitionerID,
			ExamID:         exam.ID,
			CreatedAt:      v.CreatedAt,
		}))
	return v, nil
}

func (s *Service) GetExam(ctx context.Context, visitID int64) (*Exam, error) {
	return s.repo.GetExam(ctx, visitID)
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64) ([]Visit, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateVisitRequest) (*Visit, error) {
	if err := s.policy.checkEditable(); err != nil {
		return nil, err
	}
	errs := validation.Errors{}
	for field, val := range map[string]*string{"reason": req.Reason, "diagnosis": req.Diagnosis, "treatment": req.Treatment} {
		if val != nil {
			errs.Required(field, *val)
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	v, err := s.repo.UpdateNarrative(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordVisitOperation(ctx, "update")
	}
	return v, nil
}

func (s *Service) UpdateExam(ctx context.Context, visitID int64, req ExamRequest) (*Exam, error) {
	if err := s.policy.checkEditable(); err != nil {
		return nil, err
	}
	exam, err := buildExam(req)
	if err != nil {
		return nil, err
	}
	exam.VisitID = visitID
	if err := s.repo.UpsertExam(ctx, exam); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordVisitOperation(ctx, "update_exam")
	}
	return exam, nil
}

func buildExam(req ExamRequest) (*Exam, error) {
	errs := validation.Errors{}
	right, err := NormalizeAcuity(req.AcuityRight)
	if err != nil {
		errs.Add("acuity_right", err.Error())
	}
	left, err := NormalizeAcuity(req.AcuityLeft)
	if err != nil {
		errs.Add("acuity_left", err.Error())
	}
	if err := errs.Err(); err != nil {
		return nil, fmt.Errorf("invalid exam: %w", err)
	}
	return &Exam{
		AcuityRight: right,
		AcuityLeft:  left,
		IOPRight:    strings.TrimSpace(req.IOPRight),
		IOPLeft:     strings.TrimSpace(req.IOPLeft),
		SlitLamp:    strings.TrimSpace(req.SlitLamp),
		Fundus:      strings.TrimSpace(req.Fundus),
		Notes:       strings.TrimSpace(req.ExamNotes),
	}, nil
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
