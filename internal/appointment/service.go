package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/config"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/validation"
	"go.uber.org/zap"
)

// Options configures workflow behaviour.
type Options struct {
	Policy   TransitionPolicy
	FeedMode string
}

type Service struct {
	repo      RepositoryInterface
	opts      Options
	cache     FeedCache
	publisher messaging.PublisherInterface
	metrics   MetricsRecorder
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires the appointment service. A nil cache disables feed caching;
// publisher and metrics may be nil.
func NewService(
	repo RepositoryInterface,
	opts Options,
	cache FeedCache,
	publisher messaging.PublisherInterface,
	metrics MetricsRecorder,
	logger *zap.Logger,
) *Service {
	if cache == nil {
		cache = NoopCache{}
	}
	if opts.FeedMode == "" {
		opts.FeedMode = config.FeedModeWindow
	}
	return &Service{
		repo:      repo,
		opts:      opts,
		cache:     cache,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns the upcoming agenda for f plus the most recent past appointments.
func (s *Service) List(ctx context.Context, f ListFilter) (*Agenda, error) {
	f.State = NormalizeState(f.State)
	if f.State == "ALL" {
		f.State = ""
	}
	if f.State != "" && !ValidState(f.State) {
		return nil, validation.Field("state", "state must be one of "+strings.Join(States(), ", ")+" or all")
	}

	now := s.now()
	upcoming, err := s.repo.Upcoming(ctx, f, now)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.Recent(ctx, now, RecentLimit)
	if err != nil {
		return nil, err
	}
	return &Agenda{Upcoming: upcoming, Recent: recent}, nil
}

func (s *Service) Draft(patientID *int64) Draft {
	return Draft{
		PatientID:   patientID,
		ScheduledAt: s.now().Truncate(time.Minute),
		State:       StatePending,
		States:      States(),
	}
}

func (s *Service) Create(ctx context.Context, req CreateAppointmentRequest) (*Appointment, error) {
	a := &Appointment{
		PatientID:      req.PatientID,
		PractitionerID: req.PractitionerID,
		State:          NormalizeState(req.State),
		Notes:          strings.TrimSpace(req.Notes),
	}
	if a.State == "" {
		a.State = StatePending
	}
	if req.ScheduledAt != nil {
		a.ScheduledAt = *req.ScheduledAt
	} else {
		a.ScheduledAt = s.now()
	}

	errs := validation.Errors{}
	if a.PatientID < 1 {
		errs.Add("patient_id", "patient_id is required")
	}
	if a.PractitionerID < 1 {
		errs.Add("practitioner_id", "practitioner_id is required")
	}
	if !ValidState(a.State) {
		errs.Add("state", "state must be one of "+strings.Join(States(), ", "))
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info("appointment created",
		zap.Int64("appointment_id", a.ID),
		zap.Int64("patient_id", a.PatientID),
		zap.Time("scheduled_at", a.ScheduledAt),
	)
	s.afterWrite(ctx, "create", a.State)
	messaging.PublishOrLog(ctx, s.publisher, s.logger, messaging.EventAppointmentCreated,
		messaging.NewAppointmentCreatedEvent(messaging.AppointmentCreatedData{
			AppointmentID:  a.ID,
			PatientID:      a.PatientID,
			PractitionerID: a.PractitionerID,
			ScheduledAt:    a.ScheduledAt,
			State:          a.State,
		}))

	if full, err := s.repo.Get(ctx, a.ID); err == nil {
		return full, nil
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Appointment, error) {
	return s.repo.Get(ctx, id)
}

// Update changes state and notes. State changes go through the transition policy.
func (s *Service) Update(ctx context.Context, id int64, req UpdateAppointmentRequest) (*Appointment, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.State != nil {
		next := NormalizeState(*req.State)
		if !ValidState(next) {
			return nil, validation.Field("state", "state must be one of "+strings.Join(States(), ", "))
		}
		if !s.opts.Policy.Allowed(current.State, next) {
			return nil, &TransitionError{From: current.State, To: next}
		}
		req.State = &next
	}
	if req.Notes != nil {
		n := strings.TrimSpace(*req.Notes)
		req.Notes = &n
	}

	updated, err := s.repo.UpdateStateNotes(ctx, id, current.State, req)
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, "update", updated.State)

	if updated.State != current.State {
		s.logger.Info("appointment state changed",
			zap.Int64("appointment_id", id),
			zap.String("from", current.State),
			zap.String("to", updated.State),
		)
		messaging.PublishOrLog(ctx, s.publisher, s.logger, messaging.EventAppointmentStateChanged,
			messaging.NewAppointmentStateChangedEvent(messaging.AppointmentStateChangedData{
				AppointmentID: id,
				PatientID:     updated.PatientID,
				OldState:      current.State,
				NewState:      updated.State,
				ChangedAt:     s.now().UTC(),
			}))
	}
	return updated, nil
}

// Feed returns the JSON calendar feed for the configured mode, served from the
// cache when possible.
func (s *Service) Feed(ctx context.Context) ([]byte, error) {
	mode := s.opts.FeedMode
	if b, err := s.cache.Get(ctx, mode); err == nil {
		return b, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		s.logger.Warn("feed cache read failed", zap.Error(err))
	}

	appts, err := s.repo.FeedEntries(ctx, mode, s.now())
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(BuildFeed(appts, mode))
	if err != nil {
		return nil, fmt.Errorf("failed to encode feed: %w", err)
	}
	if err := s.cache.Set(ctx, mode, b); err != nil {
		s.logger.Warn("feed cache write failed", zap.Error(err))
	}
	return b, nil
}

func (s *Service) afterWrite(ctx context.Context, op, state string) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("feed cache invalidation failed", zap.Error(err))
	}
	if s.metrics != nil {
		s.metrics.RecordAppointmentOperation(ctx, op, state)
	}
}
