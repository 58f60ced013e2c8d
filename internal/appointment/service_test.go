package appointment

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/config"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 6, 14, 10, 0, 0, 0, time.UTC)

func newTestService(repo RepositoryInterface, opts Options, cache FeedCache) (*Service, *recordingPublisher) {
	pub := &recordingPublisher{}
	svc := NewService(repo, opts, cache, pub, nil, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc, pub
}

func TestCreate_Defaults(t *testing.T) {
	var saved *Appointment
	repo := &mockRepository{
		createFunc: func(ctx context.Context, a *Appointment) error {
			a.ID = 9
			saved = a
			return nil
		},
		getFunc: func(ctx context.Context, id int64) (*Appointment, error) {
			cp := *saved
			cp.Patient = &PatientSummary{ID: cp.PatientID, Surname: "Garcia"}
			return &cp, nil
		},
	}
	cache := newMemoryCache()
	svc, pub := newTestService(repo, Options{Policy: TransitionPolicy{Strict: true}}, cache)

	a, err := svc.Create(context.Background(), CreateAppointmentRequest{PatientID: 1, PractitionerID: 2, Notes: " first "})
	require.NoError(t, err)

	assert.Equal(t, StatePending, saved.State)
	assert.Equal(t, fixedNow, saved.ScheduledAt)
	assert.Equal(t, "first", saved.Notes)
	require.NotNil(t, a.Patient)
	assert.Equal(t, "Garcia", a.Patient.Surname)
	assert.Equal(t, 1, cache.invalidated)
	assert.Equal(t, []string{messaging.EventAppointmentCreated}, pub.keys)
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newTestService(&mockRepository{}, Options{}, nil)

	_, err := svc.Create(context.Background(), CreateAppointmentRequest{State: "done"})
	verrs, ok := validation.As(err)
	require.True(t, ok)
	assert.Contains(t, verrs, "patient_id")
	assert.Contains(t, verrs, "practitioner_id")
	assert.Contains(t, verrs, "state")
}

func TestCreate_UnknownPractitioner(t *testing.T) {
	repo := &mockRepository{
		createFunc: func(ctx context.Context, a *Appointment) error {
			return validation.Field("practitioner_id", "practitioner does not exist")
		},
	}
	svc, pub := newTestService(repo, Options{}, nil)

	_, err := svc.Create(context.Background(), CreateAppointmentRequest{PatientID: 1, PractitionerID: 99})
	verrs, ok := validation.As(err)
	require.True(t, ok)
	assert.Contains(t, verrs, "practitioner_id")
	assert.Empty(t, pub.keys)
}

func TestCreate_ExplicitScheduleAndState(t *testing.T) {
	when := fixedNow.Add(48 * time.Hour)
	var saved *Appointment
	repo := &mockRepository{
		createFunc: func(ctx context.Context, a *Appointment) error {
			saved = a
			return nil
		},
		getFunc: func(ctx context.Context, id int64) (*Appointment, error) { return nil, ErrNotFound },
	}
	svc, _ := newTestService(repo, Options{}, nil)

	a, err := svc.Create(context.Background(), CreateAppointmentRequest{
		PatientID: 1, PractitionerID: 2, ScheduledAt: &when, State: "confirmed",
	})
	require.NoError(t, err)
	assert.Equal(t, when, saved.ScheduledAt)
	assert.Equal(t, StateConfirmed, a.State)
}

func existing(state string) *mockRepository {
	return &mockRepository{
		getFunc: func(ctx context.Context, id int64) (*Appointment, error) {
			return &Appointment{ID: id, PatientID: 1, State: state}, nil
		},
		updateStateNotesFunc: func(ctx context.Context, id int64, from string, req UpdateAppointmentRequest) (*Appointment, error) {
			a := &Appointment{ID: id, PatientID: 1, State: from}
			if req.State != nil {
				a.State = *req.State
			}
			if req.Notes != nil {
				a.Notes = *req.Notes
			}
			return a, nil
		},
	}
}

func strPtr(s string) *string { return &s }

func TestUpdate_StrictTransitions(t *testing.T) {
	svc, pub := newTestService(existing(StateAttended), Options{Policy: TransitionPolicy{Strict: true}}, nil)

	_, err := svc.Update(context.Background(), 1, UpdateAppointmentRequest{State: strPtr(StatePending)})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, pub.keys)
}

func TestUpdate_LenientTransitions(t *testing.T) {
	svc, pub := newTestService(existing(StateAttended), Options{Policy: TransitionPolicy{Strict: false}}, nil)

	a, err := svc.Update(context.Background(), 1, UpdateAppointmentRequest{State: strPtr("pending")})
	require.NoError(t, err)
	assert.Equal(t, StatePending, a.State)
	assert.Equal(t, []string{messaging.EventAppointmentStateChanged}, pub.keys)

	ev := pub.events[0].(messaging.AppointmentStateChangedEvent)
	assert.Equal(t, StateAttended, ev.Data.OldState)
	assert.Equal(t, StatePending, ev.Data.NewState)
}

func TestUpdate_NotesOnlyPublishesNothing(t *testing.T) {
	cache := newMemoryCache()
	svc, pub := newTestService(existing(StatePending), Options{Policy: TransitionPolicy{Strict: true}}, cache)

	a, err := svc.Update(context.Background(), 1, UpdateAppointmentRequest{Notes: strPtr("  bring glasses ")})
	require.NoError(t, err)
	assert.Equal(t, "bring glasses", a.Notes)
	assert.Equal(t, StatePending, a.State)
	assert.Empty(t, pub.keys)
	assert.Equal(t, 1, cache.invalidated)
}

func TestUpdate_InvalidState(t *testing.T) {
	svc, _ := newTestService(existing(StatePending), Options{}, nil)

	_, err := svc.Update(context.Background(), 1, UpdateAppointmentRequest{State: strPtr("DONE")})
	verrs, ok := validation.As(err)
	require.True(t, ok)
	assert.Contains(t, verrs, "state")
}

func TestUpdate_NotFound(t *testing.T) {
	repo := &mockRepository{
		getFunc: func(ctx context.Context, id int64) (*Appointment, error) { return nil, ErrNotFound },
	}
	svc, _ := newTestService(repo, Options{}, nil)

	_, err := svc.Update(context.Background(), 1, UpdateAppointmentRequest{Notes: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_StateAllBypassesFilter(t *testing.T) {
	var got ListFilter
	var gotLimit int
	repo := &mockRepository{
		upcomingFunc: func(ctx context.Context, f ListFilter, now time.Time) ([]Appointment, error) {
			got = f
			assert.Equal(t, fixedNow, now)
			return []Appointment{{ID: 1}}, nil
		},
		recentFunc: func(ctx context.Context, now time.Time, limit int) ([]Appointment, error) {
			gotLimit = limit
			return []Appointment{{ID: 0}}, nil
		},
	}
	svc, _ := newTestService(repo, Options{}, nil)

	agenda, err := svc.List(context.Background(), ListFilter{State: "all"})
	require.NoError(t, err)
	assert.Equal(t, "", got.State)
	assert.Equal(t, RecentLimit, gotLimit)
	assert.Len(t, agenda.Upcoming, 1)
	assert.Len(t, agenda.Recent, 1)

	_, err = svc.List(context.Background(), ListFilter{State: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, got.State)

	_, err = svc.List(context.Background(), ListFilter{State: "bogus"})
	_, ok := validation.As(err)
	assert.True(t, ok)
}

func TestDraft(t *testing.T) {
	svc, _ := newTestService(&mockRepository{}, Options{}, nil)
	id := int64(4)

	d := svc.Draft(&id)
	assert.Equal(t, &id, d.PatientID)
	assert.Equal(t, fixedNow, d.ScheduledAt)
	assert.Equal(t, StatePending, d.State)
	assert.Len(t, d.States, 4)
}

func TestFeed_CachedUntilWrite(t *testing.T) {
	calls := 0
	repo := existing(StatePending)
	repo.feedEntriesFunc = func(ctx context.Context, mode string, now time.Time) ([]Appointment, error) {
		calls++
		assert.Equal(t, config.FeedModeWindow, mode)
		return feedFixture(now), nil
	}
	cache := newMemoryCache()
	svc, _ := newTestService(repo, Options{Policy: TransitionPolicy{Strict: true}}, cache)
	ctx := context.Background()

	first, err := svc.Feed(ctx)
	require.NoError(t, err)
	second, err := svc.Feed(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	_, err = svc.Update(ctx, 1, UpdateAppointmentRequest{State: strPtr(StateConfirmed)})
	require.NoError(t, err)
	_, err = svc.Feed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	var events []FeedEvent
	require.NoError(t, json.Unmarshal(first, &events))
	assert.Len(t, events, 3)
}

func TestFeed_ActiveModeWithoutCache(t *testing.T) {
	repo := &mockRepository{
		feedEntriesFunc: func(ctx context.Context, mode string, now time.Time) ([]Appointment, error) {
			return feedFixture(now), nil
		},
	}
	svc, _ := newTestService(repo, Options{FeedMode: config.FeedModeActive}, nil)

	b, err := svc.Feed(context.Background())
	require.NoError(t, err)
	var events []FeedEvent
	require.NoError(t, json.Unmarshal(b, &events))
	require.Len(t, events, 2)
	for _, e := range events {
		assert.NotEqual(t, "#dc3545", e.Color)
	}
}
