package visit

import (
	"context"
	"errors"
)

type mockRepository struct {
	createWithExamFunc  func(ctx context.Context, v *Visit, e *Exam) error
	getFunc             func(ctx context.Context, id int64) (*Visit, error)
	getExamFunc         func(ctx context.Context, visitID int64) (*Exam, error)
	listByPatientFunc   func(ctx context.Context, patientID int64) ([]Visit, error)
	updateNarrativeFunc func(ctx context.Context, id int64, req UpdateVisitRequest) (*Visit, error)
	upsertExamFunc      func(ctx context.Context, e *Exam) error
}

func (m *mockRepository) CreateWithExam(ctx context.Context, v *Visit, e *Exam) error {
	if m.createWithExamFunc != nil {
		return m.createWithExamFunc(ctx, v, e)
	}
	return errors.New("not implemented")
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*Visit, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) GetExam(ctx context.Context, visitID int64) (*Exam, error) {
	if m.getExamFunc != nil {
		return m.getExamFunc(ctx, visitID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) ListByPatient(ctx context.Context, patientID int64) ([]Visit, error) {
	if m.listByPatientFunc != nil {
		return m.listByPatientFunc(ctx, patientID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) UpdateNarrative(ctx context.Context, id int64, req UpdateVisitRequest) (*Visit, error) {
	if m.updateNarrativeFunc != nil {
		return m.updateNarrativeFunc(ctx, id, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) UpsertExam(ctx context.Context, e *Exam) error {
	if m.upsertExamFunc != nil {
		return m.upsertExamFunc(ctx, e)
	}
	return errors.New("not implemented")
}

type stubResolver struct {
	id  *int64
	err error
	got string
}

func (s *stubResolver) ResolveForUser(_ context.Context, userID string) (*int64, error) {
	s.got = userID
	return s.id, s.err
}

type recordingPublisher struct {
	keys []string
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, _ interface{}) error {
	p.keys = append(p.keys, routingKey)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }
