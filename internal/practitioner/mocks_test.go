package practitioner

import (
	"context"
	"errors"
)

type mockRepository struct {
	listFunc        func(ctx context.Context, limit, offset int) ([]Practitioner, int, error)
	getFunc         func(ctx context.Context, id int64) (*Practitioner, error)
	getByUserIDFunc func(ctx context.Context, userID string) (*Practitioner, error)
	firstFunc       func(ctx context.Context) (*Practitioner, error)
	createFunc      func(ctx context.Context, req PractitionerRequest) (*Practitioner, error)
	updateFunc      func(ctx context.Context, id int64, req PractitionerRequest) (*Practitioner, error)
	deleteFunc      func(ctx context.Context, id int64) error
}

func (m *mockRepository) List(ctx context.Context, limit, offset int) ([]Practitioner, int, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return nil, 0, errors.New("not implemented")
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*Practitioner, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) GetByUserID(ctx context.Context, userID string) (*Practitioner, error) {
	if m.getByUserIDFunc != nil {
		return m.getByUserIDFunc(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) First(ctx context.Context) (*Practitioner, error) {
	if m.firstFunc != nil {
		return m.firstFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) Create(ctx context.Context, req PractitionerRequest) (*Practitioner, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) Update(ctx context.Context, id int64, req PractitionerRequest) (*Practitioner, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errors.New("not implemented")
}
