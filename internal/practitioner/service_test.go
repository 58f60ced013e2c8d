package practitioner

import (
	"context"
	"errors"
	"testing"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreate_TrimsAndValidates(t *testing.T) {
	var got PractitionerRequest
	repo := &mockRepository{
		createFunc: func(ctx context.Context, req PractitionerRequest) (*Practitioner, error) {
			got = req
			return &Practitioner{ID: 1, Name: req.Name, Surname: req.Surname, LicenseNumber: req.LicenseNumber}, nil
		},
	}
	svc := NewService(repo, zap.NewNop())

	blank := "  "
	p, err := svc.Create(context.Background(), PractitionerRequest{
		Name: " Ana ", Surname: "Lopez", LicenseNumber: " MP-1 ", UserID: &blank,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, "MP-1", got.LicenseNumber)
	assert.Nil(t, got.UserID, "blank user link should be cleared")
}

func TestCreate_MissingFields(t *testing.T) {
	svc := NewService(&mockRepository{}, zap.NewNop())

	_, err := svc.Create(context.Background(), PractitionerRequest{Name: "Ana"})
	verrs, ok := validation.As(err)
	require.True(t, ok)
	assert.Contains(t, verrs, "surname")
	assert.Contains(t, verrs, "license_number")
	assert.NotContains(t, verrs, "name")
}

func TestResolveForUser(t *testing.T) {
	linked := &Practitioner{ID: 7}
	first := &Practitioner{ID: 2}

	tests := []struct {
		name   string
		userID string
		byUser func(ctx context.Context, userID string) (*Practitioner, error)
		first  func(ctx context.Context) (*Practitioner, error)
		want   *int64
		err    bool
	}{
		{
			name:   "linked practitioner wins",
			userID: "sub-1",
			byUser: func(ctx context.Context, userID string) (*Practitioner, error) { return linked, nil },
			want:   &linked.ID,
		},
		{
			name:   "falls back to first in catalog",
			userID: "sub-2",
			byUser: func(ctx context.Context, userID string) (*Practitioner, error) { return nil, ErrNotFound },
			first:  func(ctx context.Context) (*Practitioner, error) { return first, nil },
			want:   &first.ID,
		},
		{
			name:  "empty catalog yields none",
			first: func(ctx context.Context) (*Practitioner, error) { return nil, ErrNotFound },
			want:  nil,
		},
		{
			name:   "lookup error surfaces",
			userID: "sub-3",
			byUser: func(ctx context.Context, userID string) (*Practitioner, error) { return nil, errors.New("db down") },
			err:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&mockRepository{getByUserIDFunc: tt.byUser, firstFunc: tt.first}, zap.NewNop())
			got, err := svc.ResolveForUser(context.Background(), tt.userID)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
