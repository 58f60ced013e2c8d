package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRepositorySummary(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	now := time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM clinical_visits WHERE created_at >= $1")).
		WithArgs(time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC), now, time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)).
		WillReturnRows(sqlmock.NewRows([]string{"patients", "visits", "appointments"}).AddRow(120, 34, 9))

	s, err := NewRepository(sqlDB).Summary(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 120, s.TotalPatients)
	assert.Equal(t, 34, s.RecentVisits)
	assert.Equal(t, 9, s.UpcomingAppointments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type stubCounter struct {
	summary *Summary
	err     error
}

func (s stubCounter) Summary(context.Context, time.Time) (*Summary, error) {
	return s.summary, s.err
}

func TestHandlerGet(t *testing.T) {
	h := NewHandler(stubCounter{summary: &Summary{TotalPatients: 3}}, zap.NewNop())
	rec := httptest.NewRecorder()

	h.Get(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Dashboard Summary `json:"dashboard"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Dashboard.TotalPatients)
}

func TestHandlerGet_Failure(t *testing.T) {
	h := NewHandler(stubCounter{err: errors.New("db down")}, zap.NewNop())
	rec := httptest.NewRecorder()

	h.Get(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}
