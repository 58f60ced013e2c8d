//go:build integration

package e2e

import (
	"crypto/rsa"
	"database/sql"
	"net/http/httptest"
	"testing"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/auth"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/config"
	httpserver "github.com/WailSalutem-Health-Care/clinic-service/internal/http"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/testutil"
	"go.uber.org/zap"
)

// TestServer is the full router over a real PostgreSQL database.
type TestServer struct {
	Server        *httptest.Server
	DB            *sql.DB
	MockPublisher *testutil.MockPublisher
	PrivateKey    *rsa.PrivateKey
}

// SetupE2ETest migrates and empties the test database, then serves every
// route with an in-memory publisher and no feed cache.
func SetupE2ETest(t *testing.T) *TestServer {
	t.Helper()

	db := testutil.SetupTestDB(t)
	testutil.CleanupTestDB(t, db)

	mockPublisher := testutil.NewMockPublisher()

	perms, err := auth.LoadPermissions("../../permissions.yml")
	if err != nil {
		t.Fatalf("Failed to load permissions: %v", err)
	}

	verifier, privateKey := testutil.CreateTestVerifier(t)
	logger := zap.NewNop()

	cfg := &config.Config{
		Env:                          "test",
		ServiceName:                  "clinic-service",
		AllowedOrigins:               "http://localhost:3000",
		AppointmentStrictTransitions: true,
		AppointmentFeedMode:          config.FeedModeWindow,
	}

	router := httpserver.SetupRouter(httpserver.Dependencies{
		DB:        db,
		Config:    cfg,
		Guard:     auth.NewGuard(verifier, perms, logger, nil),
		Publisher: mockPublisher,
		Logger:    logger,
	})

	return &TestServer{
		Server:        httptest.NewServer(router),
		DB:            db,
		MockPublisher: mockPublisher,
		PrivateKey:    privateKey,
	}
}

// Cleanup cleans up all test resources
func (ts *TestServer) Cleanup(t *testing.T) {
	t.Helper()

	ts.Server.Close()
	testutil.CleanupTestDB(t, ts.DB)
	ts.DB.Close()
}

func (ts *TestServer) AdminClient(t *testing.T) *testutil.HTTPTestClient {
	t.Helper()
	return ts.NewClient(testutil.GenerateAdminToken(t, ts.PrivateKey))
}

// NewClient creates a new HTTP test client for this server with the given token
func (ts *TestServer) NewClient(token string) *testutil.HTTPTestClient {
	return testutil.NewHTTPTestClient(ts.Server.URL, token)
}

type patientResult struct {
	Success bool `json:"success"`
	Patient struct {
		ID                 int64  `json:"id"`
		RegistrationNumber string `json:"registration_number"`
		Surname            string `json:"surname"`
		Age                int    `json:"age"`
	} `json:"patient"`
	Next string `json:"next"`
}

// createPatient registers a patient through the API and returns the decoded response.
func createPatient(t *testing.T, client *testutil.HTTPTestClient, surname, nationalID string) patientResult {
	t.Helper()

	resp := client.POST(t, "/patients", map[string]interface{}{
		"surname":     surname,
		"name":        "Test",
		"national_id": nationalID,
		"birth_date":  "1980-01-15",
		"gender":      "F",
		"phone":       "+54 11 5555 0000",
		"address":     "Av. Siempre Viva 742",
	})
	testutil.AssertStatusCode(t, resp, 201)

	var out patientResult
	testutil.DecodeJSON(t, resp, &out)
	return out
}
