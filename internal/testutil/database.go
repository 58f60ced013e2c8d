package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/db"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultTestDSN = "host=localhost port=5432 user=clinic password=clinic dbname=clinic_test sslmode=disable"

// SetupTestDB connects to the test database and applies all migrations.
// TEST_DATABASE_DSN overrides the local default.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	connStr := os.Getenv("TEST_DATABASE_DSN")
	if connStr == "" {
		connStr = defaultTestDSN
	}

	database, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := database.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	if _, err := db.NewMigrator(database, db.Migrations(), zap.NewNop()).Up(context.Background()); err != nil {
		database.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return database
}

// CleanupTestDB empties every table and resets the registration counter,
// so the next patient created is registration number 000001.
func CleanupTestDB(t *testing.T, database *sql.DB) {
	t.Helper()

	_, err := database.Exec(`
		TRUNCATE TABLE appointments, ophthalmic_exams, clinical_visits, patients,
			practitioners, insurance_payers RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Logf("Warning: Failed to truncate tables: %v", err)
	}
	if _, err := database.Exec(`UPDATE patient_registration_counter SET last_value = 0 WHERE id = 1`); err != nil {
		t.Logf("Warning: Failed to reset registration counter: %v", err)
	}
}

// CreateTestPractitioner inserts a practitioner linked to userID and returns its id.
func CreateTestPractitioner(t *testing.T, database *sql.DB, surname, license, userID string) int64 {
	t.Helper()

	var id int64
	err := database.QueryRow(`
		INSERT INTO practitioners (name, surname, license_number, user_id)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING id`, "Test", surname, license, userID).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test practitioner: %v", err)
	}
	return id
}

// CreateTestPayer inserts an insurance payer and returns its id.
func CreateTestPayer(t *testing.T, database *sql.DB, name string) int64 {
	t.Helper()

	var id int64
	if err := database.QueryRow(`INSERT INTO insurance_payers (name) VALUES ($1) RETURNING id`, name).Scan(&id); err != nil {
		t.Fatalf("Failed to create test payer: %v", err)
	}
	return id
}
