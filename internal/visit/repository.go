package visit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/db"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithExam inserts the visit and its exam in one transaction. On success
// v and e carry their generated ids and v.CreatedAt is set.
func (r *Repository) CreateWithExam(ctx context.Context, v *Visit, e *Exam) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO clinical_visits (patient_id, practitioner_id, reason, diagnosis, treatment, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		v.PatientID, nullInt64(v.PractitionerID), v.Reason, v.Diagnosis, v.Treatment, v.Notes,
	).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		if field, ok := db.ForeignKeyViolation(err); ok && field == "patient_id" {
			return ErrPatientNotFound
		}
		return fmt.Errorf("failed to insert clinical visit: %w", err)
	}

	e.VisitID = v.ID
	err = tx.QueryRowContext(ctx, `
		INSERT INTO ophthalmic_exams
		(clinical_visit_id, acuity_right, acuity_left, iop_right, iop_left, slit_lamp, fundus, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		e.VisitID, e.AcuityRight, e.AcuityLeft, e.IOPRight, e.IOPLeft, e.SlitLamp, e.Fundus, e.Notes,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to insert ophthalmic exam: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	v.Exam = e
	return nil
}

const visitSelect = `
	SELECT v.id, v.patient_id, v.practitioner_id, pr.surname || ', ' || pr.name,
	       v.created_at, v.reason, v.diagnosis, v.treatment, v.notes,
	       e.id, e.acuity_right, e.acuity_left, e.iop_right, e.iop_left, e.slit_lamp, e.fundus, e.notes
	FROM clinical_visits v
	LEFT JOIN practitioners pr ON pr.id = v.practitioner_id
	LEFT JOIN ophthalmic_exams e ON e.clinical_visit_id = v.id`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanVisit(s scanner) (*Visit, error) {
	var (
		v      Visit
		prID   sql.NullInt64
		prName sql.NullString
		examID sql.NullInt64
		exam   [7]sql.NullString
	)
	err := s.Scan(
		&v.ID, &v.PatientID, &prID, &prName,
		&v.CreatedAt, &v.Reason, &v.Diagnosis, &v.Treatment, &v.Notes,
		&examID, &exam[0], &exam[1], &exam[2], &exam[3], &exam[4], &exam[5], &exam[6],
	)
	if err != nil {
		return nil, err
	}
	if prID.Valid {
		v.PractitionerID = &prID.Int64
	}
	if prName.Valid {
		v.PractitionerName = &prName.String
	}
	if examID.Valid {
		v.Exam = &Exam{
			ID:          examID.Int64,
			VisitID:     v.ID,
			AcuityRight: exam[0].String,
			AcuityLeft:  exam[1].String,
			IOPRight:    exam[2].String,
			IOPLeft:     exam[3].String,
			SlitLamp:    exam[4].String,
			Fundus:      exam[5].String,
			Notes:       exam[6].String,
		}
	}
	return &v, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (*Visit, error) {
	v, err := scanVisit(r.db.QueryRowContext(ctx, visitSelect+` WHERE v.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVisitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get clinical visit: %w", err)
	}
	return v, nil
}

// GetExam distinguishes a missing visit from a visit recorded without an exam.
func (r *Repository) GetExam(ctx context.Context, visitID int64) (*Exam, error) {
	v, err := r.Get(ctx, visitID)
	if err != nil {
		return nil, err
	}
	if v.Exam == nil {
		return nil, examNotFound(visitID)
	}
	return v.Exam, nil
}

// ListByPatient returns the patient's visits newest first, each with its exam.
func (r *Repository) ListByPatient(ctx context.Context, patientID int64) ([]Visit, error) {
	rows, err := r.db.QueryContext(ctx, visitSelect+`
		WHERE v.patient_id = $1
		ORDER BY v.created_at DESC, v.id DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query clinical visits: %w", err)
	}
	defer rows.Close()

	visits := []Visit{}
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan clinical visit: %w", err)
		}
		visits = append(visits, *v)
	}
	return visits, rows.Err()
}

func (r *Repository) UpdateNarrative(ctx context.Context, id int64, req UpdateVisitRequest) (*Visit, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE clinical_visits
		SET reason    = COALESCE($1, reason),
		    diagnosis = COALESCE($2, diagnosis),
		    treatment = COALESCE($3, treatment),
		    notes     = COALESCE($4, notes)
		WHERE id = $5`,
		nullString(req.Reason), nullString(req.Diagnosis), nullString(req.Treatment), nullString(req.Notes), id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update clinical visit: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrVisitNotFound
	}
	return r.Get(ctx, id)
}

// UpsertExam writes e for e.VisitID, creating the exam row when missing.
func (r *Repository) UpsertExam(ctx context.Context, e *Exam) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO ophthalmic_exams
		(clinical_visit_id, acuity_right, acuity_left, iop_right, iop_left, slit_lamp, fundus, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (clinical_visit_id) DO UPDATE SET
			acuity_right = EXCLUDED.acuity_right,
			acuity_left  = EXCLUDED.acuity_left,
			iop_right    = EXCLUDED.iop_right,
			iop_left     = EXCLUDED.iop_left,
			slit_lamp    = EXCLUDED.slit_lamp,
			fundus       = EXCLUDED.fundus,
			notes        = EXCLUDED.notes
		RETURNING id`,
		e.VisitID, e.AcuityRight, e.AcuityLeft, e.IOPRight, e.IOPLeft, e.SlitLamp, e.Fundus, e.Notes,
	).Scan(&e.ID)
	if err != nil {
		if _, ok := db.ForeignKeyViolation(err); ok {
			return ErrVisitNotFound
		}
		return fmt.Errorf("failed to save ophthalmic exam: %w", err)
	}
	return nil
}

func nullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}
