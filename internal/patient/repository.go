package patient

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/db"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/registration"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/validation"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `
	p.id, p.registration_seq, p.surname, p.name, p.national_id, p.birth_date, p.gender,
	p.phone, p.address, p.insurance_payer_id, ip.name, p.payer_member_number,
	p.medical_history, p.created_at, p.updated_at`

const fromPatients = `
	FROM patients p
	LEFT JOIN insurance_payers ip ON ip.id = p.insurance_payer_id`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPatient(s scanner) (*Patient, error) {
	var (
		p         Patient
		seq       int64
		payerID   sql.NullInt64
		payerName sql.NullString
		member    sql.NullString
		updatedAt sql.NullTime
	)
	err := s.Scan(
		&p.ID, &seq, &p.Surname, &p.Name, &p.NationalID, &p.birth, &p.Gender,
		&p.Phone, &p.Address, &payerID, &payerName, &member,
		&p.MedicalHistory, &p.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.RegistrationNumber = registration.Format(seq)
	p.BirthDate = p.birth.Format(birthDateLayout)
	if payerID.Valid {
		p.InsurancePayerID = &payerID.Int64
	}
	if payerName.Valid {
		p.InsurancePayerName = &payerName.String
	}
	if member.Valid {
		p.PayerMemberNumber = &member.String
	}
	if updatedAt.Valid {
		p.UpdatedAt = &updatedAt.Time
	}
	return &p, nil
}

// Create draws the registration value from assigner and inserts the patient in
// one transaction. A rejected insert rolls the draw back with it.
func (r *Repository) Create(ctx context.Context, assigner RegistrationAssigner, req PatientRequest) (*Patient, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	seq := assigner.Assign(ctx, tx)

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO patients
		(registration_seq, surname, name, national_id, birth_date, gender, phone, address,
		 insurance_payer_id, payer_member_number, medical_history)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		seq, req.Surname, req.Name, req.NationalID, req.BirthDate, req.Gender, req.Phone, req.Address,
		nullInt64(req.InsurancePayerID), nullString(req.PayerMemberNumber), req.MedicalHistory,
	).Scan(&id)
	if err != nil {
		return nil, classify(err, "insert")
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit patient: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *Repository) Get(ctx context.Context, id int64) (*Patient, error) {
	p, err := scanPatient(r.db.QueryRowContext(ctx, `SELECT`+selectColumns+fromPatients+` WHERE p.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return p, nil
}

// Search returns one page of patients ordered by surname and name together
// with the total number of matches. A blank q matches every patient.
func (r *Repository) Search(ctx context.Context, q string, limit, offset int) ([]Patient, int, error) {
	where, args := searchClause(q)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT p.id) FROM patients p`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT DISTINCT%s%s%s
		ORDER BY p.surname, p.name, p.id
		LIMIT $%d OFFSET $%d`, selectColumns, fromPatients, where, n+1, n+2)
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query patients: %w", err)
	}
	defer rows.Close()

	patients := []Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating patients: %w", err)
	}
	return patients, total, nil
}

// searchClause matches q against national ID, surname, name and the padded
// registration number, case-insensitively.
func searchClause(q string) (string, []interface{}) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", nil
	}
	return `
		WHERE p.national_id ILIKE $1
		   OR p.surname ILIKE $1
		   OR p.name ILIKE $1
		   OR lpad(p.registration_seq::text, 6, '0') ILIKE $1`,
		[]interface{}{"%" + escapeLike(q) + "%"}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Update rewrites the demographic fields; registration_seq is never touched.
func (r *Repository) Update(ctx context.Context, id int64, req PatientRequest) (*Patient, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE patients
		SET surname = $1, name = $2, national_id = $3, birth_date = $4, gender = $5,
		    phone = $6, address = $7, insurance_payer_id = $8, payer_member_number = $9,
		    medical_history = $10, updated_at = NOW()
		WHERE id = $11`,
		req.Surname, req.Name, req.NationalID, req.BirthDate, req.Gender,
		req.Phone, req.Address, nullInt64(req.InsurancePayerID), nullString(req.PayerMemberNumber),
		req.MedicalHistory, id,
	)
	if err != nil {
		return nil, classify(err, "update")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

func classify(err error, op string) error {
	if field, ok := db.UniqueViolation(err); ok {
		switch field {
		case "national_id":
			return validation.Field("national_id", "a patient with this national ID already exists")
		case "registration_seq":
			return validation.Field("registration_number", "registration number already assigned")
		}
	}
	if field, ok := db.ForeignKeyViolation(err); ok && field == "insurance_payer_id" {
		return validation.Field("insurance_payer_id", "insurance payer does not exist")
	}
	return fmt.Errorf("failed to %s patient: %w", op, err)
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
