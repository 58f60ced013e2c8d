package practitioner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/db"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/validation"
)

const selectColumns = `id, name, surname, license_number, user_id, created_at`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPractitioner(s scanner) (*Practitioner, error) {
	var p Practitioner
	var userID sql.NullString
	if err := s.Scan(&p.ID, &p.Name, &p.Surname, &p.LicenseNumber, &userID, &p.CreatedAt); err != nil {
		return nil, err
	}
	if userID.Valid {
		p.UserID = &userID.String
	}
	return &p, nil
}

// List returns one page of the catalog in surname, name order and the catalog size.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Practitioner, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM practitioners`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count practitioners: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM practitioners ORDER BY surname, name, id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query practitioners: %w", err)
	}
	defer rows.Close()

	practitioners := []Practitioner{}
	for rows.Next() {
		p, err := scanPractitioner(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan practitioner: %w", err)
		}
		practitioners = append(practitioners, *p)
	}
	return practitioners, total, rows.Err()
}

func (r *Repository) getOne(ctx context.Context, where string, arg interface{}) (*Practitioner, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM practitioners WHERE `+where, arg)
	p, err := scanPractitioner(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get practitioner: %w", err)
	}
	return p, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (*Practitioner, error) {
	return r.getOne(ctx, `id = $1`, id)
}

func (r *Repository) GetByUserID(ctx context.Context, userID string) (*Practitioner, error) {
	return r.getOne(ctx, `user_id = $1`, userID)
}

// First returns the practitioner that sorts first by surname and name.
func (r *Repository) First(ctx context.Context) (*Practitioner, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM practitioners ORDER BY surname, name, id LIMIT 1`)
	p, err := scanPractitioner(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get first practitioner: %w", err)
	}
	return p, nil
}

func (r *Repository) Create(ctx context.Context, req PractitionerRequest) (*Practitioner, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO practitioners (name, surname, license_number, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+selectColumns,
		req.Name, req.Surname, req.LicenseNumber, nullString(req.UserID),
	)
	p, err := scanPractitioner(row)
	if err != nil {
		return nil, classify(err, "insert")
	}
	return p, nil
}

func (r *Repository) Update(ctx context.Context, id int64, req PractitionerRequest) (*Practitioner, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE practitioners
		SET name = $1, surname = $2, license_number = $3, user_id = $4
		WHERE id = $5
		RETURNING `+selectColumns,
		req.Name, req.Surname, req.LicenseNumber, nullString(req.UserID), id,
	)
	p, err := scanPractitioner(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, classify(err, "update")
	}
	return p, nil
}

// Delete removes a practitioner. Visits and appointments restrict the delete.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM practitioners WHERE id = $1`, id)
	if err != nil {
		if _, ok := db.ForeignKeyViolation(err); ok {
			return ErrStillReferenced
		}
		return fmt.Errorf("failed to delete practitioner: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete practitioner: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func classify(err error, op string) error {
	if field, ok := db.UniqueViolation(err); ok {
		return validation.Field(field, fmt.Sprintf("a practitioner with this %s already exists", field))
	}
	return fmt.Errorf("failed to %s practitioner: %w", op, err)
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
