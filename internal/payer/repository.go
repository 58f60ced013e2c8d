package payer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/db"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/validation"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPayer(s scanner) (*Payer, error) {
	var p Payer
	var abbr sql.NullString
	if err := s.Scan(&p.ID, &p.Name, &abbr, &p.CreatedAt); err != nil {
		return nil, err
	}
	if abbr.Valid {
		p.Abbreviation = &abbr.String
	}
	return &p, nil
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]Payer, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM insurance_payers`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payers: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, abbreviation, created_at
		FROM insurance_payers
		ORDER BY name, id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query payers: %w", err)
	}
	defer rows.Close()

	payers := []Payer{}
	for rows.Next() {
		p, err := scanPayer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payer: %w", err)
		}
		payers = append(payers, *p)
	}
	return payers, total, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (*Payer, error) {
	p, err := scanPayer(r.db.QueryRowContext(ctx, `
		SELECT id, name, abbreviation, created_at
		FROM insurance_payers
		WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payer: %w", err)
	}
	return p, nil
}

func (r *Repository) Create(ctx context.Context, req PayerRequest) (*Payer, error) {
	p, err := scanPayer(r.db.QueryRowContext(ctx, `
		INSERT INTO insurance_payers (name, abbreviation)
		VALUES ($1, $2)
		RETURNING id, name, abbreviation, created_at`,
		req.Name, nullString(req.Abbreviation)))
	if err != nil {
		return nil, classify(err, "insert")
	}
	return p, nil
}

func (r *Repository) Update(ctx context.Context, id int64, req PayerRequest) (*Payer, error) {
	p, err := scanPayer(r.db.QueryRowContext(ctx, `
		UPDATE insurance_payers
		SET name = $1, abbreviation = $2
		WHERE id = $3
		RETURNING id, name, abbreviation, created_at`,
		req.Name, nullString(req.Abbreviation), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, classify(err, "update")
	}
	return p, nil
}

// Delete removes a payer; patients covered by it keep their records with no payer.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM insurance_payers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete payer: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func classify(err error, op string) error {
	if field, ok := db.UniqueViolation(err); ok {
		return validation.Field(field, fmt.Sprintf("an insurance payer with this %s already exists", field))
	}
	return fmt.Errorf("failed to %s payer: %w", op, err)
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
