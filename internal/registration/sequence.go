// Package registration assigns the internal registration numbers printed on patient records.
package registration

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Tx is the part of *sql.Tx a Sequence needs. The value must be drawn in
// the transaction that inserts the patient so a failed insert gives it back.
type Tx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Sequence hands out strictly increasing registration values.
type Sequence interface {
	Next(ctx context.Context, tx Tx) (int64, error)
}

// CounterTable increments the single row of patient_registration_counter.
// The row lock serializes concurrent creations until the transaction ends,
// and a rollback restores the previous value, so committed numbers stay dense.
type CounterTable struct{}

func NewCounterTable() CounterTable {
	return CounterTable{}
}

// Next runs under a savepoint so a failed read leaves tx usable for the
// fallback value.
func (CounterTable) Next(ctx context.Context, tx Tx) (int64, error) {
	if _, err := tx.ExecContext(ctx, `SAVEPOINT registration_counter`); err != nil {
		return 0, fmt.Errorf("registration savepoint: %w", err)
	}
	var n int64
	err := tx.QueryRowContext(ctx, `
		UPDATE patient_registration_counter
		SET last_value = last_value + 1
		WHERE id = 1
		RETURNING last_value`).Scan(&n)
	if err != nil {
		if _, rbErr := tx.ExecContext(ctx, `ROLLBACK TO SAVEPOINT registration_counter`); rbErr != nil {
			return 0, fmt.Errorf("next registration value: %w (rollback to savepoint: %v)", err, rbErr)
		}
		return 0, fmt.Errorf("next registration value: %w", err)
	}
	return n, nil
}

// Counter is an in-memory Sequence for tests and fixtures. It ignores tx and
// cannot give a value back, so callers draw only once an insert will succeed.
type Counter struct {
	mu   sync.Mutex
	last int64
}

// NewCounter returns a Counter whose next value is last+1.
func NewCounter(last int64) *Counter {
	return &Counter{last: last}
}

func (c *Counter) Next(_ context.Context, _ Tx) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last++
	return c.last, nil
}

// Assigner picks the registration value for a new patient.
type Assigner struct {
	seq    Sequence
	logger *zap.Logger
}

func NewAssigner(seq Sequence, logger *zap.Logger) *Assigner {
	return &Assigner{seq: seq, logger: logger}
}

// Assign returns the next value drawn in tx, or 1 if the sequence cannot be
// read. A fallback that collides with an existing patient is rejected by the
// unique constraint on registration_seq.
func (a *Assigner) Assign(ctx context.Context, tx Tx) int64 {
	n, err := a.seq.Next(ctx, tx)
	if err != nil || n < 1 {
		a.logger.Warn("registration sequence unavailable, falling back to 1", zap.Error(err))
		return 1
	}
	return n
}

// Format renders seq as the six-digit registration number.
func Format(seq int64) string {
	return fmt.Sprintf("%06d", seq)
}

// Parse reads a registration number such as "000042".
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty registration number")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid registration number %q", s)
	}
	return n, nil
}
