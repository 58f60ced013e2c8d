package visit

import (
	"errors"
	"fmt"
)

var (
	ErrPatientNotFound  = errors.New("patient not found")
	ErrVisitNotFound    = errors.New("clinical visit not found")
	ErrExamNotFound     = errors.New("no ophthalmic exam found for clinical visit")
	ErrRecordsImmutable = errors.New("clinical records cannot be modified once created")
)

func examNotFound(visitID int64) error {
	return fmt.Errorf("%w #%d", ErrExamNotFound, visitID)
}
