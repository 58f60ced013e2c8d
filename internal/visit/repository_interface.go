package visit

import "context"

// RepositoryInterface defines the contract for visit and exam persistence
type RepositoryInterface interface {
	CreateWithExam(ctx context.Context, v *Visit, e *Exam) error
	Get(ctx context.Context, id int64) (*Visit, error)
	GetExam(ctx context.Context, visitID int64) (*Exam, error)
	ListByPatient(ctx context.Context, patientID int64) ([]Visit, error)
	UpdateNarrative(ctx context.Context, id int64, req UpdateVisitRequest) (*Visit, error)
	UpsertExam(ctx context.Context, e *Exam) error
}

var _ RepositoryInterface = (*Repository)(nil)
