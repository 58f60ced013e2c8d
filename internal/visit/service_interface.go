package visit

import "context"

// ServiceInterface defines the contract for clinical visit operations
type ServiceInterface interface {
	Create(ctx context.Context, patientID int64, userID string, req CreateVisitRequest) (*Visit, error)
	GetExam(ctx context.Context, visitID int64) (*Exam, error)
	ListByPatient(ctx context.Context, patientID int64) ([]Visit, error)
	Update(ctx context.Context, id int64, req UpdateVisitRequest) (*Visit, error)
	UpdateExam(ctx context.Context, visitID int64, req ExamRequest) (*Exam, error)
}

// PractitionerResolver picks the practitioner credited with a new visit.
type PractitionerResolver interface {
	ResolveForUser(ctx context.Context, userID string) (*int64, error)
}

// MetricsRecorder counts visit operations.
type MetricsRecorder interface {
	RecordVisitOperation(ctx context.Context, operation string)
}

var _ ServiceInterface = (*Service)(nil)
