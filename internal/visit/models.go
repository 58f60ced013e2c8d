package visit

import "time"

// Visit is one clinical encounter. CreatedAt is assigned by the database and
// never changes; the patient and practitioner are fixed at creation.
type Visit struct {
	ID               int64     `json:"id"`
	PatientID        int64     `json:"patient_id"`
	PractitionerID   *int64    `json:"practitioner_id"`
	PractitionerName *string   `json:"practitioner_name,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	Reason           string    `json:"reason"`
	Diagnosis        string    `json:"diagnosis"`
	Treatment        string    `json:"treatment"`
	Notes            string    `json:"notes"`
	Exam             *Exam     `json:"exam,omitempty"`
}

// Exam holds the ophthalmic findings of a visit; there is at most one per visit.
type Exam struct {
	ID          int64  `json:"id"`
	VisitID     int64  `json:"clinical_visit_id"`
	AcuityRight string `json:"acuity_right"`
	AcuityLeft  string `json:"acuity_left"`
	IOPRight    string `json:"iop_right"`
	IOPLeft     string `json:"iop_left"`
	SlitLamp    string `json:"slit_lamp"`
	Fundus      string `json:"fundus"`
	Notes       string `json:"notes"`
}

// ExamRequest carries exam fields. Acuity values are blank or a 0.25 step up to 20.
type ExamRequest struct {
	AcuityRight string `json:"acuity_right"`
	AcuityLeft  string `json:"acuity_left"`
	IOPRight    string `json:"iop_right"`
	IOPLeft     string `json:"iop_left"`
	SlitLamp    string `json:"slit_lamp"`
	Fundus      string `json:"fundus"`
	ExamNotes   string `json:"exam_notes"`
}

// CreateVisitRequest is the flat body used to open a visit together with its exam.
type CreateVisitRequest struct {
	Reason    string `json:"reason"`
	Diagnosis string `json:"diagnosis"`
	Treatment string `json:"treatment"`
	Notes     string `json:"notes"`
	ExamRequest
}

// UpdateVisitRequest changes narrative fields only; nil leaves a field as is.
type UpdateVisitRequest struct {
	Reason    *string `json:"reason,omitempty"`
	Diagnosis *string `json:"diagnosis,omitempty"`
	Treatment *string `json:"treatment,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// Narrative placeholders for visits opened without them.
const (
	DefaultReason    = "Initial record"
	DefaultDiagnosis = "Pending evaluation"
	DefaultTreatment = "Pending treatment"
)
