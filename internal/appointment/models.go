package appointment

import "time"

// Appointment is a scheduled visit slot. Patient, practitioner and time are
// fixed once booked; only State and Notes change afterwards.
type Appointment struct {
	ID               int64           `json:"id"`
	PatientID        int64           `json:"patient_id"`
	PractitionerID   int64           `json:"practitioner_id"`
	PractitionerName string          `json:"practitioner_name,omitempty"`
	Patient          *PatientSummary `json:"patient,omitempty"`
	ScheduledAt      time.Time       `json:"scheduled_at"`
	State            string          `json:"state"`
	Notes            string          `json:"notes"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        *time.Time      `json:"updated_at,omitempty"`
}

type PatientSummary struct {
	ID                 int64  `json:"id"`
	RegistrationNumber string `json:"registration_number"`
	Surname            string `json:"surname"`
	Name               string `json:"name"`
	NationalID         string `json:"national_id"`
	Phone              string `json:"phone"`
}

// CreateAppointmentRequest books an appointment. ScheduledAt defaults to now
// and State to PENDING.
type CreateAppointmentRequest struct {
	PatientID      int64      `json:"patient_id"`
	PractitionerID int64      `json:"practitioner_id"`
	ScheduledAt    *time.Time `json:"scheduled_at,omitempty"`
	State          string     `json:"state,omitempty"`
	Notes          string     `json:"notes"`
}

// UpdateAppointmentRequest carries the only editable fields. Any other field
// in the body is ignored.
type UpdateAppointmentRequest struct {
	State *string `json:"state,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

// ListFilter narrows the agenda. A zero value lists every upcoming appointment.
type ListFilter struct {
	Day            *time.Time
	PractitionerID *int64
	State          string
}

// Agenda is the appointment list view.
type Agenda struct {
	Upcoming []Appointment `json:"appointments"`
	Recent   []Appointment `json:"recent"`
}

// Draft pre-fills the booking form.
type Draft struct {
	PatientID   *int64    `json:"patient_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	State       string    `json:"state"`
	States      []string  `json:"states"`
}

// RecentLimit caps the past appointments shown under the agenda.
const RecentLimit = 15
