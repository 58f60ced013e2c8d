package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Routing keys on the clinic.events exchange.
const (
	EventPatientCreated          = "patient.created"
	EventPatientUpdated          = "patient.updated"
	EventVisitCreated            = "visit.created"
	EventAppointmentCreated      = "appointment.created"
	EventAppointmentStateChanged = "appointment.state_changed"
)

const serviceName = "clinic-service"

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType   string    `json:"event_type"`
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
}

func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType:   eventType,
		EventID:     uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		ServiceName: serviceName,
	}
}

type PatientEvent struct {
	BaseEvent
	Data PatientData `json:"data"`
}

type PatientData struct {
	PatientID          int64     `json:"patient_id"`
	RegistrationNumber string    `json:"registration_number"`
	Surname            string    `json:"surname"`
	Name               string    `json:"name"`
	NationalID         string    `json:"national_id"`
	OccurredAt         time.Time `json:"occurred_at"`
}

// NewPatientEvent builds a patient.created or patient.updated event.
func NewPatientEvent(eventType string, data PatientData) PatientEvent {
	return PatientEvent{BaseEvent: NewBaseEvent(eventType), Data: data}
}

type VisitCreatedEvent struct {
	BaseEvent
	Data VisitCreatedData `json:"data"`
}

type VisitCreatedData struct {
	VisitID        int64     `json:"visit_id"`
	PatientID      int64     `json:"patient_id"`
	PractitionerID *int64    `json:"practitioner_id,omitempty"`
	ExamID         int64     `json:"exam_id"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewVisitCreatedEvent(data VisitCreatedData) VisitCreatedEvent {
	return VisitCreatedEvent{BaseEvent: NewBaseEvent(EventVisitCreated), Data: data}
}

type AppointmentCreatedEvent struct {
	BaseEvent
	Data AppointmentCreatedData `json:"data"`
}

type AppointmentCreatedData struct {
	AppointmentID  int64     `json:"appointment_id"`
	PatientID      int64     `json:"patient_id"`
	PractitionerID int64     `json:"practitioner_id"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	State          string    `json:"state"`
}

func NewAppointmentCreatedEvent(data AppointmentCreatedData) AppointmentCreatedEvent {
	return AppointmentCreatedEvent{BaseEvent: NewBaseEvent(EventAppointmentCreated), Data: data}
}

type AppointmentStateChangedEvent struct {
	BaseEvent
	Data AppointmentStateChangedData `json:"data"`
}

type AppointmentStateChangedData struct {
	AppointmentID int64     `json:"appointment_id"`
	PatientID     int64     `json:"patient_id"`
	OldState      string    `json:"old_state"`
	NewState      string    `json:"new_state"`
	ChangedAt     time.Time `json:"changed_at"`
}

func NewAppointmentStateChangedEvent(data AppointmentStateChangedData) AppointmentStateChangedEvent {
	return AppointmentStateChangedEvent{BaseEvent: NewBaseEvent(EventAppointmentStateChanged), Data: data}
}
