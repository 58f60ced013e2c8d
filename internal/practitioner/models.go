package practitioner

import "time"

// Practitioner is a clinician who sees patients and owns visits and appointments.
type Practitioner struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Surname       string    `json:"surname"`
	LicenseNumber string    `json:"license_number"`
	UserID        *string   `json:"user_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// DisplayName renders "Surname, Name".
func (p Practitioner) DisplayName() string {
	return p.Surname + ", " + p.Name
}

// PractitionerRequest is the body of create and update calls.
// UserID links the practitioner to the subject claim of an operator account.
type PractitionerRequest struct {
	Name          string  `json:"name"`
	Surname       string  `json:"surname"`
	LicenseNumber string  `json:"license_number"`
	UserID        *string `json:"user_id,omitempty"`
}
