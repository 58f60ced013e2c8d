package patient

import (
	"time"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/visit"
)

// PageSize is the fixed number of patients per list page.
const PageSize = 10

const birthDateLayout = "2006-01-02"

// Accepted gender codes.
const (
	GenderMale   = "M"
	GenderFemale = "F"
	GenderOther  = "O"
)

// Patient is a registered patient. RegistrationNumber is derived from the
// storage sequence value and never changes after creation.
type Patient struct {
	ID                 int64      `json:"id"`
	RegistrationNumber string     `json:"registration_number"`
	Surname            string     `json:"surname"`
	Name               string     `json:"name"`
	NationalID         string     `json:"national_id"`
	BirthDate          string     `json:"birth_date"`
	Age                int        `json:"age"`
	Gender             string     `json:"gender"`
	Phone              string     `json:"phone"`
	Address            string     `json:"address"`
	InsurancePayerID   *int64     `json:"insurance_payer_id"`
	InsurancePayerName *string    `json:"insurance_payer_name,omitempty"`
	PayerMemberNumber  *string    `json:"payer_member_number"`
	MedicalHistory     string     `json:"medical_history"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`

	birth time.Time
}

// FullName renders "Surname, Name".
func (p Patient) FullName() string {
	return p.Surname + ", " + p.Name
}

// PatientRequest is the body of create and update. A registration_number sent
// by the client is accepted and ignored.
type PatientRequest struct {
	Surname            string  `json:"surname"`
	Name               string  `json:"name"`
	NationalID         string  `json:"national_id"`
	BirthDate          string  `json:"birth_date"`
	Gender             string  `json:"gender"`
	Phone              string  `json:"phone"`
	Address            string  `json:"address"`
	InsurancePayerID   *int64  `json:"insurance_payer_id,omitempty"`
	PayerMemberNumber  *string `json:"payer_member_number,omitempty"`
	MedicalHistory     string  `json:"medical_history"`
	RegistrationNumber string  `json:"registration_number,omitempty"`
}

// PatientPage is one page of a patient search.
type PatientPage struct {
	Patients   []Patient       `json:"patients"`
	Query      string          `json:"q,omitempty"`
	Pagination pagination.Meta `json:"pagination"`
}

// PatientDetail is a patient with its visit history, newest first.
type PatientDetail struct {
	Patient *Patient      `json:"patient"`
	Visits  []visit.Visit `json:"visits"`
}
