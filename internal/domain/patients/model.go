package patients

import "time"

// Gender se guarda como string libre; los valores típicos del frontend
// son "male", "female" y "other", pero reportes agrupa por valor literal.
type Gender = string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Patient representa la ficha básica de un paciente de la clínica.
type Patient struct {
	ID string

	FirstName string
	LastName  string
	Email     string
	Phone     string

	DateOfBirth time.Time
	Gender      Gender
	Address     string

	MedicalHistory string
	InsuranceInfo  string

	CreatedAt time.Time
	LastVisit *time.Time
}
