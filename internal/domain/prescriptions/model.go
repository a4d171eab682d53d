package prescriptions

import "time"

// PrescriptionItem indica un medicamento recetado y su pauta.
type PrescriptionItem struct {
	MedicineID   string
	MedicineName string
	Dosage       string
	Frequency    string
	Duration     string
	Quantity     int
}

// Prescription es la receta emitida tras una cita.
type Prescription struct {
	ID            string
	PatientID     string
	AppointmentID string

	Items []PrescriptionItem
	Notes string

	CreatedAt time.Time
}
