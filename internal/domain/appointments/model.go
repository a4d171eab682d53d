package appointments

import "time"

// Status define los estados de una cita.
// Reportes solo distingue completed / cancelled / no-show; el resto
// cuenta únicamente en el total.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no-show"
)

// Appointment representa una cita odontológica.
type Appointment struct {
	ID        string
	PatientID string

	Date      time.Time
	StartTime string // HH:MM
	EndTime   string // HH:MM

	Type   string // etiqueta de procedimiento (cleaning, filling, ...)
	Status Status
	Notes  string

	// Monto facturado; nil mientras la cita no se cobra.
	// Para sumas de ingresos, nil vale 0.
	Amount *float64

	CreatedAt time.Time
}
