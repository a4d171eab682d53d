package appointments

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a Appointment) error
	Update(ctx context.Context, a Appointment) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Appointment, error)
	List(ctx context.Context) ([]Appointment, error)

	ListByPatient(ctx context.Context, patientID string) ([]Appointment, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]Appointment, error)

	// Pacientes con más de una cita dentro del rango (query agrupada
	// con HAVING COUNT > 1 en el adapter de postgres).
	CountPatientsWithMultipleAppointments(ctx context.Context, from, to time.Time) (int64, error)
}
