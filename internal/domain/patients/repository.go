package patients

import (
	"context"
	"time"
)

// Repository contrato del store. Los adapters devuelven ErrNotFound
// cuando el registro no existe; cualquier otra falla se devuelve tal cual.
type Repository interface {
	Create(ctx context.Context, p Patient) error
	Update(ctx context.Context, p Patient) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Patient, error)
	List(ctx context.Context) ([]Patient, error)

	// Consultas que usa reportes.
	CountAll(ctx context.Context) (int64, error)
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]Patient, error)
}
