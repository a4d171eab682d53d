package medicines

import "time"

// Medicine representa un ítem del catálogo de farmacia.
// Stock nunca baja de cero; el único camino que lo descuenta es la
// creación de ventas en el módulo pharmacy.
type Medicine struct {
	ID string

	Name         string
	Type         string
	Description  string
	Manufacturer string

	Stock int
	Unit  string
	Price float64

	CreatedAt time.Time
	UpdatedAt time.Time
}
