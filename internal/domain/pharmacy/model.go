package pharmacy

import "time"

// Customer es el cliente de mostrador de la farmacia.
// El teléfono funciona como clave natural: las ventas lo referencian.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	Address   string
	CreatedAt time.Time
}

// SaleItem es una línea de venta: medicamento + cantidad.
// UnitPrice y TotalPrice se fijan con el precio vigente del medicamento
// al momento de crear la venta.
type SaleItem struct {
	MedicineID   string
	MedicineName string
	Quantity     int
	UnitPrice    float64
	TotalPrice   float64
}

// Sale es una venta de farmacia.
// Invariante: Total = Subtotal - Discount, y Subtotal = suma de las
// líneas al momento de la creación.
type Sale struct {
	ID string

	CustomerID    string
	CustomerName  string
	CustomerPhone string

	// SoldBy es el usuario autenticado que registró la venta.
	SoldBy string

	Items []SaleItem

	Subtotal float64
	Discount float64
	Total    float64

	CreatedAt time.Time
}

// MedicineRank es una fila del ranking de medicamentos más vendidos,
// pre-agregada por el store (cantidad e ingresos en el rango pedido).
type MedicineRank struct {
	MedicineID   string
	MedicineName string
	Quantity     int64
	Revenue      float64
}
