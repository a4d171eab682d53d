package pharmacy

import (
	"context"
	"errors"
	"time"
)

// Errores que los adapters deben devolver desde CreateSale para que el
// handler pueda distinguir fallas de referencia y de stock.
var (
	ErrMedicineNotFound  = errors.New("medicine not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type CustomerRepository interface {
	CreateCustomer(ctx context.Context, c Customer) error
	GetCustomerByPhone(ctx context.Context, phone string) (Customer, error)
}

type SaleRepository interface {
	// CreateSale ejecuta la unidad atómica de la venta: dentro de una
	// misma transacción valida cada línea contra el stock vigente,
	// fija precios, descuenta stock y persiste la venta. Si cualquier
	// línea falla (ErrMedicineNotFound / ErrInsufficientStock) no debe
	// quedar ningún descuento aplicado.
	//
	// Recibe la venta con Items solo con MedicineID y Quantity, y la
	// devuelve completa (nombres, precios, subtotal y total).
	CreateSale(ctx context.Context, s Sale) (Sale, error)

	GetSaleByID(ctx context.Context, id string) (Sale, error)
	ListSales(ctx context.Context) ([]Sale, error)
	ListSalesBetween(ctx context.Context, from, to time.Time) ([]Sale, error)

	// TopSellingMedicines devuelve el ranking pre-agregado por cantidad
	// e ingresos dentro del rango de timestamps.
	TopSellingMedicines(ctx context.Context, from, to time.Time) ([]MedicineRank, error)
}

type Repository interface {
	CustomerRepository
	SaleRepository
}
