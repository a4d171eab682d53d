package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"dentalcare-backend/internal/domain/pharmacy"
)

// PharmacyRepo guarda clientes y ventas. Comparte el MedicineRepo para
// que el descuento de stock de una venta sea la misma unidad que en el
// adapter de postgres.
type PharmacyRepo struct {
	mu        sync.RWMutex
	customers map[string]pharmacy.Customer // por teléfono
	sales     map[string]pharmacy.Sale

	medicines *MedicineRepo
}

func NewPharmacyRepo(meds *MedicineRepo) *PharmacyRepo {
	return &PharmacyRepo{
		customers: make(map[string]pharmacy.Customer),
		sales:     make(map[string]pharmacy.Sale),
		medicines: meds,
	}
}

func (r *PharmacyRepo) CreateCustomer(ctx context.Context, c pharmacy.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.Phone) == "" {
		return errors.New("customer phone required")
	}
	if _, exists := r.customers[c.Phone]; exists {
		return errors.New("customer already exists")
	}
	r.customers[c.Phone] = c
	return nil
}

func (r *PharmacyRepo) GetCustomerByPhone(ctx context.Context, phone string) (pharmacy.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.customers[phone]
	if !ok {
		return pharmacy.Customer{}, pharmacy.ErrCustomerNotFound
	}
	return c, nil
}

func (r *PharmacyRepo) CreateSale(ctx context.Context, s pharmacy.Sale) (pharmacy.Sale, error) {
	// El descuento de stock valida y aplica bajo un solo lock; si algo
	// falla no se tocó nada y la venta no se guarda.
	snapshots, err := r.medicines.applySaleItems(s.Items)
	if err != nil {
		return pharmacy.Sale{}, err
	}

	var subtotal float64
	for i, it := range s.Items {
		m := snapshots[it.MedicineID]
		s.Items[i].MedicineName = m.Name
		s.Items[i].UnitPrice = m.Price
		s.Items[i].TotalPrice = m.Price * float64(it.Quantity)
		subtotal += s.Items[i].TotalPrice
	}
	s.Subtotal = subtotal
	s.Total = subtotal - s.Discount
	if s.Total < 0 {
		s.Total = 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sales[s.ID] = s
	return s, nil
}

func (r *PharmacyRepo) GetSaleByID(ctx context.Context, id string) (pharmacy.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sales[id]
	if !ok {
		return pharmacy.Sale{}, pharmacy.ErrNotFound
	}
	return s, nil
}

func (r *PharmacyRepo) ListSales(ctx context.Context) ([]pharmacy.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pharmacy.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *PharmacyRepo) ListSalesBetween(ctx context.Context, from, to time.Time) ([]pharmacy.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pharmacy.Sale, 0)
	for _, s := range r.sales {
		if s.CreatedAt.Before(from) || s.CreatedAt.After(to) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// TopSellingMedicines agrega cantidad e ingresos por medicamento en el
// rango, ordenado por cantidad descendente, igual que la query del
// adapter de postgres.
func (r *PharmacyRepo) TopSellingMedicines(ctx context.Context, from, to time.Time) ([]pharmacy.MedicineRank, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index := map[string]int{}
	ranks := []pharmacy.MedicineRank{}

	for _, s := range r.sales {
		if s.CreatedAt.Before(from) || s.CreatedAt.After(to) {
			continue
		}
		for _, it := range s.Items {
			i, ok := index[it.MedicineID]
			if !ok {
				i = len(ranks)
				index[it.MedicineID] = i
				ranks = append(ranks, pharmacy.MedicineRank{
					MedicineID:   it.MedicineID,
					MedicineName: it.MedicineName,
				})
			}
			ranks[i].Quantity += int64(it.Quantity)
			ranks[i].Revenue += it.TotalPrice
		}
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Quantity > ranks[j].Quantity
	})
	return ranks, nil
}
