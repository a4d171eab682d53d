package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"dentalcare-backend/internal/domain/medicines"
	"dentalcare-backend/internal/domain/pharmacy"
)

type MedicineRepo struct {
	mu   sync.RWMutex
	byID map[string]medicines.Medicine
}

func NewMedicineRepo() *MedicineRepo {
	return &MedicineRepo{
		byID: make(map[string]medicines.Medicine),
	}
}

func (r *MedicineRepo) Create(ctx context.Context, m medicines.Medicine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("medicine id required")
	}
	if _, exists := r.byID[m.ID]; exists {
		return errors.New("medicine already exists")
	}
	r.byID[m.ID] = m
	return nil
}

func (r *MedicineRepo) Update(ctx context.Context, m medicines.Medicine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[m.ID]; !exists {
		return medicines.ErrNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *MedicineRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return medicines.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *MedicineRepo) GetByID(ctx context.Context, id string) (medicines.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return medicines.Medicine{}, medicines.ErrNotFound
	}
	return m, nil
}

func (r *MedicineRepo) List(ctx context.Context) ([]medicines.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medicines.Medicine, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// applySaleItems ejecuta el chequeo y descuento de stock de una venta
// bajo un solo lock: primero valida todas las líneas y recién después
// aplica los descuentos, de modo que una falla en cualquier línea no
// deja descuentos parciales. Devuelve el snapshot de cada medicamento
// para fijar precios.
func (r *MedicineRepo) applySaleItems(items []pharmacy.SaleItem) (map[string]medicines.Medicine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshots := make(map[string]medicines.Medicine, len(items))
	needed := map[string]int{}
	for _, it := range items {
		m, ok := r.byID[it.MedicineID]
		if !ok {
			return nil, pharmacy.ErrMedicineNotFound
		}
		needed[it.MedicineID] += it.Quantity
		if needed[it.MedicineID] > m.Stock {
			return nil, pharmacy.ErrInsufficientStock
		}
		snapshots[it.MedicineID] = m
	}

	for id, qty := range needed {
		m := r.byID[id]
		m.Stock -= qty
		r.byID[id] = m
	}
	return snapshots, nil
}
