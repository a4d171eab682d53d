package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"dentalcare-backend/internal/domain/prescriptions"
)

type PrescriptionRepo struct {
	mu   sync.RWMutex
	byID map[string]prescriptions.Prescription
}

func NewPrescriptionRepo() *PrescriptionRepo {
	return &PrescriptionRepo{
		byID: make(map[string]prescriptions.Prescription),
	}
}

func (r *PrescriptionRepo) Create(ctx context.Context, p prescriptions.Prescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("prescription id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("prescription already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *PrescriptionRepo) Update(ctx context.Context, p prescriptions.Prescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; !exists {
		return prescriptions.ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *PrescriptionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return prescriptions.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *PrescriptionRepo) GetByID(ctx context.Context, id string) (prescriptions.Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return prescriptions.Prescription{}, prescriptions.ErrNotFound
	}
	return p, nil
}

func (r *PrescriptionRepo) List(ctx context.Context) ([]prescriptions.Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prescriptions.Prescription, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	sortByCreated(out)
	return out, nil
}

func (r *PrescriptionRepo) ListByPatient(ctx context.Context, patientID string) ([]prescriptions.Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prescriptions.Prescription, 0)
	for _, p := range r.byID {
		if p.PatientID == patientID {
			out = append(out, p)
		}
	}
	sortByCreated(out)
	return out, nil
}

func sortByCreated(items []prescriptions.Prescription) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
