package prescriptions

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type testRepo struct {
	byID map[string]Prescription

	// inyectable por test para simular una falla del store
	getErr error
}

func newTestRepo() *testRepo {
	return &testRepo{byID: make(map[string]Prescription)}
}

func (r *testRepo) Create(_ context.Context, p Prescription) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(_ context.Context, p Prescription) error {
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Prescription, error) {
	if r.getErr != nil {
		return Prescription{}, r.getErr
	}
	p, ok := r.byID[id]
	if !ok {
		return Prescription{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) List(_ context.Context) ([]Prescription, error) {
	out := make([]Prescription, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

func (r *testRepo) ListByPatient(_ context.Context, patientID string) ([]Prescription, error) {
	var out []Prescription
	for _, p := range r.byID {
		if p.PatientID == patientID {
			out = append(out, p)
		}
	}
	return out, nil
}

func newTestService(repo *testRepo) *Service {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(repo, log)
}

func validInput() CreateInput {
	return CreateInput{
		PatientID: "p1",
		Items: []ItemInput{
			{MedicineID: "m1", MedicineName: "Amoxicilina", Dosage: "500mg", Frequency: "8h", Duration: "7 dias", Quantity: 21},
		},
		Notes: "tomar con comida",
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService(newTestRepo())
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"sin paciente", CreateInput{Items: validInput().Items}},
		{"sin items", CreateInput{PatientID: "p1"}},
		{"item sin medicamento", CreateInput{PatientID: "p1", Items: []ItemInput{{Quantity: 1}}}},
		{"cantidad cero", CreateInput{PatientID: "p1", Items: []ItemInput{{MedicineID: "m1"}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCreate_TrimsAndPersists(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	fixed := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	in := validInput()
	in.PatientID = "  p1  "
	in.Items[0].MedicineID = " m1 "

	p, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" {
		t.Fatal("expected generated id")
	}
	if p.PatientID != "p1" || p.Items[0].MedicineID != "m1" {
		t.Fatalf("expected trimmed fields, got %q / %q", p.PatientID, p.Items[0].MedicineID)
	}
	if !p.CreatedAt.Equal(fixed) {
		t.Fatalf("expected createdAt %v, got %v", fixed, p.CreatedAt)
	}
	if _, ok := repo.byID[p.ID]; !ok {
		t.Fatal("prescription not persisted")
	}
}

func TestUpdate_KeepsIDAndCreatedAt(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	in := validInput()
	in.Notes = "suspender si hay reaccion"
	updated, err := svc.Update(ctx, created.ID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("id changed: %q vs %q", updated.ID, created.ID)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("createdAt should survive updates")
	}
	if updated.Notes != "suspender si hay reaccion" {
		t.Fatalf("unexpected notes %q", updated.Notes)
	}
}

func TestNotFoundContracts(t *testing.T) {
	svc := newTestService(newTestRepo())
	ctx := context.Background()

	if _, err := svc.GetByID(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Update(ctx, "nope", validInput()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
}

func TestStoreFailuresAreNotMaskedAsNotFound(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	repo.getErr = errors.New("store: connection reset")

	if _, err := svc.GetByID(ctx, "rx1"); !errors.Is(err, repo.getErr) {
		t.Fatalf("GetByID: expected the store error, got %v", err)
	}
	if _, err := svc.Update(ctx, "rx1", validInput()); !errors.Is(err, repo.getErr) {
		t.Fatalf("Update: expected the store error, got %v", err)
	}
	if err := svc.Delete(ctx, "rx1"); !errors.Is(err, repo.getErr) {
		t.Fatalf("Delete: expected the store error, got %v", err)
	}
}
