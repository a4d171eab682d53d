package medicines

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type testRepo struct {
	byID map[string]Medicine

	// inyectable por test para simular una falla del store
	getErr error
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Medicine{}}
}

func (r *testRepo) Create(ctx context.Context, m Medicine) error {
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) Update(ctx context.Context, m Medicine) error {
	if _, ok := r.byID[m.ID]; !ok {
		return ErrNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Medicine, error) {
	if r.getErr != nil {
		return Medicine{}, r.getErr
	}
	m, ok := r.byID[id]
	if !ok {
		return Medicine{}, ErrNotFound
	}
	return m, nil
}

func (r *testRepo) List(ctx context.Context) ([]Medicine, error) {
	out := make([]Medicine, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, m)
	}
	return out, nil
}

func newTestService(repo *testRepo) *Service {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(repo, log)
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService(newTestRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{Type: "analgesic"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without name, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{Name: "Ibuprofeno"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without type, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{Name: "Ibuprofeno", Type: "analgesic", Stock: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative stock, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{Name: "Ibuprofeno", Type: "analgesic", Price: -2}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative price, got %v", err)
	}
}

func TestUpdate_RefreshesUpdatedAtOnly(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	t0 := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t0 }

	created, err := svc.Create(context.Background(), CreateInput{
		Name: "Ibuprofeno", Type: "analgesic", Stock: 10, Price: 5,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	t1 := t0.Add(time.Hour)
	svc.now = func() time.Time { return t1 }

	updated, err := svc.Update(context.Background(), created.ID, CreateInput{
		Name: "Ibuprofeno", Type: "analgesic", Stock: 8, Price: 6,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.CreatedAt.Equal(t0) {
		t.Fatalf("createdAt changed: %v", updated.CreatedAt)
	}
	if !updated.UpdatedAt.Equal(t1) {
		t.Fatalf("updatedAt = %v, expected %v", updated.UpdatedAt, t1)
	}
	if updated.Stock != 8 || updated.Price != 6 {
		t.Fatalf("fields not updated: %+v", updated)
	}
}

func TestNotFoundContracts(t *testing.T) {
	svc := newTestService(newTestRepo())
	ctx := context.Background()
	in := CreateInput{Name: "Ibuprofeno", Type: "analgesic"}

	if _, err := svc.GetByID(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByID: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Update(ctx, "ghost", in); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update: expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete: expected ErrNotFound, got %v", err)
	}
}

func TestStoreFailuresAreNotMaskedAsNotFound(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	repo.getErr = errors.New("store: connection reset")

	if _, err := svc.GetByID(ctx, "m1"); !errors.Is(err, repo.getErr) {
		t.Fatalf("GetByID: expected the store error, got %v", err)
	}
	if err := svc.Delete(ctx, "m1"); !errors.Is(err, repo.getErr) {
		t.Fatalf("Delete: expected the store error, got %v", err)
	}
}
