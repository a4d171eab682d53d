package medicines

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("medicine not found")
)

type Service struct {
	repo Repository
	log  *logrus.Logger
	now  func() time.Time
}

func NewService(repo Repository, log *logrus.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name         string
	Type         string
	Description  string
	Manufacturer string
	Stock        int
	Unit         string
	Price        float64
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Medicine, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Type) == "" {
		return Medicine{}, ErrInvalidInput
	}
	if in.Stock < 0 || in.Price < 0 {
		return Medicine{}, ErrInvalidInput
	}

	now := s.now()
	m := Medicine{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Type:         strings.TrimSpace(in.Type),
		Description:  strings.TrimSpace(in.Description),
		Manufacturer: strings.TrimSpace(in.Manufacturer),
		Stock:        in.Stock,
		Unit:         strings.TrimSpace(in.Unit),
		Price:        in.Price,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Medicine{}, err
	}

	s.log.WithFields(logrus.Fields{"medicine_id": m.ID, "name": m.Name}).Info("medicine created")
	return m, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Medicine, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medicine{}, ErrInvalidInput
	}
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		// ErrNotFound viene del repo; otras fallas del store se
		// propagan tal cual.
		return Medicine{}, err
	}
	return m, nil
}

func (s *Service) List(ctx context.Context) ([]Medicine, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id string, in CreateInput) (Medicine, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medicine{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Type) == "" {
		return Medicine{}, ErrInvalidInput
	}
	if in.Stock < 0 || in.Price < 0 {
		return Medicine{}, ErrInvalidInput
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Medicine{}, err
	}

	updated := Medicine{
		ID:           current.ID,
		Name:         strings.TrimSpace(in.Name),
		Type:         strings.TrimSpace(in.Type),
		Description:  strings.TrimSpace(in.Description),
		Manufacturer: strings.TrimSpace(in.Manufacturer),
		Stock:        in.Stock,
		Unit:         strings.TrimSpace(in.Unit),
		Price:        in.Price,
		CreatedAt:    current.CreatedAt,
		UpdatedAt:    s.now(),
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return Medicine{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"medicine_id": id}).Info("medicine deleted")
	return nil
}
