package patients

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
	ErrNotFound     = errors.New("patient not found")
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
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	DateOfBirth    time.Time
	Gender         string
	Address        string
	MedicalHistory string
	InsuranceInfo  string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Patient, error) {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return Patient{}, ErrInvalidInput
	}
	if in.DateOfBirth.IsZero() {
		return Patient{}, ErrInvalidInput
	}

	now := s.now()

	// La fecha de nacimiento nunca puede ser posterior al alta.
	if in.DateOfBirth.After(now) {
		return Patient{}, ErrInvalidInput
	}

	p := Patient{
		ID:             uuid.NewString(),
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Email:          strings.TrimSpace(in.Email),
		Phone:          strings.TrimSpace(in.Phone),
		DateOfBirth:    in.DateOfBirth,
		Gender:         strings.TrimSpace(in.Gender),
		Address:        strings.TrimSpace(in.Address),
		MedicalHistory: strings.TrimSpace(in.MedicalHistory),
		InsuranceInfo:  strings.TrimSpace(in.InsuranceInfo),
		CreatedAt:      now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Patient{}, err
	}

	s.log.WithFields(logrus.Fields{"patient_id": p.ID}).Info("patient created")
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Patient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Patient{}, ErrInvalidInput
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		// El repo devuelve ErrNotFound cuando no existe; cualquier otra
		// falla del store se propaga tal cual.
		return Patient{}, err
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]Patient, error) {
	return s.repo.List(ctx)
}

// Update sobreescribe la ficha completa (PUT). Conserva ID y CreatedAt.
func (s *Service) Update(ctx context.Context, id string, in CreateInput) (Patient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Patient{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return Patient{}, ErrInvalidInput
	}
	if in.DateOfBirth.IsZero() || in.DateOfBirth.After(s.now()) {
		return Patient{}, ErrInvalidInput
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Patient{}, err
	}

	updated := Patient{
		ID:             current.ID,
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Email:          strings.TrimSpace(in.Email),
		Phone:          strings.TrimSpace(in.Phone),
		DateOfBirth:    in.DateOfBirth,
		Gender:         strings.TrimSpace(in.Gender),
		Address:        strings.TrimSpace(in.Address),
		MedicalHistory: strings.TrimSpace(in.MedicalHistory),
		InsuranceInfo:  strings.TrimSpace(in.InsuranceInfo),
		CreatedAt:      current.CreatedAt,
		LastVisit:      current.LastVisit,
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return Patient{}, err
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
	s.log.WithFields(logrus.Fields{"patient_id": id}).Info("patient deleted")
	return nil
}
