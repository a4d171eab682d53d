package appointments

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
	ErrNotFound     = errors.New("appointment not found")
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
	PatientID string
	Date      time.Time
	StartTime string
	EndTime   string
	Type      string
	Status    string
	Notes     string
	Amount    *float64
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Appointment, error) {
	if strings.TrimSpace(in.PatientID) == "" {
		return Appointment{}, ErrInvalidInput
	}
	if in.Date.IsZero() {
		return Appointment{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Type) == "" {
		return Appointment{}, ErrInvalidInput
	}

	status := Status(strings.TrimSpace(in.Status))
	if status == "" {
		status = StatusScheduled
	}

	a := Appointment{
		ID:        uuid.NewString(),
		PatientID: strings.TrimSpace(in.PatientID),
		Date:      in.Date,
		StartTime: strings.TrimSpace(in.StartTime),
		EndTime:   strings.TrimSpace(in.EndTime),
		Type:      strings.TrimSpace(in.Type),
		Status:    status,
		Notes:     strings.TrimSpace(in.Notes),
		Amount:    in.Amount,
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Appointment{}, err
	}

	s.log.WithFields(logrus.Fields{
		"appointment_id": a.ID,
		"patient_id":     a.PatientID,
		"type":           a.Type,
	}).Info("appointment created")
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Appointment{}, ErrInvalidInput
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		// ErrNotFound viene del repo; otras fallas del store se
		// propagan tal cual.
		return Appointment{}, err
	}
	return a, nil
}

func (s *Service) List(ctx context.Context) ([]Appointment, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]Appointment, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByPatient(ctx, patientID)
}

// ListByDate devuelve las citas del día natural indicado.
func (s *Service) ListByDate(ctx context.Context, day time.Time) ([]Appointment, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.Add(24*time.Hour - time.Second)
	return s.repo.ListBetween(ctx, from, to)
}

func (s *Service) ListBetween(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return nil, ErrInvalidInput
	}
	return s.repo.ListBetween(ctx, from, to)
}

func (s *Service) Update(ctx context.Context, id string, in CreateInput) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Appointment{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.PatientID) == "" || in.Date.IsZero() || strings.TrimSpace(in.Type) == "" {
		return Appointment{}, ErrInvalidInput
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}

	status := Status(strings.TrimSpace(in.Status))
	if status == "" {
		status = current.Status
	}

	updated := Appointment{
		ID:        current.ID,
		PatientID: strings.TrimSpace(in.PatientID),
		Date:      in.Date,
		StartTime: strings.TrimSpace(in.StartTime),
		EndTime:   strings.TrimSpace(in.EndTime),
		Type:      strings.TrimSpace(in.Type),
		Status:    status,
		Notes:     strings.TrimSpace(in.Notes),
		Amount:    in.Amount,
		CreatedAt: current.CreatedAt,
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return Appointment{}, err
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
	return s.repo.Delete(ctx, id)
}
