package prescriptions

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
	ErrNotFound     = errors.New("prescription not found")
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

type ItemInput struct {
	MedicineID   string
	MedicineName string
	Dosage       string
	Frequency    string
	Duration     string
	Quantity     int
}

type CreateInput struct {
	PatientID     string
	AppointmentID string
	Items         []ItemInput
	Notes         string
}

func validateItems(items []ItemInput) ([]PrescriptionItem, error) {
	if len(items) == 0 {
		return nil, ErrInvalidInput
	}
	out := make([]PrescriptionItem, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.MedicineID) == "" || it.Quantity <= 0 {
			return nil, ErrInvalidInput
		}
		out = append(out, PrescriptionItem{
			MedicineID:   strings.TrimSpace(it.MedicineID),
			MedicineName: strings.TrimSpace(it.MedicineName),
			Dosage:       strings.TrimSpace(it.Dosage),
			Frequency:    strings.TrimSpace(it.Frequency),
			Duration:     strings.TrimSpace(it.Duration),
			Quantity:     it.Quantity,
		})
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Prescription, error) {
	if strings.TrimSpace(in.PatientID) == "" {
		return Prescription{}, ErrInvalidInput
	}
	items, err := validateItems(in.Items)
	if err != nil {
		return Prescription{}, err
	}

	p := Prescription{
		ID:            uuid.NewString(),
		PatientID:     strings.TrimSpace(in.PatientID),
		AppointmentID: strings.TrimSpace(in.AppointmentID),
		Items:         items,
		Notes:         strings.TrimSpace(in.Notes),
		CreatedAt:     s.now(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Prescription{}, err
	}

	s.log.WithFields(logrus.Fields{
		"prescription_id": p.ID,
		"patient_id":      p.PatientID,
	}).Info("prescription created")
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Prescription, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Prescription{}, ErrInvalidInput
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		// ErrNotFound viene del repo; otras fallas del store se
		// propagan tal cual.
		return Prescription{}, err
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]Prescription, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]Prescription, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) Update(ctx context.Context, id string, in CreateInput) (Prescription, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.TrimSpace(in.PatientID) == "" {
		return Prescription{}, ErrInvalidInput
	}
	items, err := validateItems(in.Items)
	if err != nil {
		return Prescription{}, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Prescription{}, err
	}

	updated := Prescription{
		ID:            current.ID,
		PatientID:     strings.TrimSpace(in.PatientID),
		AppointmentID: strings.TrimSpace(in.AppointmentID),
		Items:         items,
		Notes:         strings.TrimSpace(in.Notes),
		CreatedAt:     current.CreatedAt,
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return Prescription{}, err
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
