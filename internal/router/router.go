package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"

	mem "dentalcare-backend/internal/adapters/storage/memory"
	pg "dentalcare-backend/internal/adapters/storage/postgres"
	"dentalcare-backend/internal/domain/appointments"
	"dentalcare-backend/internal/domain/medicines"
	"dentalcare-backend/internal/domain/patients"
	"dentalcare-backend/internal/domain/pharmacy"
	"dentalcare-backend/internal/domain/prescriptions"
	"dentalcare-backend/internal/domain/reports"
	"dentalcare-backend/internal/middleware"
	"dentalcare-backend/internal/ports/auth"
)

type Options struct {
	AuthVerifier auth.TokenVerifier // puede ser nil (modo dev)

	// Si viene, usa Postgres. Si no, repos in-memory.
	DB *sqlx.DB

	Log *logrus.Logger

	// Umbral de stock para las alertas de reposición.
	StockReorderPoint int
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logrus.New()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	// AuthContext antes del logger para que el log lleve user_id.
	r.Use(middleware.AuthContext(opts.AuthVerifier))
	r.Use(middleware.RequestLogger(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	var (
		patientRepo      patients.Repository
		appointmentRepo  appointments.Repository
		medicineRepo     medicines.Repository
		pharmacyRepo     pharmacy.Repository
		prescriptionRepo prescriptions.Repository
	)

	if opts.DB != nil {
		patientRepo = pg.NewPatientsRepo(opts.DB)
		appointmentRepo = pg.NewAppointmentsRepo(opts.DB)
		medicineRepo = pg.NewMedicinesRepo(opts.DB)
		pharmacyRepo = pg.NewPharmacyRepo(opts.DB)
		prescriptionRepo = pg.NewPrescriptionsRepo(opts.DB)
	} else {
		meds := mem.NewMedicineRepo()
		patientRepo = mem.NewPatientRepo()
		appointmentRepo = mem.NewAppointmentRepo()
		medicineRepo = meds
		pharmacyRepo = mem.NewPharmacyRepo(meds)
		prescriptionRepo = mem.NewPrescriptionRepo()
	}

	// Services por módulo
	patientsSvc := patients.NewService(patientRepo, log)
	appointmentsSvc := appointments.NewService(appointmentRepo, log)
	medicinesSvc := medicines.NewService(medicineRepo, log)
	pharmacySvc := pharmacy.NewService(pharmacyRepo, log)
	prescriptionsSvc := prescriptions.NewService(prescriptionRepo, log)
	reportsSvc := reports.NewService(
		patientRepo,
		appointmentRepo,
		pharmacyRepo,
		medicineRepo,
		opts.StockReorderPoint,
		log,
	)

	// Rutas por módulo
	patients.RegisterRoutes(r, patientsSvc)
	appointments.RegisterRoutes(r, appointmentsSvc)
	medicines.RegisterRoutes(r, medicinesSvc)
	pharmacy.RegisterRoutes(r, pharmacySvc)
	prescriptions.RegisterRoutes(r, prescriptionsSvc)
	reports.RegisterRoutes(r, reportsSvc)

	return r
}
