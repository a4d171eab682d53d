package main

import (
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	_ "dentalcare-backend/docs"
	"dentalcare-backend/internal/adapters/auth/identity"
	"dentalcare-backend/internal/adapters/storage/postgres"
	"dentalcare-backend/internal/platform/config"
	"dentalcare-backend/internal/platform/logger"
	"dentalcare-backend/internal/ports/auth"
	"dentalcare-backend/internal/router"
)

// @title DentalCare API
// @version 1.0
// @description Backend de gestión de clínica dental: pacientes, citas, farmacia y reportes.
// @BasePath /
func main() {
	// .env es opcional; en contenedores la config llega por env directo.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	opts := router.Options{
		Log:               log,
		StockReorderPoint: cfg.StockReorderPoint,
		AuthVerifier:      buildVerifier(cfg, log),
	}

	if cfg.DBDSN != "" {
		db, err := postgres.Open(cfg.DBDSN)
		if err != nil {
			log.WithError(err).Fatal("database connection failed")
		}
		defer db.Close()

		if err := postgres.Migrate(db); err != nil {
			log.WithError(err).Fatal("migrations failed")
		}
		opts.DB = db
	} else {
		log.Warn("DB_DSN not set, using in-memory storage")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.WithFields(logrus.Fields{"addr": srv.Addr}).Info("starting server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server error")
	}
}

// buildVerifier arma el verifier solo si el identity provider está
// configurado; sin AUTH_BASE_URL el servicio corre en modo dev.
func buildVerifier(cfg config.Config, log *logrus.Logger) auth.TokenVerifier {
	if cfg.AuthBaseURL == "" {
		return nil
	}

	client, err := identity.NewClient(identity.Config{
		BaseURL: cfg.AuthBaseURL,
		APIKey:  cfg.AuthAPIKey,
		Timeout: cfg.AuthTimeout,
	})
	if err != nil {
		log.WithError(err).Warn("identity client misconfigured, running without verifier")
		return nil
	}
	return identity.NewVerifier(client)
}
