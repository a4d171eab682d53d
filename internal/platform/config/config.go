package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config agrupa todo lo que el servicio lee de env.
type Config struct {
	HTTPPort  string
	DBDSN     string // vacío => repos in-memory
	LogLevel  string
	LogFormat string

	// Umbral de stock para las alertas de reposición de farmacia.
	StockReorderPoint int

	// Verificación de tokens contra el identity provider (opcional;
	// sin BaseURL el servicio corre en modo dev sin verifier).
	AuthBaseURL string
	AuthAPIKey  string
	AuthTimeout time.Duration
}

const defaultReorderPoint = 20

// Load lee la configuración desde env con defaults de dev.
func Load() Config {
	return Config{
		HTTPPort:          getenv("HTTP_PORT", "8080"),
		DBDSN:             strings.TrimSpace(os.Getenv("DB_DSN")),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		LogFormat:         getenv("LOG_FORMAT", "text"),
		StockReorderPoint: getenvInt("STOCK_REORDER_POINT", defaultReorderPoint),
		AuthBaseURL:       strings.TrimSpace(os.Getenv("AUTH_BASE_URL")),
		AuthAPIKey:        strings.TrimSpace(os.Getenv("AUTH_API_KEY")),
		AuthTimeout:       getenvDuration("AUTH_TIMEOUT", 5*time.Second),
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
