package postgres

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Migrate crea el esquema si no existe. Idempotente: se corre en cada
// arranque antes de servir tráfico.
func Migrate(db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS patients (
			id TEXT PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			date_of_birth DATE NOT NULL,
			gender TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			medical_history TEXT NOT NULL DEFAULT '',
			insurance_info TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			last_visit TIMESTAMPTZ
		);`,
		`CREATE TABLE IF NOT EXISTS appointments (
			id TEXT PRIMARY KEY,
			patient_id TEXT NOT NULL REFERENCES patients(id),
			date TIMESTAMPTZ NOT NULL,
			start_time TEXT NOT NULL DEFAULT '',
			end_time TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			amount DOUBLE PRECISION,
			created_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_date ON appointments (date);`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_patient ON appointments (patient_id);`,
		`CREATE TABLE IF NOT EXISTS medicines (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			manufacturer TEXT NOT NULL DEFAULT '',
			stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
			unit TEXT NOT NULL DEFAULT '',
			price DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS prescriptions (
			id TEXT PRIMARY KEY,
			patient_id TEXT NOT NULL REFERENCES patients(id),
			appointment_id TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_prescriptions_patient ON prescriptions (patient_id);`,
		`CREATE TABLE IF NOT EXISTS prescription_items (
			id SERIAL PRIMARY KEY,
			prescription_id TEXT NOT NULL REFERENCES prescriptions(id) ON DELETE CASCADE,
			medicine_id TEXT NOT NULL,
			medicine_name TEXT NOT NULL DEFAULT '',
			dosage TEXT NOT NULL DEFAULT '',
			frequency TEXT NOT NULL DEFAULT '',
			duration TEXT NOT NULL DEFAULT '',
			quantity INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS pharmacy_customers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS pharmacy_sales (
			id TEXT PRIMARY KEY,
			customer_id TEXT NOT NULL REFERENCES pharmacy_customers(id),
			customer_name TEXT NOT NULL DEFAULT '',
			customer_phone TEXT NOT NULL DEFAULT '',
			sold_by TEXT NOT NULL DEFAULT '',
			subtotal DOUBLE PRECISION NOT NULL,
			discount DOUBLE PRECISION NOT NULL DEFAULT 0,
			total DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_pharmacy_sales_created ON pharmacy_sales (created_at);`,
		`CREATE TABLE IF NOT EXISTS pharmacy_sale_items (
			id SERIAL PRIMARY KEY,
			sale_id TEXT NOT NULL REFERENCES pharmacy_sales(id) ON DELETE CASCADE,
			medicine_id TEXT NOT NULL REFERENCES medicines(id),
			medicine_name TEXT NOT NULL DEFAULT '',
			quantity INTEGER NOT NULL,
			unit_price DOUBLE PRECISION NOT NULL,
			total_price DOUBLE PRECISION NOT NULL
		);`,
	}

	for i, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
