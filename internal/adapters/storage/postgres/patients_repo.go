package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"dentalcare-backend/internal/domain/patients"
)

type PatientsRepo struct {
	db *sqlx.DB
}

func NewPatientsRepo(db *sqlx.DB) *PatientsRepo {
	return &PatientsRepo{db: db}
}

type patientRow struct {
	ID             string       `db:"id"`
	FirstName      string       `db:"first_name"`
	LastName       string       `db:"last_name"`
	Email          string       `db:"email"`
	Phone          string       `db:"phone"`
	DateOfBirth    time.Time    `db:"date_of_birth"`
	Gender         string       `db:"gender"`
	Address        string       `db:"address"`
	MedicalHistory string       `db:"medical_history"`
	InsuranceInfo  string       `db:"insurance_info"`
	CreatedAt      time.Time    `db:"created_at"`
	LastVisit      sql.NullTime `db:"last_visit"`
}

func (r patientRow) toDomain() patients.Patient {
	p := patients.Patient{
		ID:             r.ID,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		Phone:          r.Phone,
		DateOfBirth:    r.DateOfBirth,
		Gender:         r.Gender,
		Address:        r.Address,
		MedicalHistory: r.MedicalHistory,
		InsuranceInfo:  r.InsuranceInfo,
		CreatedAt:      r.CreatedAt,
	}
	if r.LastVisit.Valid {
		t := r.LastVisit.Time
		p.LastVisit = &t
	}
	return p
}

const patientColumns = `
	id, first_name, last_name, email, phone,
	date_of_birth, gender, address,
	medical_history, insurance_info,
	created_at, last_visit
`

func (r *PatientsRepo) Create(ctx context.Context, p patients.Patient) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO patients (`+patientColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		p.ID,
		p.FirstName,
		p.LastName,
		p.Email,
		p.Phone,
		p.DateOfBirth,
		p.Gender,
		p.Address,
		p.MedicalHistory,
		p.InsuranceInfo,
		p.CreatedAt,
		toNullTime(p.LastVisit),
	)
	return err
}

func (r *PatientsRepo) Update(ctx context.Context, p patients.Patient) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE patients
		SET
			first_name = $2,
			last_name = $3,
			email = $4,
			phone = $5,
			date_of_birth = $6,
			gender = $7,
			address = $8,
			medical_history = $9,
			insurance_info = $10,
			last_visit = $11
		WHERE id = $1
	`,
		p.ID,
		p.FirstName,
		p.LastName,
		p.Email,
		p.Phone,
		p.DateOfBirth,
		p.Gender,
		p.Address,
		p.MedicalHistory,
		p.InsuranceInfo,
		toNullTime(p.LastVisit),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return patients.ErrNotFound
	}
	return nil
}

func (r *PatientsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return patients.ErrNotFound
	}
	return nil
}

func (r *PatientsRepo) GetByID(ctx context.Context, id string) (patients.Patient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return patients.Patient{}, patients.ErrNotFound
	}

	var row patientRow
	err := r.db.GetContext(ctx, &row, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return patients.Patient{}, patients.ErrNotFound
		}
		return patients.Patient{}, err
	}
	return row.toDomain(), nil
}

func (r *PatientsRepo) List(ctx context.Context) ([]patients.Patient, error) {
	var rows []patientRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+patientColumns+`
		FROM patients
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	return toPatients(rows), nil
}

func (r *PatientsRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM patients`)
	return n, err
}

func (r *PatientsRepo) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]patients.Patient, error) {
	var rows []patientRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at ASC
	`, from, to)
	if err != nil {
		return nil, err
	}
	return toPatients(rows), nil
}

func toPatients(rows []patientRow) []patients.Patient {
	out := make([]patients.Patient, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
