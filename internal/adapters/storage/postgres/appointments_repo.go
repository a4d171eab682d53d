package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"dentalcare-backend/internal/domain/appointments"
)

type AppointmentsRepo struct {
	db *sqlx.DB
}

func NewAppointmentsRepo(db *sqlx.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

type appointmentRow struct {
	ID        string          `db:"id"`
	PatientID string          `db:"patient_id"`
	Date      time.Time       `db:"date"`
	StartTime string          `db:"start_time"`
	EndTime   string          `db:"end_time"`
	Type      string          `db:"type"`
	Status    string          `db:"status"`
	Notes     string          `db:"notes"`
	Amount    sql.NullFloat64 `db:"amount"`
	CreatedAt time.Time       `db:"created_at"`
}

func (r appointmentRow) toDomain() appointments.Appointment {
	a := appointments.Appointment{
		ID:        r.ID,
		PatientID: r.PatientID,
		Date:      r.Date,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Type:      r.Type,
		Status:    appointments.Status(r.Status),
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt,
	}
	if r.Amount.Valid {
		v := r.Amount.Float64
		a.Amount = &v
	}
	return a
}

const appointmentColumns = `
	id, patient_id, date, start_time, end_time,
	type, status, notes, amount, created_at
`

func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments (`+appointmentColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		a.ID,
		a.PatientID,
		a.Date,
		a.StartTime,
		a.EndTime,
		a.Type,
		string(a.Status),
		a.Notes,
		toNullFloat(a.Amount),
		a.CreatedAt,
	)
	return err
}

func (r *AppointmentsRepo) Update(ctx context.Context, a appointments.Appointment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments
		SET
			patient_id = $2,
			date = $3,
			start_time = $4,
			end_time = $5,
			type = $6,
			status = $7,
			notes = $8,
			amount = $9
		WHERE id = $1
	`,
		a.ID,
		a.PatientID,
		a.Date,
		a.StartTime,
		a.EndTime,
		a.Type,
		string(a.Status),
		a.Notes,
		toNullFloat(a.Amount),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return appointments.ErrNotFound
	}
	return nil
}

func (r *AppointmentsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return appointments.ErrNotFound
	}
	return nil
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return appointments.Appointment{}, appointments.ErrNotFound
	}

	var row appointmentRow
	err := r.db.GetContext(ctx, &row, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appointments.Appointment{}, appointments.ErrNotFound
		}
		return appointments.Appointment{}, err
	}
	return row.toDomain(), nil
}

func (r *AppointmentsRepo) List(ctx context.Context) ([]appointments.Appointment, error) {
	var rows []appointmentRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+appointmentColumns+`
		FROM appointments
		ORDER BY date ASC, start_time ASC
	`)
	if err != nil {
		return nil, err
	}
	return toAppointments(rows), nil
}

func (r *AppointmentsRepo) ListByPatient(ctx context.Context, patientID string) ([]appointments.Appointment, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, nil
	}

	var rows []appointmentRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE patient_id = $1
		ORDER BY date ASC, start_time ASC
	`, patientID)
	if err != nil {
		return nil, err
	}
	return toAppointments(rows), nil
}

func (r *AppointmentsRepo) ListBetween(ctx context.Context, from, to time.Time) ([]appointments.Appointment, error) {
	var rows []appointmentRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC, start_time ASC
	`, from, to)
	if err != nil {
		return nil, err
	}
	return toAppointments(rows), nil
}

func (r *AppointmentsRepo) CountPatientsWithMultipleAppointments(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM (
			SELECT patient_id
			FROM appointments
			WHERE date >= $1 AND date <= $2
			GROUP BY patient_id
			HAVING COUNT(*) > 1
		) repeated
	`, from, to)
	return n, err
}

func toAppointments(rows []appointmentRow) []appointments.Appointment {
	out := make([]appointments.Appointment, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}

func toNullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{Valid: false}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
