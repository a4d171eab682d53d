package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"dentalcare-backend/internal/domain/prescriptions"
)

type PrescriptionsRepo struct {
	db *sqlx.DB
}

func NewPrescriptionsRepo(db *sqlx.DB) *PrescriptionsRepo {
	return &PrescriptionsRepo{db: db}
}

type prescriptionRow struct {
	ID            string    `db:"id"`
	PatientID     string    `db:"patient_id"`
	AppointmentID string    `db:"appointment_id"`
	Notes         string    `db:"notes"`
	CreatedAt     time.Time `db:"created_at"`
}

func (r prescriptionRow) toDomain() prescriptions.Prescription {
	return prescriptions.Prescription{
		ID:            r.ID,
		PatientID:     r.PatientID,
		AppointmentID: r.AppointmentID,
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
	}
}

type prescriptionItemRow struct {
	PrescriptionID string `db:"prescription_id"`
	MedicineID     string `db:"medicine_id"`
	MedicineName   string `db:"medicine_name"`
	Dosage         string `db:"dosage"`
	Frequency      string `db:"frequency"`
	Duration       string `db:"duration"`
	Quantity       int    `db:"quantity"`
}

func (r *PrescriptionsRepo) Create(ctx context.Context, p prescriptions.Prescription) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO prescriptions (id, patient_id, appointment_id, notes, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`,
		p.ID, p.PatientID, p.AppointmentID, p.Notes, p.CreatedAt,
	); err != nil {
		return err
	}

	if err := insertItems(ctx, tx, p.ID, p.Items); err != nil {
		return err
	}
	return tx.Commit()
}

// Update reemplaza receta e ítems completos.
func (r *PrescriptionsRepo) Update(ctx context.Context, p prescriptions.Prescription) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE prescriptions
		SET patient_id = $2, appointment_id = $3, notes = $4
		WHERE id = $1
	`,
		p.ID, p.PatientID, p.AppointmentID, p.Notes,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return prescriptions.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM prescription_items WHERE prescription_id = $1
	`, p.ID); err != nil {
		return err
	}
	if err := insertItems(ctx, tx, p.ID, p.Items); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PrescriptionsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM prescriptions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return prescriptions.ErrNotFound
	}
	return nil
}

func (r *PrescriptionsRepo) GetByID(ctx context.Context, id string) (prescriptions.Prescription, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return prescriptions.Prescription{}, prescriptions.ErrNotFound
	}

	var row prescriptionRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, patient_id, appointment_id, notes, created_at
		FROM prescriptions
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return prescriptions.Prescription{}, prescriptions.ErrNotFound
		}
		return prescriptions.Prescription{}, err
	}

	out := []prescriptions.Prescription{row.toDomain()}
	if err := r.attachItems(ctx, out); err != nil {
		return prescriptions.Prescription{}, err
	}
	return out[0], nil
}

func (r *PrescriptionsRepo) List(ctx context.Context) ([]prescriptions.Prescription, error) {
	var rows []prescriptionRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, patient_id, appointment_id, notes, created_at
		FROM prescriptions
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}

	out := toPrescriptions(rows)
	if err := r.attachItems(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PrescriptionsRepo) ListByPatient(ctx context.Context, patientID string) ([]prescriptions.Prescription, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, nil
	}

	var rows []prescriptionRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, patient_id, appointment_id, notes, created_at
		FROM prescriptions
		WHERE patient_id = $1
		ORDER BY created_at ASC
	`, patientID)
	if err != nil {
		return nil, err
	}

	out := toPrescriptions(rows)
	if err := r.attachItems(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func insertItems(ctx context.Context, tx *sqlx.Tx, prescriptionID string, items []prescriptions.PrescriptionItem) error {
	for _, it := range items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO prescription_items (
				prescription_id, medicine_id, medicine_name,
				dosage, frequency, duration, quantity
			) VALUES ($1,$2,$3,$4,$5,$6,$7)
		`,
			prescriptionID,
			it.MedicineID,
			it.MedicineName,
			it.Dosage,
			it.Frequency,
			it.Duration,
			it.Quantity,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *PrescriptionsRepo) attachItems(ctx context.Context, list []prescriptions.Prescription) error {
	if len(list) == 0 {
		return nil
	}

	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
	}

	query, args, err := sqlx.In(`
		SELECT prescription_id, medicine_id, medicine_name,
		       dosage, frequency, duration, quantity
		FROM prescription_items
		WHERE prescription_id IN (?)
		ORDER BY id ASC
	`, ids)
	if err != nil {
		return err
	}
	query = r.db.Rebind(query)

	var rows []prescriptionItemRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return err
	}

	byPrescription := make(map[string][]prescriptions.PrescriptionItem, len(list))
	for _, row := range rows {
		byPrescription[row.PrescriptionID] = append(byPrescription[row.PrescriptionID], prescriptions.PrescriptionItem{
			MedicineID:   row.MedicineID,
			MedicineName: row.MedicineName,
			Dosage:       row.Dosage,
			Frequency:    row.Frequency,
			Duration:     row.Duration,
			Quantity:     row.Quantity,
		})
	}
	for i := range list {
		list[i].Items = byPrescription[list[i].ID]
	}
	return nil
}

func toPrescriptions(rows []prescriptionRow) []prescriptions.Prescription {
	out := make([]prescriptions.Prescription, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}
