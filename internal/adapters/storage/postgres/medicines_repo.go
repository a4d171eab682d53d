package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"dentalcare-backend/internal/domain/medicines"
)

type MedicinesRepo struct {
	db *sqlx.DB
}

func NewMedicinesRepo(db *sqlx.DB) *MedicinesRepo {
	return &MedicinesRepo{db: db}
}

type medicineRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Type         string    `db:"type"`
	Description  string    `db:"description"`
	Manufacturer string    `db:"manufacturer"`
	Stock        int       `db:"stock"`
	Unit         string    `db:"unit"`
	Price        float64   `db:"price"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r medicineRow) toDomain() medicines.Medicine {
	return medicines.Medicine{
		ID:           r.ID,
		Name:         r.Name,
		Type:         r.Type,
		Description:  r.Description,
		Manufacturer: r.Manufacturer,
		Stock:        r.Stock,
		Unit:         r.Unit,
		Price:        r.Price,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

const medicineColumns = `
	id, name, type, description, manufacturer,
	stock, unit, price, created_at, updated_at
`

func (r *MedicinesRepo) Create(ctx context.Context, m medicines.Medicine) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medicines (`+medicineColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		m.ID,
		m.Name,
		m.Type,
		m.Description,
		m.Manufacturer,
		m.Stock,
		m.Unit,
		m.Price,
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func (r *MedicinesRepo) Update(ctx context.Context, m medicines.Medicine) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE medicines
		SET
			name = $2,
			type = $3,
			description = $4,
			manufacturer = $5,
			stock = $6,
			unit = $7,
			price = $8,
			updated_at = $9
		WHERE id = $1
	`,
		m.ID,
		m.Name,
		m.Type,
		m.Description,
		m.Manufacturer,
		m.Stock,
		m.Unit,
		m.Price,
		m.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return medicines.ErrNotFound
	}
	return nil
}

func (r *MedicinesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return medicines.ErrNotFound
	}
	return nil
}

func (r *MedicinesRepo) GetByID(ctx context.Context, id string) (medicines.Medicine, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medicines.Medicine{}, medicines.ErrNotFound
	}

	var row medicineRow
	err := r.db.GetContext(ctx, &row, `
		SELECT `+medicineColumns+`
		FROM medicines
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return medicines.Medicine{}, medicines.ErrNotFound
		}
		return medicines.Medicine{}, err
	}
	return row.toDomain(), nil
}

func (r *MedicinesRepo) List(ctx context.Context) ([]medicines.Medicine, error) {
	var rows []medicineRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+medicineColumns+`
		FROM medicines
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	out := make([]medicines.Medicine, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
