package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"dentalcare-backend/internal/domain/pharmacy"
)

type PharmacyRepo struct {
	db *sqlx.DB
}

func NewPharmacyRepo(db *sqlx.DB) *PharmacyRepo {
	return &PharmacyRepo{db: db}
}

// Customers

type customerRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Phone     string    `db:"phone"`
	Email     string    `db:"email"`
	Address   string    `db:"address"`
	CreatedAt time.Time `db:"created_at"`
}

func (r customerRow) toDomain() pharmacy.Customer {
	return pharmacy.Customer{
		ID:        r.ID,
		Name:      r.Name,
		Phone:     r.Phone,
		Email:     r.Email,
		Address:   r.Address,
		CreatedAt: r.CreatedAt,
	}
}

func (r *PharmacyRepo) CreateCustomer(ctx context.Context, c pharmacy.Customer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pharmacy_customers (id, name, phone, email, address, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		c.ID, c.Name, c.Phone, c.Email, c.Address, c.CreatedAt,
	)
	return err
}

func (r *PharmacyRepo) GetCustomerByPhone(ctx context.Context, phone string) (pharmacy.Customer, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return pharmacy.Customer{}, pharmacy.ErrCustomerNotFound
	}

	var row customerRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, name, phone, email, address, created_at
		FROM pharmacy_customers
		WHERE phone = $1
	`, phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pharmacy.Customer{}, pharmacy.ErrCustomerNotFound
		}
		return pharmacy.Customer{}, err
	}
	return row.toDomain(), nil
}

// Sales

type saleRow struct {
	ID            string    `db:"id"`
	CustomerID    string    `db:"customer_id"`
	CustomerName  string    `db:"customer_name"`
	CustomerPhone string    `db:"customer_phone"`
	SoldBy        string    `db:"sold_by"`
	Subtotal      float64   `db:"subtotal"`
	Discount      float64   `db:"discount"`
	Total         float64   `db:"total"`
	CreatedAt     time.Time `db:"created_at"`
}

func (r saleRow) toDomain() pharmacy.Sale {
	return pharmacy.Sale{
		ID:            r.ID,
		CustomerID:    r.CustomerID,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		SoldBy:        r.SoldBy,
		Subtotal:      r.Subtotal,
		Discount:      r.Discount,
		Total:         r.Total,
		CreatedAt:     r.CreatedAt,
	}
}

type saleItemRow struct {
	SaleID       string  `db:"sale_id"`
	MedicineID   string  `db:"medicine_id"`
	MedicineName string  `db:"medicine_name"`
	Quantity     int     `db:"quantity"`
	UnitPrice    float64 `db:"unit_price"`
	TotalPrice   float64 `db:"total_price"`
}

const saleColumns = `
	id, customer_id, customer_name, customer_phone, sold_by,
	subtotal, discount, total, created_at
`

// CreateSale corre toda la venta en una transacción: bloquea cada fila
// de medicines con FOR UPDATE, valida y descuenta stock línea por línea
// (así dos líneas del mismo medicamento se validan contra el stock ya
// descontado), fija precios vigentes y persiste venta e ítems. Un
// rollback deshace cualquier descuento parcial.
func (r *PharmacyRepo) CreateSale(ctx context.Context, s pharmacy.Sale) (pharmacy.Sale, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return pharmacy.Sale{}, err
	}
	defer tx.Rollback()

	var subtotal float64
	for i, it := range s.Items {
		var (
			name  string
			stock int
			price float64
		)
		err := tx.QueryRowContext(ctx, `
			SELECT name, stock, price
			FROM medicines
			WHERE id = $1
			FOR UPDATE
		`, it.MedicineID).Scan(&name, &stock, &price)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return pharmacy.Sale{}, pharmacy.ErrMedicineNotFound
			}
			return pharmacy.Sale{}, err
		}
		if it.Quantity > stock {
			return pharmacy.Sale{}, pharmacy.ErrInsufficientStock
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE medicines
			SET stock = stock - $2, updated_at = $3
			WHERE id = $1
		`, it.MedicineID, it.Quantity, s.CreatedAt); err != nil {
			return pharmacy.Sale{}, err
		}

		s.Items[i].MedicineName = name
		s.Items[i].UnitPrice = price
		s.Items[i].TotalPrice = price * float64(it.Quantity)
		subtotal += s.Items[i].TotalPrice
	}

	s.Subtotal = subtotal
	s.Total = subtotal - s.Discount
	if s.Total < 0 {
		s.Total = 0
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO pharmacy_sales (`+saleColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		s.ID,
		s.CustomerID,
		s.CustomerName,
		s.CustomerPhone,
		s.SoldBy,
		s.Subtotal,
		s.Discount,
		s.Total,
		s.CreatedAt,
	); err != nil {
		return pharmacy.Sale{}, err
	}

	for _, it := range s.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO pharmacy_sale_items (
				sale_id, medicine_id, medicine_name,
				quantity, unit_price, total_price
			) VALUES ($1,$2,$3,$4,$5,$6)
		`,
			s.ID,
			it.MedicineID,
			it.MedicineName,
			it.Quantity,
			it.UnitPrice,
			it.TotalPrice,
		); err != nil {
			return pharmacy.Sale{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return pharmacy.Sale{}, err
	}
	return s, nil
}

func (r *PharmacyRepo) GetSaleByID(ctx context.Context, id string) (pharmacy.Sale, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pharmacy.Sale{}, pharmacy.ErrNotFound
	}

	var row saleRow
	err := r.db.GetContext(ctx, &row, `
		SELECT `+saleColumns+`
		FROM pharmacy_sales
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pharmacy.Sale{}, pharmacy.ErrNotFound
		}
		return pharmacy.Sale{}, err
	}

	sales := []pharmacy.Sale{row.toDomain()}
	if err := r.attachItems(ctx, sales); err != nil {
		return pharmacy.Sale{}, err
	}
	return sales[0], nil
}

func (r *PharmacyRepo) ListSales(ctx context.Context) ([]pharmacy.Sale, error) {
	var rows []saleRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+saleColumns+`
		FROM pharmacy_sales
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}

	sales := toSales(rows)
	if err := r.attachItems(ctx, sales); err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *PharmacyRepo) ListSalesBetween(ctx context.Context, from, to time.Time) ([]pharmacy.Sale, error) {
	var rows []saleRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+saleColumns+`
		FROM pharmacy_sales
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at ASC
	`, from, to)
	if err != nil {
		return nil, err
	}

	sales := toSales(rows)
	if err := r.attachItems(ctx, sales); err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *PharmacyRepo) TopSellingMedicines(ctx context.Context, from, to time.Time) ([]pharmacy.MedicineRank, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			i.medicine_id,
			i.medicine_name,
			SUM(i.quantity) AS quantity,
			SUM(i.total_price) AS revenue
		FROM pharmacy_sale_items i
		JOIN pharmacy_sales s ON s.id = i.sale_id
		WHERE s.created_at >= $1 AND s.created_at <= $2
		GROUP BY i.medicine_id, i.medicine_name
		ORDER BY SUM(i.quantity) DESC, MIN(s.created_at) ASC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pharmacy.MedicineRank, 0)
	for rows.Next() {
		var rank pharmacy.MedicineRank
		if err := rows.Scan(
			&rank.MedicineID,
			&rank.MedicineName,
			&rank.Quantity,
			&rank.Revenue,
		); err != nil {
			return nil, err
		}
		out = append(out, rank)
	}
	return out, rows.Err()
}

// attachItems carga las líneas de todas las ventas con un solo IN.
func (r *PharmacyRepo) attachItems(ctx context.Context, sales []pharmacy.Sale) error {
	if len(sales) == 0 {
		return nil
	}

	ids := make([]string, 0, len(sales))
	for _, s := range sales {
		ids = append(ids, s.ID)
	}

	query, args, err := sqlx.In(`
		SELECT sale_id, medicine_id, medicine_name, quantity, unit_price, total_price
		FROM pharmacy_sale_items
		WHERE sale_id IN (?)
		ORDER BY id ASC
	`, ids)
	if err != nil {
		return err
	}
	query = r.db.Rebind(query)

	var rows []saleItemRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return err
	}

	bySale := make(map[string][]pharmacy.SaleItem, len(sales))
	for _, row := range rows {
		bySale[row.SaleID] = append(bySale[row.SaleID], pharmacy.SaleItem{
			MedicineID:   row.MedicineID,
			MedicineName: row.MedicineName,
			Quantity:     row.Quantity,
			UnitPrice:    row.UnitPrice,
			TotalPrice:   row.TotalPrice,
		})
	}
	for i := range sales {
		sales[i].Items = bySale[sales[i].ID]
	}
	return nil
}

func toSales(rows []saleRow) []pharmacy.Sale {
	out := make([]pharmacy.Sale, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}
