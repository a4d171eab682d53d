package pharmacy

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("sale not found")
	ErrCustomerNotFound = errors.New("customer not found")
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

// Customers

type CustomerInput struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

func (s *Service) CreateCustomer(ctx context.Context, in CustomerInput) (Customer, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Phone) == "" {
		return Customer{}, ErrInvalidInput
	}

	c := Customer{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
		Address:   strings.TrimSpace(in.Address),
		CreatedAt: s.now(),
	}

	if err := s.repo.CreateCustomer(ctx, c); err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (s *Service) GetCustomerByPhone(ctx context.Context, phone string) (Customer, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return Customer{}, ErrInvalidInput
	}
	c, err := s.repo.GetCustomerByPhone(ctx, phone)
	if err != nil {
		// ErrCustomerNotFound viene del repo; otras fallas del store
		// se propagan tal cual.
		return Customer{}, err
	}
	return c, nil
}

// Sales

type SaleItemInput struct {
	MedicineID string
	Quantity   int
}

type SaleInput struct {
	CustomerPhone string
	Items         []SaleItemInput
	Discount      float64

	// SoldBy viene de los claims del request, no del body.
	SoldBy string
}

// CreateSale valida la venta y delega la unidad atómica al repositorio:
// chequeo de stock por línea, descuento de stock y alta de la venta
// comparten una sola transacción. El cliente se resuelve primero por
// teléfono; si no existe la venta ni se intenta.
func (s *Service) CreateSale(ctx context.Context, in SaleInput) (Sale, error) {
	if strings.TrimSpace(in.CustomerPhone) == "" || len(in.Items) == 0 {
		return Sale{}, ErrInvalidInput
	}
	if in.Discount < 0 {
		return Sale{}, ErrInvalidInput
	}
	for _, item := range in.Items {
		if strings.TrimSpace(item.MedicineID) == "" || item.Quantity <= 0 {
			return Sale{}, ErrInvalidInput
		}
	}

	customer, err := s.repo.GetCustomerByPhone(ctx, strings.TrimSpace(in.CustomerPhone))
	if err != nil {
		return Sale{}, err
	}

	sale := Sale{
		ID:            uuid.NewString(),
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		CustomerPhone: customer.Phone,
		SoldBy:        strings.TrimSpace(in.SoldBy),
		Discount:      in.Discount,
		CreatedAt:     s.now(),
	}
	for _, item := range in.Items {
		sale.Items = append(sale.Items, SaleItem{
			MedicineID: strings.TrimSpace(item.MedicineID),
			Quantity:   item.Quantity,
		})
	}

	created, err := s.repo.CreateSale(ctx, sale)
	if err != nil {
		return Sale{}, err
	}

	s.log.WithFields(logrus.Fields{
		"sale_id":  created.ID,
		"customer": created.CustomerPhone,
		"sold_by":  created.SoldBy,
		"items":    len(created.Items),
		"total":    created.Total,
	}).Info("pharmacy sale created")
	return created, nil
}

func (s *Service) GetSaleByID(ctx context.Context, id string) (Sale, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Sale{}, ErrInvalidInput
	}
	sale, err := s.repo.GetSaleByID(ctx, id)
	if err != nil {
		return Sale{}, err
	}
	return sale, nil
}

func (s *Service) ListSales(ctx context.Context) ([]Sale, error) {
	return s.repo.ListSales(ctx)
}
