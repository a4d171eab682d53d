package pharmacy

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"dentalcare-backend/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pharmacy-sales", func(sr chi.Router) {
		sr.Get("/", listSalesHandler(svc))
		sr.Post("/", createSaleHandler(svc))
		sr.Get("/{saleID}", getSaleHandler(svc))
	})

	r.Route("/pharmacy-customers", func(cr chi.Router) {
		cr.Post("/", createCustomerHandler(svc))
		cr.Get("/phone/{phone}", getCustomerByPhoneHandler(svc))
	})
}

type customerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type customerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type saleItemRequest struct {
	MedicineID string `json:"medicineId"`
	Quantity   int    `json:"quantity"`
}

type saleRequest struct {
	CustomerPhone string            `json:"customerPhone"`
	Items         []saleItemRequest `json:"items"`
	Discount      float64           `json:"discount"`
}

type saleItemResponse struct {
	MedicineID   string  `json:"medicineId"`
	MedicineName string  `json:"medicineName"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unitPrice"`
	TotalPrice   float64 `json:"totalPrice"`
}

type saleResponse struct {
	ID            string             `json:"id"`
	CustomerID    string             `json:"customerId"`
	CustomerName  string             `json:"customerName"`
	CustomerPhone string             `json:"customerPhone"`
	SoldBy        string             `json:"soldBy,omitempty"`
	Items         []saleItemResponse `json:"items"`
	Subtotal      float64            `json:"subtotal"`
	Discount      float64            `json:"discount"`
	Total         float64            `json:"total"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// listSalesHandler godoc
// @Summary  Lista las ventas de farmacia
// @Tags     pharmacy
// @Produce  json
// @Success  200 {array} saleResponse
// @Router   /pharmacy-sales [get]
func listSalesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListSales(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]saleResponse, 0, len(items))
		for _, s := range items {
			out = append(out, toSaleResponse(s))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// createSaleHandler godoc
// @Summary  Crea una venta de farmacia
// @Description  Descuenta stock y registra la venta como unidad atómica. Requiere usuario autenticado: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod); la venta queda registrada a su nombre.
// @Tags     pharmacy
// @Accept   json
// @Produce  json
// @Param    X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param    Authorization header string false "Bearer token en producción"
// @Param    sale body saleRequest true "Venta"
// @Success  201 {object} saleResponse
// @Failure  401 {string} string "unauthorized"
// @Failure  404 {string} string "customer or medicine not found"
// @Failure  409 {string} string "insufficient stock"
// @Router   /pharmacy-sales [post]
func createSaleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req saleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := SaleInput{
			CustomerPhone: req.CustomerPhone,
			Discount:      req.Discount,
			SoldBy:        claims.UserID,
		}
		for _, item := range req.Items {
			in.Items = append(in.Items, SaleItemInput{
				MedicineID: item.MedicineID,
				Quantity:   item.Quantity,
			})
		}

		sale, err := svc.CreateSale(r.Context(), in)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrCustomerNotFound):
				http.Error(w, "customer not found", http.StatusNotFound)
			case errors.Is(err, ErrMedicineNotFound):
				http.Error(w, "medicine not found", http.StatusNotFound)
			case errors.Is(err, ErrInsufficientStock):
				http.Error(w, "insufficient stock", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}
		writeJSON(w, http.StatusCreated, toSaleResponse(sale))
	}
}

func getSaleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sale, err := svc.GetSaleByID(r.Context(), chi.URLParam(r, "saleID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "sale not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toSaleResponse(sale))
	}
}

// createCustomerHandler godoc
// @Summary  Alta de cliente de farmacia
// @Tags     pharmacy
// @Accept   json
// @Produce  json
// @Param    customer body customerRequest true "Cliente"
// @Success  201 {object} customerResponse
// @Router   /pharmacy-customers [post]
func createCustomerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req customerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		c, err := svc.CreateCustomer(r.Context(), CustomerInput{
			Name:    req.Name,
			Phone:   req.Phone,
			Email:   req.Email,
			Address: req.Address,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, toCustomerResponse(c))
	}
}

func getCustomerByPhoneHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetCustomerByPhone(r.Context(), chi.URLParam(r, "phone"))
		if err != nil {
			if errors.Is(err, ErrCustomerNotFound) {
				http.Error(w, "customer not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toCustomerResponse(c))
	}
}

func toCustomerResponse(c Customer) customerResponse {
	return customerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
	}
}

func toSaleResponse(s Sale) saleResponse {
	items := make([]saleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, saleItemResponse{
			MedicineID:   it.MedicineID,
			MedicineName: it.MedicineName,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			TotalPrice:   it.TotalPrice,
		})
	}
	return saleResponse{
		ID:            s.ID,
		CustomerID:    s.CustomerID,
		CustomerName:  s.CustomerName,
		SoldBy:        s.SoldBy,
		CustomerPhone: s.CustomerPhone,
		Items:         items,
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		Total:         s.Total,
		CreatedAt:     s.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
