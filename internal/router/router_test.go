package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"dentalcare-backend/internal/router"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	ts := httptest.NewServer(router.NewRouter(router.Options{
		Log:               log,
		StockReorderPoint: 20,
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_ClinicFlow(t *testing.T) {
	ts := newTestServer(t)

	// 1) Alta de paciente
	patientID := createResource(t, ts.URL, "/patients", map[string]any{
		"firstName":   "Ana",
		"lastName":    "García",
		"email":       "ana@example.com",
		"dateOfBirth": "1990-06-15",
		"gender":      "female",
	})

	// 2) Cita completada con monto facturado
	_ = createResource(t, ts.URL, "/appointments", map[string]any{
		"patientId": patientID,
		"date":      time.Now().UTC().Format("2006-01-02"),
		"startTime": "09:00",
		"endTime":   "09:30",
		"type":      "cleaning",
		"status":    "completed",
		"amount":    150.0,
	})

	// 3) Medicamento con stock corto
	medicineID := createResource(t, ts.URL, "/medicines", map[string]any{
		"name":  "Ibuprofeno",
		"type":  "analgesic",
		"stock": 5,
		"unit":  "box",
		"price": 10.0,
	})

	// 4) Cliente de farmacia
	_ = createResource(t, ts.URL, "/pharmacy-customers", map[string]any{
		"name":  "Carlos",
		"phone": "555-0001",
	})

	// 5) Venta válida descuenta stock
	{
		st, body := doReqAs(t, ts.URL, "POST", "/pharmacy-sales", "dr-lopez", map[string]any{
			"customerPhone": "555-0001",
			"items": []map[string]any{
				{"medicineId": medicineID, "quantity": 2},
			},
			"discount": 5.0,
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create sale, got %d body=%s", st, string(body))
		}

		var sale struct {
			Subtotal float64 `json:"subtotal"`
			Total    float64 `json:"total"`
			SoldBy   string  `json:"soldBy"`
		}
		_ = json.Unmarshal(body, &sale)
		if sale.Subtotal != 20 || sale.Total != 15 {
			t.Fatalf("sale totals = %+v body=%s", sale, string(body))
		}
		if sale.SoldBy != "dr-lopez" {
			t.Fatalf("soldBy = %q, expected dr-lopez", sale.SoldBy)
		}
	}
	assertStock(t, ts.URL, medicineID, 3)

	// 6) Venta sin stock suficiente => 409 y nada cambia
	{
		st, _ := doReqAs(t, ts.URL, "POST", "/pharmacy-sales", "dr-lopez", map[string]any{
			"customerPhone": "555-0001",
			"items": []map[string]any{
				{"medicineId": medicineID, "quantity": 10},
			},
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 insufficient stock, got %d", st)
		}
	}
	assertStock(t, ts.URL, medicineID, 3)

	// 7) Cliente desconocido => 404
	{
		st, _ := doReqAs(t, ts.URL, "POST", "/pharmacy-sales", "dr-lopez", map[string]any{
			"customerPhone": "555-9999",
			"items": []map[string]any{
				{"medicineId": medicineID, "quantity": 1},
			},
		})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 unknown customer, got %d", st)
		}
	}

	// 8) Medicamento desconocido => 404
	{
		st, _ := doReqAs(t, ts.URL, "POST", "/pharmacy-sales", "dr-lopez", map[string]any{
			"customerPhone": "555-0001",
			"items": []map[string]any{
				{"medicineId": "ghost", "quantity": 1},
			},
		})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 unknown medicine, got %d", st)
		}
	}

	// 9) Reportes sobre la ventana del mes actual
	from := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	to := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	window := "?startDate=" + from + "&endDate=" + to

	{
		st, body := doReq(t, ts.URL, "GET", "/reports/patients"+window, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 patients report, got %d body=%s", st, string(body))
		}
		var report struct {
			TotalPatients int64 `json:"totalPatients"`
			NewPatients   int   `json:"newPatients"`
		}
		_ = json.Unmarshal(body, &report)
		if report.TotalPatients != 1 || report.NewPatients != 1 {
			t.Fatalf("patients report = %+v body=%s", report, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/reports/financial"+window, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 financial report, got %d body=%s", st, string(body))
		}
		var report struct {
			TotalRevenue       float64 `json:"totalRevenue"`
			AppointmentRevenue float64 `json:"appointmentRevenue"`
			PharmacyRevenue    float64 `json:"pharmacyRevenue"`
		}
		_ = json.Unmarshal(body, &report)
		if report.AppointmentRevenue != 150 || report.PharmacyRevenue != 15 || report.TotalRevenue != 165 {
			t.Fatalf("financial report = %+v body=%s", report, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/reports/pharmacy"+window, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 pharmacy report, got %d body=%s", st, string(body))
		}
		var report struct {
			TotalSales  int `json:"totalSales"`
			StockAlerts []struct {
				MedicineID   string `json:"medicineId"`
				CurrentStock int    `json:"currentStock"`
			} `json:"stockAlerts"`
		}
		_ = json.Unmarshal(body, &report)
		if report.TotalSales != 1 {
			t.Fatalf("pharmacy report = %+v body=%s", report, string(body))
		}
		// Con stock 3 y umbral 20, el medicamento alerta.
		if len(report.StockAlerts) != 1 || report.StockAlerts[0].CurrentStock != 3 {
			t.Fatalf("stock alerts = %+v body=%s", report.StockAlerts, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/reports/appointments"+window, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 appointments report, got %d body=%s", st, string(body))
		}
	}

	// 10) Ventana incompleta => 400
	{
		st, _ := doReq(t, ts.URL, "GET", "/reports/patients?startDate="+from, nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 without endDate, got %d", st)
		}
	}
}

func TestHTTP_CreateSale_RequiresUser(t *testing.T) {
	ts := newTestServer(t)

	medicineID := createResource(t, ts.URL, "/medicines", map[string]any{
		"name":  "Ibuprofeno 400mg",
		"stock": 10,
		"price": 8.0,
	})
	_ = createResource(t, ts.URL, "/pharmacy-customers", map[string]any{
		"name":  "Lucía",
		"phone": "555-0100",
	})

	payload := map[string]any{
		"customerPhone": "555-0100",
		"items": []map[string]any{
			{"medicineId": medicineID, "quantity": 3},
		},
	}

	// Sin identidad la venta se rechaza y el stock no se toca.
	{
		st, _ := doReq(t, ts.URL, "POST", "/pharmacy-sales", payload)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without user, got %d", st)
		}
	}
	assertStock(t, ts.URL, medicineID, 10)

	// Con identidad de dev la venta pasa y queda atribuida.
	{
		st, body := doReqAs(t, ts.URL, "POST", "/pharmacy-sales", "recepcion-01", payload)
		if st != http.StatusCreated {
			t.Fatalf("expected 201 with user, got %d body=%s", st, string(body))
		}
		var sale struct {
			SoldBy string `json:"soldBy"`
		}
		_ = json.Unmarshal(body, &sale)
		if sale.SoldBy != "recepcion-01" {
			t.Fatalf("soldBy = %q, expected recepcion-01", sale.SoldBy)
		}
	}
	assertStock(t, ts.URL, medicineID, 7)
}

func TestHTTP_Health(t *testing.T) {
	ts := newTestServer(t)

	st, body := doReq(t, ts.URL, "GET", "/health", nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("health = %d %q", st, string(body))
	}
}

func TestHTTP_PatientCRUD(t *testing.T) {
	ts := newTestServer(t)

	patientID := createResource(t, ts.URL, "/patients", map[string]any{
		"firstName":   "Ana",
		"lastName":    "García",
		"dateOfBirth": "1990-06-15",
	})

	// GET
	{
		st, body := doReq(t, ts.URL, "GET", "/patients/"+patientID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get patient, got %d body=%s", st, string(body))
		}
	}

	// PUT sobreescribe
	{
		st, body := doReq(t, ts.URL, "PUT", "/patients/"+patientID, map[string]any{
			"firstName":   "Ana María",
			"lastName":    "García",
			"dateOfBirth": "1990-06-15",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 update patient, got %d body=%s", st, string(body))
		}
		var resp struct {
			FirstName string `json:"firstName"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.FirstName != "Ana María" {
			t.Fatalf("firstName = %q", resp.FirstName)
		}
	}

	// DELETE y luego 404
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/patients/"+patientID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete patient, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/patients/"+patientID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", st)
		}
	}

	// Fecha de nacimiento futura => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/patients", map[string]any{
			"firstName":   "Ana",
			"lastName":    "García",
			"dateOfBirth": time.Now().UTC().AddDate(1, 0, 0).Format("2006-01-02"),
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for future DOB, got %d", st)
		}
	}
}

func createResource(t *testing.T, baseURL, path string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", path, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 POST %s, got %d body=%s", path, st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("POST %s: missing id body=%s", path, string(body))
	}
	return resp.ID
}

func assertStock(t *testing.T, baseURL, medicineID string, want int) {
	t.Helper()

	st, body := doReq(t, baseURL, "GET", "/medicines/"+medicineID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 get medicine, got %d body=%s", st, string(body))
	}
	var resp struct {
		Stock int `json:"stock"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Stock != want {
		t.Fatalf("stock = %d, expected %d", resp.Stock, want)
	}
}

func doReq(t *testing.T, baseURL, method, path string, payload map[string]any) (int, []byte) {
	t.Helper()
	return doReqAs(t, baseURL, method, path, "", payload)
}

// doReqAs manda la request con identidad de dev (X-Debug-User-ID) cuando
// user no está vacío.
func doReqAs(t *testing.T, baseURL, method, path, user string, payload map[string]any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("X-Debug-User-ID", user)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, raw
}
