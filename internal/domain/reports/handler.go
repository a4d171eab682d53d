package reports

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

var errBadWindow = errors.New("startDate and endDate are required (RFC3339 or YYYY-MM-DD)")

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/reports", func(rr chi.Router) {
		rr.Get("/patients", patientReportHandler(svc))
		rr.Get("/appointments", appointmentReportHandler(svc))
		rr.Get("/financial", financialReportHandler(svc))
		rr.Get("/pharmacy", pharmacyReportHandler(svc))
	})
}

// parseWindow acepta timestamps RFC3339 (lo que manda el frontend) o
// fechas YYYY-MM-DD; en ese caso expande endDate a fin de día para que
// el intervalo sea cerrado.
func parseWindow(r *http.Request) (time.Time, time.Time, error) {
	start := strings.TrimSpace(r.URL.Query().Get("startDate"))
	end := strings.TrimSpace(r.URL.Query().Get("endDate"))
	if start == "" || end == "" {
		return time.Time{}, time.Time{}, errBadWindow
	}

	from, err := parseDate(start, false)
	if err != nil {
		return time.Time{}, time.Time{}, errBadWindow
	}
	to, err := parseDate(end, true)
	if err != nil {
		return time.Time{}, time.Time{}, errBadWindow
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errBadWindow
	}
	return from, to, nil
}

func parseDate(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t, nil
}

// patientReportHandler godoc
// @Summary  Estadísticas de pacientes
// @Tags     reports
// @Produce  json
// @Param    startDate query string true "Inicio de la ventana"
// @Param    endDate   query string true "Fin de la ventana (inclusive)"
// @Success  200 {object} PatientStats
// @Router   /reports/patients [get]
func patientReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, err := parseWindow(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		stats, err := svc.PatientStatistics(r.Context(), from, to)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// appointmentReportHandler godoc
// @Summary  Estadísticas de citas
// @Tags     reports
// @Produce  json
// @Param    startDate query string true "Inicio de la ventana"
// @Param    endDate   query string true "Fin de la ventana (inclusive)"
// @Success  200 {object} AppointmentStats
// @Router   /reports/appointments [get]
func appointmentReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, err := parseWindow(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		stats, err := svc.AppointmentStatistics(r.Context(), from, to)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// financialReportHandler godoc
// @Summary  Estadísticas financieras
// @Tags     reports
// @Produce  json
// @Param    startDate query string true "Inicio de la ventana"
// @Param    endDate   query string true "Fin de la ventana (inclusive)"
// @Success  200 {object} FinancialStats
// @Router   /reports/financial [get]
func financialReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, err := parseWindow(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		stats, err := svc.FinancialStatistics(r.Context(), from, to)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// pharmacyReportHandler godoc
// @Summary  Estadísticas de farmacia
// @Tags     reports
// @Produce  json
// @Param    startDate query string true "Inicio de la ventana"
// @Param    endDate   query string true "Fin de la ventana (inclusive)"
// @Success  200 {object} PharmacyStats
// @Router   /reports/pharmacy [get]
func pharmacyReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, err := parseWindow(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		stats, err := svc.PharmacyStatistics(r.Context(), from, to)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
