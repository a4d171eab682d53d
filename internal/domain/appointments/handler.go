package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Get("/", listAppointmentsHandler(svc))
		ar.Post("/", createAppointmentHandler(svc))

		// Vistas de calendario del frontend: por día y por rango libre
		// (mes y semana se resuelven con /range).
		ar.Get("/date/{date}", listByDateHandler(svc))
		ar.Get("/range", listByRangeHandler(svc))
		ar.Get("/patient/{patientID}", listByPatientHandler(svc))

		ar.Get("/{appointmentID}", getAppointmentHandler(svc))
		ar.Put("/{appointmentID}", updateAppointmentHandler(svc))
		ar.Delete("/{appointmentID}", deleteAppointmentHandler(svc))
	})
}

type appointmentRequest struct {
	PatientID string   `json:"patientId"`
	Date      string   `json:"date"` // YYYY-MM-DD
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	Type      string   `json:"type"`
	Status    string   `json:"status"`
	Notes     string   `json:"notes"`
	Amount    *float64 `json:"amount"`
}

type appointmentResponse struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patientId"`
	Date      string    `json:"date"`
	StartTime string    `json:"startTime,omitempty"`
	EndTime   string    `json:"endTime,omitempty"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	Amount    *float64  `json:"amount,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (req appointmentRequest) toInput() (CreateInput, error) {
	var date time.Time
	if strings.TrimSpace(req.Date) != "" {
		t, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return CreateInput{}, err
		}
		date = t
	}
	return CreateInput{
		PatientID: req.PatientID,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Type:      req.Type,
		Status:    req.Status,
		Notes:     req.Notes,
		Amount:    req.Amount,
	}, nil
}

// listAppointmentsHandler godoc
// @Summary  Lista todas las citas
// @Tags     appointments
// @Produce  json
// @Success  200 {array} appointmentResponse
// @Router   /appointments [get]
func listAppointmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

// createAppointmentHandler godoc
// @Summary  Agenda una cita
// @Tags     appointments
// @Accept   json
// @Produce  json
// @Param    appointment body appointmentRequest true "Cita"
// @Success  201 {object} appointmentResponse
// @Router   /appointments [post]
func createAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req appointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		in, err := req.toInput()
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), in)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, toResponse(a))
	}
}

// listByDateHandler godoc
// @Summary  Citas de un día
// @Tags     appointments
// @Produce  json
// @Param    date path string true "YYYY-MM-DD"
// @Success  200 {array} appointmentResponse
// @Router   /appointments/date/{date} [get]
func listByDateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := time.Parse("2006-01-02", chi.URLParam(r, "date"))
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		items, err := svc.ListByDate(r.Context(), day)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

// listByRangeHandler godoc
// @Summary  Citas en un rango [from, to]
// @Tags     appointments
// @Produce  json
// @Param    from query string true "YYYY-MM-DD"
// @Param    to   query string true "YYYY-MM-DD"
// @Success  200 {array} appointmentResponse
// @Router   /appointments/range [get]
func listByRangeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, err1 := time.Parse("2006-01-02", r.URL.Query().Get("from"))
		to, err2 := time.Parse("2006-01-02", r.URL.Query().Get("to"))
		if err1 != nil || err2 != nil {
			http.Error(w, "from and to must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		// to inclusivo hasta fin de día
		to = to.Add(24*time.Hour - time.Second)

		items, err := svc.ListBetween(r.Context(), from, to)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

// listByPatientHandler godoc
// @Summary  Citas de un paciente
// @Tags     appointments
// @Produce  json
// @Param    patientID path string true "ID del paciente"
// @Success  200 {array} appointmentResponse
// @Router   /appointments/patient/{patientID} [get]
func listByPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByPatient(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

func getAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "appointment not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(a))
	}
}

func updateAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req appointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		in, err := req.toInput()
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		a, err := svc.Update(r.Context(), chi.URLParam(r, "appointmentID"), in)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				http.Error(w, "appointment not found", http.StatusNotFound)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}
		writeJSON(w, http.StatusOK, toResponse(a))
	}
}

func deleteAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "appointmentID")); err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "appointment not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toResponse(a Appointment) appointmentResponse {
	return appointmentResponse{
		ID:        a.ID,
		PatientID: a.PatientID,
		Date:      a.Date.Format("2006-01-02"),
		StartTime: a.StartTime,
		EndTime:   a.EndTime,
		Type:      a.Type,
		Status:    string(a.Status),
		Notes:     a.Notes,
		Amount:    a.Amount,
		CreatedAt: a.CreatedAt,
	}
}

func toResponses(items []Appointment) []appointmentResponse {
	out := make([]appointmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toResponse(a))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
