package prescriptions

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/prescriptions", func(pr chi.Router) {
		pr.Get("/", listPrescriptionsHandler(svc))
		pr.Post("/", createPrescriptionHandler(svc))
		pr.Get("/patient/{patientID}", listByPatientHandler(svc))
		pr.Get("/{prescriptionID}", getPrescriptionHandler(svc))
		pr.Put("/{prescriptionID}", updatePrescriptionHandler(svc))
		pr.Delete("/{prescriptionID}", deletePrescriptionHandler(svc))
	})
}

type itemRequest struct {
	MedicineID   string `json:"medicineId"`
	MedicineName string `json:"medicineName"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Quantity     int    `json:"quantity"`
}

type prescriptionRequest struct {
	PatientID     string        `json:"patientId"`
	AppointmentID string        `json:"appointmentId"`
	Items         []itemRequest `json:"items"`
	Notes         string        `json:"notes"`
}

type prescriptionResponse struct {
	ID            string        `json:"id"`
	PatientID     string        `json:"patientId"`
	AppointmentID string        `json:"appointmentId,omitempty"`
	Items         []itemRequest `json:"items"`
	Notes         string        `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
}

func (req prescriptionRequest) toInput() CreateInput {
	in := CreateInput{
		PatientID:     req.PatientID,
		AppointmentID: req.AppointmentID,
		Notes:         req.Notes,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, ItemInput{
			MedicineID:   it.MedicineID,
			MedicineName: it.MedicineName,
			Dosage:       it.Dosage,
			Frequency:    it.Frequency,
			Duration:     it.Duration,
			Quantity:     it.Quantity,
		})
	}
	return in
}

// listPrescriptionsHandler godoc
// @Summary  Lista todas las recetas
// @Tags     prescriptions
// @Produce  json
// @Success  200 {array} prescriptionResponse
// @Router   /prescriptions [get]
func listPrescriptionsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

// createPrescriptionHandler godoc
// @Summary  Emite una receta
// @Tags     prescriptions
// @Accept   json
// @Produce  json
// @Param    prescription body prescriptionRequest true "Receta"
// @Success  201 {object} prescriptionResponse
// @Router   /prescriptions [post]
func createPrescriptionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req prescriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		p, err := svc.Create(r.Context(), req.toInput())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, toPrescriptionResponse(p))
	}
}

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

func getPrescriptionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "prescriptionID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "prescription not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toPrescriptionResponse(p))
	}
}

func updatePrescriptionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req prescriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		p, err := svc.Update(r.Context(), chi.URLParam(r, "prescriptionID"), req.toInput())
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				http.Error(w, "prescription not found", http.StatusNotFound)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}
		writeJSON(w, http.StatusOK, toPrescriptionResponse(p))
	}
}

func deletePrescriptionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "prescriptionID")); err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "prescription not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toPrescriptionResponse(p Prescription) prescriptionResponse {
	items := make([]itemRequest, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, itemRequest{
			MedicineID:   it.MedicineID,
			MedicineName: it.MedicineName,
			Dosage:       it.Dosage,
			Frequency:    it.Frequency,
			Duration:     it.Duration,
			Quantity:     it.Quantity,
		})
	}
	return prescriptionResponse{
		ID:            p.ID,
		PatientID:     p.PatientID,
		AppointmentID: p.AppointmentID,
		Items:         items,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
	}
}

func toResponses(items []Prescription) []prescriptionResponse {
	out := make([]prescriptionResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toPrescriptionResponse(p))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
