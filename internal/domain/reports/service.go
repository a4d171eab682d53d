package reports

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"dentalcare-backend/internal/domain/appointments"
	"dentalcare-backend/internal/domain/medicines"
	"dentalcare-backend/internal/domain/patients"
	"dentalcare-backend/internal/domain/pharmacy"
)

// Interfaces de lectura que el motor de reportes necesita del store.
// Los repositorios completos de cada módulo las satisfacen tal cual.

type PatientSource interface {
	CountAll(ctx context.Context) (int64, error)
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]patients.Patient, error)
}

type AppointmentSource interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]appointments.Appointment, error)
	CountPatientsWithMultipleAppointments(ctx context.Context, from, to time.Time) (int64, error)
}

type SaleSource interface {
	ListSalesBetween(ctx context.Context, from, to time.Time) ([]pharmacy.Sale, error)
	TopSellingMedicines(ctx context.Context, from, to time.Time) ([]pharmacy.MedicineRank, error)
}

type MedicineSource interface {
	List(ctx context.Context) ([]medicines.Medicine, error)
}

type Service struct {
	patients     PatientSource
	appointments AppointmentSource
	sales        SaleSource
	medicines    MedicineSource

	// Umbral de stock para alertas de reposición (configurable; el
	// valor histórico es 20 unidades).
	reorderPoint int

	log *logrus.Logger
	now func() time.Time
}

func NewService(
	p PatientSource,
	a AppointmentSource,
	s SaleSource,
	m MedicineSource,
	reorderPoint int,
	log *logrus.Logger,
) *Service {
	return &Service{
		patients:     p,
		appointments: a,
		sales:        s,
		medicines:    m,
		reorderPoint: reorderPoint,
		log:          log,
		now:          time.Now,
	}
}

// PatientStatistics arma el bloque demográfico: altas en la ventana,
// recurrentes (más de una cita en la ventana), edad promedio de las
// altas y distribución por género, más la serie mensual.
func (s *Service) PatientStatistics(ctx context.Context, from, to time.Time) (PatientStats, error) {
	stats := PatientStats{
		GenderDistribution: map[string]int64{},
		MonthlyTrends:      []PatientTrendPoint{},
	}

	total, err := s.patients.CountAll(ctx)
	if err != nil {
		return PatientStats{}, err
	}
	stats.TotalPatients = total

	newPatients, err := s.patients.ListCreatedBetween(ctx, from, to)
	if err != nil {
		return PatientStats{}, err
	}
	stats.NewPatients = len(newPatients)

	returning, err := s.appointments.CountPatientsWithMultipleAppointments(ctx, from, to)
	if err != nil {
		return PatientStats{}, err
	}
	stats.ReturningPatients = returning

	// Edad promedio en años cumplidos a hoy; 0 sin altas en la ventana.
	if len(newPatients) > 0 {
		now := s.now()
		var sum int
		for _, p := range newPatients {
			sum += ageYears(p.DateOfBirth, now)
		}
		stats.AverageAge = float64(sum) / float64(len(newPatients))
	}

	for _, p := range newPatients {
		stats.GenderDistribution[p.Gender]++
	}

	err = forEachMonth(from, to, func(label string, mFrom, mTo time.Time) error {
		monthly, err := s.patients.ListCreatedBetween(ctx, mFrom, mTo)
		if err != nil {
			return err
		}
		monthlyReturning, err := s.appointments.CountPatientsWithMultipleAppointments(ctx, mFrom, mTo)
		if err != nil {
			return err
		}
		stats.MonthlyTrends = append(stats.MonthlyTrends, PatientTrendPoint{
			Date:              label,
			NewPatients:       len(monthly),
			ReturningPatients: monthlyReturning,
		})
		return nil
	})
	if err != nil {
		return PatientStats{}, err
	}

	return stats, nil
}

// AppointmentStatistics cuenta citas de la ventana: total, los tres
// estados que interesan a reportes y la distribución por tipo. Estados
// fuera de completed/cancelled/no-show solo suman al total.
func (s *Service) AppointmentStatistics(ctx context.Context, from, to time.Time) (AppointmentStats, error) {
	stats := AppointmentStats{
		TypeDistribution: map[string]int64{},
		MonthlyTrends:    []AppointmentTrendPoint{},
	}

	appts, err := s.appointments.ListBetween(ctx, from, to)
	if err != nil {
		return AppointmentStats{}, err
	}
	stats.TotalAppointments = len(appts)

	for _, a := range appts {
		switch a.Status {
		case appointments.StatusCompleted:
			stats.CompletedAppointments++
		case appointments.StatusCancelled:
			stats.CancelledAppointments++
		case appointments.StatusNoShow:
			stats.NoShowAppointments++
		}
		stats.TypeDistribution[a.Type]++
	}

	err = forEachMonth(from, to, func(label string, mFrom, mTo time.Time) error {
		monthly, err := s.appointments.ListBetween(ctx, mFrom, mTo)
		if err != nil {
			return err
		}
		point := AppointmentTrendPoint{Date: label, Total: len(monthly)}
		for _, a := range monthly {
			switch a.Status {
			case appointments.StatusCompleted:
				point.Completed++
			case appointments.StatusCancelled:
				point.Cancelled++
			case appointments.StatusNoShow:
				point.NoShow++
			}
		}
		stats.MonthlyTrends = append(stats.MonthlyTrends, point)
		return nil
	})
	if err != nil {
		return AppointmentStats{}, err
	}

	return stats, nil
}

// FinancialStatistics combina ingresos de citas (amount nulo vale 0) e
// ingresos de farmacia. Los promedios sobre colecciones vacías son 0,
// nunca error.
func (s *Service) FinancialStatistics(ctx context.Context, from, to time.Time) (FinancialStats, error) {
	stats := FinancialStats{
		MonthlyTrends: []RevenueTrendPoint{},
		TopProcedures: []ProcedureRank{},
	}

	appts, err := s.appointments.ListBetween(ctx, from, to)
	if err != nil {
		return FinancialStats{}, err
	}
	sales, err := s.sales.ListSalesBetween(ctx, from, to)
	if err != nil {
		return FinancialStats{}, err
	}

	stats.AppointmentRevenue = sumAppointmentRevenue(appts)
	stats.PharmacyRevenue = sumSaleRevenue(sales)
	stats.TotalRevenue = stats.AppointmentRevenue + stats.PharmacyRevenue

	if len(appts) > 0 {
		stats.AverageAppointmentValue = stats.AppointmentRevenue / float64(len(appts))
	}
	if len(sales) > 0 {
		stats.AveragePharmacySale = stats.PharmacyRevenue / float64(len(sales))
	}

	err = forEachMonth(from, to, func(label string, mFrom, mTo time.Time) error {
		monthlyAppts, err := s.appointments.ListBetween(ctx, mFrom, mTo)
		if err != nil {
			return err
		}
		monthlySales, err := s.sales.ListSalesBetween(ctx, mFrom, mTo)
		if err != nil {
			return err
		}
		apptRevenue := sumAppointmentRevenue(monthlyAppts)
		pharmacyRevenue := sumSaleRevenue(monthlySales)
		stats.MonthlyTrends = append(stats.MonthlyTrends, RevenueTrendPoint{
			Date:               label,
			TotalRevenue:       apptRevenue + pharmacyRevenue,
			AppointmentRevenue: apptRevenue,
			PharmacyRevenue:    pharmacyRevenue,
		})
		return nil
	})
	if err != nil {
		return FinancialStats{}, err
	}

	stats.TopProcedures = topProcedures(appts)
	return stats, nil
}

// PharmacyStatistics resume ventas del período, ranking de medicamentos
// (pre-agregado por el store) y alertas de stock sobre el catálogo
// completo.
func (s *Service) PharmacyStatistics(ctx context.Context, from, to time.Time) (PharmacyStats, error) {
	stats := PharmacyStats{
		TopSellingMedicines: []TopMedicine{},
		MonthlyTrends:       []SalesTrendPoint{},
		StockAlerts:         []StockAlert{},
	}

	sales, err := s.sales.ListSalesBetween(ctx, from, to)
	if err != nil {
		return PharmacyStats{}, err
	}

	stats.TotalSales = len(sales)
	stats.TotalRevenue = sumSaleRevenue(sales)
	if len(sales) > 0 {
		stats.AverageSaleValue = stats.TotalRevenue / float64(len(sales))
	}

	ranking, err := s.sales.TopSellingMedicines(ctx, from, to)
	if err != nil {
		return PharmacyStats{}, err
	}
	for _, row := range ranking {
		stats.TopSellingMedicines = append(stats.TopSellingMedicines, TopMedicine{
			MedicineID:   row.MedicineID,
			MedicineName: row.MedicineName,
			Quantity:     row.Quantity,
			Revenue:      row.Revenue,
		})
	}

	// La serie mensual se arma filtrando las ventas ya traídas para la
	// ventana; acá no hay re-consulta al store.
	err = forEachMonth(from, to, func(label string, mFrom, mTo time.Time) error {
		point := SalesTrendPoint{Date: label}
		for _, sale := range sales {
			if sale.CreatedAt.Before(mFrom) || sale.CreatedAt.After(mTo) {
				continue
			}
			point.Sales++
			point.Revenue += sale.Total
		}
		stats.MonthlyTrends = append(stats.MonthlyTrends, point)
		return nil
	})
	if err != nil {
		return PharmacyStats{}, err
	}

	catalog, err := s.medicines.List(ctx)
	if err != nil {
		return PharmacyStats{}, err
	}
	for _, m := range catalog {
		if m.Stock <= s.reorderPoint {
			stats.StockAlerts = append(stats.StockAlerts, StockAlert{
				MedicineID:   m.ID,
				MedicineName: m.Name,
				CurrentStock: m.Stock,
				ReorderPoint: s.reorderPoint,
			})
		}
	}

	return stats, nil
}

func sumAppointmentRevenue(appts []appointments.Appointment) float64 {
	var sum float64
	for _, a := range appts {
		if a.Amount != nil {
			sum += *a.Amount
		}
	}
	return sum
}

func sumSaleRevenue(sales []pharmacy.Sale) float64 {
	var sum float64
	for _, s := range sales {
		sum += s.Total
	}
	return sum
}

// topProcedures agrupa citas por tipo y ordena por facturación
// descendente. En empates conserva el orden de primera aparición.
func topProcedures(appts []appointments.Appointment) []ProcedureRank {
	index := map[string]int{}
	ranks := []ProcedureRank{}

	for _, a := range appts {
		i, ok := index[a.Type]
		if !ok {
			i = len(ranks)
			index[a.Type] = i
			ranks = append(ranks, ProcedureRank{Type: a.Type})
		}
		ranks[i].Count++
		if a.Amount != nil {
			ranks[i].Revenue += *a.Amount
		}
	}

	// Orden estable: los grupos ya vienen en orden de aparición, así
	// que los empates conservan ese orden.
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Revenue > ranks[j].Revenue
	})
	return ranks
}
