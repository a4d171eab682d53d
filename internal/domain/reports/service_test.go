package reports

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"dentalcare-backend/internal/domain/appointments"
	"dentalcare-backend/internal/domain/medicines"
	"dentalcare-backend/internal/domain/patients"
	"dentalcare-backend/internal/domain/pharmacy"
)

// -------------------------
// Fuentes fake (in-memory)
// -------------------------

type testPatients struct {
	all []patients.Patient
}

func (f *testPatients) CountAll(ctx context.Context) (int64, error) {
	return int64(len(f.all)), nil
}

func (f *testPatients) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]patients.Patient, error) {
	out := make([]patients.Patient, 0)
	for _, p := range f.all {
		if p.CreatedAt.Before(from) || p.CreatedAt.After(to) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type testAppointments struct {
	all []appointments.Appointment
}

func (f *testAppointments) ListBetween(ctx context.Context, from, to time.Time) ([]appointments.Appointment, error) {
	out := make([]appointments.Appointment, 0)
	for _, a := range f.all {
		if a.Date.Before(from) || a.Date.After(to) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *testAppointments) CountPatientsWithMultipleAppointments(ctx context.Context, from, to time.Time) (int64, error) {
	perPatient := map[string]int{}
	for _, a := range f.all {
		if a.Date.Before(from) || a.Date.After(to) {
			continue
		}
		perPatient[a.PatientID]++
	}
	var n int64
	for _, c := range perPatient {
		if c > 1 {
			n++
		}
	}
	return n, nil
}

type testSales struct {
	all     []pharmacy.Sale
	ranking []pharmacy.MedicineRank
}

func (f *testSales) ListSalesBetween(ctx context.Context, from, to time.Time) ([]pharmacy.Sale, error) {
	out := make([]pharmacy.Sale, 0)
	for _, s := range f.all {
		if s.CreatedAt.Before(from) || s.CreatedAt.After(to) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *testSales) TopSellingMedicines(ctx context.Context, from, to time.Time) ([]pharmacy.MedicineRank, error) {
	return f.ranking, nil
}

type testMedicines struct {
	all []medicines.Medicine
}

func (f *testMedicines) List(ctx context.Context) ([]medicines.Medicine, error) {
	return f.all, nil
}

func newTestService(p *testPatients, a *testAppointments, s *testSales, m *testMedicines, reorderPoint int) *Service {
	if p == nil {
		p = &testPatients{}
	}
	if a == nil {
		a = &testAppointments{}
	}
	if s == nil {
		s = &testSales{}
	}
	if m == nil {
		m = &testMedicines{}
	}

	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(p, a, s, m, reorderPoint, log)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func amount(v float64) *float64 { return &v }

// -------------------------
// forEachMonth / ageYears
// -------------------------

func TestForEachMonth_SingleMonth(t *testing.T) {
	from := date(2024, time.March, 5)
	to := date(2024, time.March, 20)

	var labels []string
	err := forEachMonth(from, to, func(label string, mFrom, mTo time.Time) error {
		labels = append(labels, label)

		if got := mFrom.Format("2006-01-02 15:04:05"); got != "2024-03-01 00:00:00" {
			t.Fatalf("month start = %s", got)
		}
		if got := mTo.Format("2006-01-02 15:04:05"); got != "2024-03-31 23:59:59" {
			t.Fatalf("month end = %s", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("forEachMonth: %v", err)
	}
	if len(labels) != 1 || labels[0] != "2024-03" {
		t.Fatalf("labels = %v, expected [2024-03]", labels)
	}
}

func TestForEachMonth_SpansYearBoundary(t *testing.T) {
	from := date(2023, time.November, 15)
	to := date(2024, time.February, 2)

	var labels []string
	err := forEachMonth(from, to, func(label string, mFrom, mTo time.Time) error {
		labels = append(labels, label)
		return nil
	})
	if err != nil {
		t.Fatalf("forEachMonth: %v", err)
	}

	want := []string{"2023-11", "2023-12", "2024-01", "2024-02"}
	if len(labels) != len(want) {
		t.Fatalf("labels = %v, expected %v", labels, want)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("labels = %v, expected %v", labels, want)
		}
	}
}

func TestAgeYears_BeforeAndAfterBirthday(t *testing.T) {
	dob := time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)

	if got := ageYears(dob, time.Date(2024, time.June, 14, 0, 0, 0, 0, time.UTC)); got != 33 {
		t.Fatalf("age before birthday = %d, expected 33", got)
	}
	if got := ageYears(dob, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)); got != 34 {
		t.Fatalf("age on birthday = %d, expected 34", got)
	}
}

// -------------------------
// PatientStatistics
// -------------------------

func TestPatientStatistics(t *testing.T) {
	p := &testPatients{all: []patients.Patient{
		{ID: "p1", Gender: "female", DateOfBirth: date(1990, time.January, 1), CreatedAt: date(2024, time.January, 10)},
		{ID: "p2", Gender: "male", DateOfBirth: date(2000, time.January, 1), CreatedAt: date(2024, time.February, 10)},
		{ID: "p3", Gender: "female", DateOfBirth: date(1980, time.January, 1), CreatedAt: date(2023, time.June, 1)}, // fuera de ventana
	}}
	a := &testAppointments{all: []appointments.Appointment{
		{ID: "a1", PatientID: "p3", Date: date(2024, time.January, 5)},
		{ID: "a2", PatientID: "p3", Date: date(2024, time.February, 5)},
		{ID: "a3", PatientID: "p1", Date: date(2024, time.January, 20)},
	}}

	svc := newTestService(p, a, nil, nil, 20)
	svc.now = func() time.Time { return date(2024, time.March, 1) }

	stats, err := svc.PatientStatistics(context.Background(),
		date(2024, time.January, 1), date(2024, time.February, 28))
	if err != nil {
		t.Fatalf("PatientStatistics: %v", err)
	}

	if stats.TotalPatients != 3 {
		t.Fatalf("totalPatients = %d, expected 3", stats.TotalPatients)
	}
	if stats.NewPatients != 2 {
		t.Fatalf("newPatients = %d, expected 2", stats.NewPatients)
	}
	if stats.ReturningPatients != 1 {
		t.Fatalf("returningPatients = %d, expected 1", stats.ReturningPatients)
	}

	// p1 tiene 34, p2 tiene 24 a la fecha de referencia.
	if stats.AverageAge != 29 {
		t.Fatalf("averageAge = %v, expected 29", stats.AverageAge)
	}

	var genderSum int64
	for _, n := range stats.GenderDistribution {
		genderSum += n
	}
	if genderSum != int64(stats.NewPatients) {
		t.Fatalf("gender distribution sums %d, expected %d", genderSum, stats.NewPatients)
	}
	if stats.GenderDistribution["female"] != 1 || stats.GenderDistribution["male"] != 1 {
		t.Fatalf("gender distribution = %v", stats.GenderDistribution)
	}

	if len(stats.MonthlyTrends) != 2 {
		t.Fatalf("monthly trends = %d points, expected 2", len(stats.MonthlyTrends))
	}
	if stats.MonthlyTrends[0].Date != "2024-01" || stats.MonthlyTrends[0].NewPatients != 1 {
		t.Fatalf("first trend point = %+v", stats.MonthlyTrends[0])
	}
	if stats.MonthlyTrends[1].Date != "2024-02" || stats.MonthlyTrends[1].NewPatients != 1 {
		t.Fatalf("second trend point = %+v", stats.MonthlyTrends[1])
	}
}

func TestPatientStatistics_EmptyWindow(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil, 20)

	stats, err := svc.PatientStatistics(context.Background(),
		date(2024, time.January, 1), date(2024, time.January, 31))
	if err != nil {
		t.Fatalf("PatientStatistics: %v", err)
	}
	if stats.AverageAge != 0 {
		t.Fatalf("averageAge = %v, expected 0 without patients", stats.AverageAge)
	}
	if stats.NewPatients != 0 || stats.ReturningPatients != 0 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
}

// -------------------------
// AppointmentStatistics
// -------------------------

func TestAppointmentStatistics_StatusBuckets(t *testing.T) {
	a := &testAppointments{all: []appointments.Appointment{
		{ID: "a1", Date: date(2024, time.May, 1), Status: appointments.StatusCompleted, Type: "cleaning"},
		{ID: "a2", Date: date(2024, time.May, 2), Status: appointments.StatusCancelled, Type: "cleaning"},
		{ID: "a3", Date: date(2024, time.May, 3), Status: appointments.StatusNoShow, Type: "filling"},
		{ID: "a4", Date: date(2024, time.May, 4), Status: appointments.StatusScheduled, Type: "filling"},
	}}

	svc := newTestService(nil, a, nil, nil, 20)
	stats, err := svc.AppointmentStatistics(context.Background(),
		date(2024, time.May, 1), date(2024, time.May, 31))
	if err != nil {
		t.Fatalf("AppointmentStatistics: %v", err)
	}

	if stats.TotalAppointments != 4 {
		t.Fatalf("total = %d, expected 4", stats.TotalAppointments)
	}
	if stats.CompletedAppointments != 1 || stats.CancelledAppointments != 1 || stats.NoShowAppointments != 1 {
		t.Fatalf("status buckets = %+v", stats)
	}
	if stats.TypeDistribution["cleaning"] != 2 || stats.TypeDistribution["filling"] != 2 {
		t.Fatalf("type distribution = %v", stats.TypeDistribution)
	}
	if len(stats.MonthlyTrends) != 1 || stats.MonthlyTrends[0].Total != 4 {
		t.Fatalf("monthly trends = %+v", stats.MonthlyTrends)
	}
}

// -------------------------
// FinancialStatistics
// -------------------------

func TestFinancialStatistics(t *testing.T) {
	a := &testAppointments{all: []appointments.Appointment{
		{ID: "a1", Date: date(2024, time.January, 10), Type: "filling", Amount: amount(300)},
		{ID: "a2", Date: date(2024, time.February, 10), Type: "cleaning", Amount: amount(150)},
		{ID: "a3", Date: date(2024, time.February, 15), Type: "checkup", Amount: nil}, // sin cobrar
	}}
	s := &testSales{all: []pharmacy.Sale{
		{ID: "s1", Total: 50, CreatedAt: date(2024, time.January, 20)},
		{ID: "s2", Total: 30, CreatedAt: date(2024, time.February, 20)},
	}}

	svc := newTestService(nil, a, s, nil, 20)
	stats, err := svc.FinancialStatistics(context.Background(),
		date(2024, time.January, 1), date(2024, time.February, 28))
	if err != nil {
		t.Fatalf("FinancialStatistics: %v", err)
	}

	if stats.AppointmentRevenue != 450 {
		t.Fatalf("appointmentRevenue = %v, expected 450", stats.AppointmentRevenue)
	}
	if stats.PharmacyRevenue != 80 {
		t.Fatalf("pharmacyRevenue = %v, expected 80", stats.PharmacyRevenue)
	}
	if stats.TotalRevenue != 530 {
		t.Fatalf("totalRevenue = %v, expected 530", stats.TotalRevenue)
	}

	// Promedio de citas sobre las 3 citas, incluida la no cobrada.
	if stats.AverageAppointmentValue != 150 {
		t.Fatalf("averageAppointmentValue = %v, expected 150", stats.AverageAppointmentValue)
	}
	if stats.AveragePharmacySale != 40 {
		t.Fatalf("averagePharmacySale = %v, expected 40", stats.AveragePharmacySale)
	}

	// La serie mensual debe sumar el total de la ventana.
	var trendSum float64
	for _, p := range stats.MonthlyTrends {
		trendSum += p.TotalRevenue
	}
	if trendSum != stats.TotalRevenue {
		t.Fatalf("monthly trend sum = %v, expected %v", trendSum, stats.TotalRevenue)
	}

	// filling factura 300 > cleaning 150 > checkup 0.
	if len(stats.TopProcedures) != 3 {
		t.Fatalf("topProcedures = %+v", stats.TopProcedures)
	}
	if stats.TopProcedures[0].Type != "filling" || stats.TopProcedures[1].Type != "cleaning" {
		t.Fatalf("topProcedures order = %+v", stats.TopProcedures)
	}
}

func TestFinancialStatistics_Empty(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil, 20)
	stats, err := svc.FinancialStatistics(context.Background(),
		date(2024, time.January, 1), date(2024, time.January, 31))
	if err != nil {
		t.Fatalf("FinancialStatistics: %v", err)
	}
	if stats.AverageAppointmentValue != 0 || stats.AveragePharmacySale != 0 {
		t.Fatalf("averages should be 0 on empty window: %+v", stats)
	}
	if stats.TotalRevenue != 0 {
		t.Fatalf("totalRevenue = %v, expected 0", stats.TotalRevenue)
	}
}

func TestTopProcedures_TieKeepsFirstSeen(t *testing.T) {
	appts := []appointments.Appointment{
		{Type: "whitening", Amount: amount(100)},
		{Type: "extraction", Amount: amount(100)},
	}
	ranks := topProcedures(appts)
	if len(ranks) != 2 {
		t.Fatalf("ranks = %+v", ranks)
	}
	if ranks[0].Type != "whitening" || ranks[1].Type != "extraction" {
		t.Fatalf("tie should keep first-seen order, got %+v", ranks)
	}
}

// -------------------------
// PharmacyStatistics
// -------------------------

func TestPharmacyStatistics(t *testing.T) {
	s := &testSales{
		all: []pharmacy.Sale{
			{ID: "s1", Total: 100, CreatedAt: date(2024, time.January, 5)},
			{ID: "s2", Total: 60, CreatedAt: date(2024, time.February, 5)},
			{ID: "s3", Total: 40, CreatedAt: date(2024, time.February, 6)},
		},
		ranking: []pharmacy.MedicineRank{
			{MedicineID: "m1", MedicineName: "Ibuprofeno", Quantity: 12, Revenue: 120},
			{MedicineID: "m2", MedicineName: "Amoxicilina", Quantity: 5, Revenue: 80},
		},
	}
	m := &testMedicines{all: []medicines.Medicine{
		{ID: "m1", Name: "Ibuprofeno", Stock: 3},
		{ID: "m2", Name: "Amoxicilina", Stock: 20}, // justo en el umbral
		{ID: "m3", Name: "Paracetamol", Stock: 50},
	}}

	svc := newTestService(nil, nil, s, m, 20)
	stats, err := svc.PharmacyStatistics(context.Background(),
		date(2024, time.January, 1), date(2024, time.February, 28))
	if err != nil {
		t.Fatalf("PharmacyStatistics: %v", err)
	}

	if stats.TotalSales != 3 {
		t.Fatalf("totalSales = %d, expected 3", stats.TotalSales)
	}
	if stats.TotalRevenue != 200 {
		t.Fatalf("totalRevenue = %v, expected 200", stats.TotalRevenue)
	}
	if stats.AverageSaleValue < 66.66 || stats.AverageSaleValue > 66.67 {
		t.Fatalf("averageSaleValue = %v", stats.AverageSaleValue)
	}

	if len(stats.TopSellingMedicines) != 2 || stats.TopSellingMedicines[0].MedicineID != "m1" {
		t.Fatalf("topSellingMedicines = %+v", stats.TopSellingMedicines)
	}

	if len(stats.MonthlyTrends) != 2 {
		t.Fatalf("monthly trends = %+v", stats.MonthlyTrends)
	}
	if stats.MonthlyTrends[0].Sales != 1 || stats.MonthlyTrends[0].Revenue != 100 {
		t.Fatalf("january point = %+v", stats.MonthlyTrends[0])
	}
	if stats.MonthlyTrends[1].Sales != 2 || stats.MonthlyTrends[1].Revenue != 100 {
		t.Fatalf("february point = %+v", stats.MonthlyTrends[1])
	}

	// En o por debajo del umbral alertan; por encima no.
	if len(stats.StockAlerts) != 2 {
		t.Fatalf("stockAlerts = %+v", stats.StockAlerts)
	}
	for _, alert := range stats.StockAlerts {
		if alert.ReorderPoint != 20 {
			t.Fatalf("reorderPoint = %d, expected 20", alert.ReorderPoint)
		}
		if alert.MedicineID == "m3" {
			t.Fatalf("m3 should not alert with stock 50")
		}
	}
}
