package reports

// Resultados tipados de cada estadística. Las claves JSON replican el
// contrato que ya consume el frontend de reportes.

type PatientTrendPoint struct {
	Date              string `json:"date"` // YYYY-MM
	NewPatients       int    `json:"newPatients"`
	ReturningPatients int64  `json:"returningPatients"`
}

type PatientStats struct {
	TotalPatients      int64               `json:"totalPatients"`
	NewPatients        int                 `json:"newPatients"`
	ReturningPatients  int64               `json:"returningPatients"`
	AverageAge         float64             `json:"averageAge"`
	GenderDistribution map[string]int64    `json:"genderDistribution"`
	MonthlyTrends      []PatientTrendPoint `json:"monthlyTrends"`
}

type AppointmentTrendPoint struct {
	Date      string `json:"date"`
	Total     int    `json:"total"`
	Completed int64  `json:"completed"`
	Cancelled int64  `json:"cancelled"`
	NoShow    int64  `json:"noShow"`
}

type AppointmentStats struct {
	TotalAppointments     int                     `json:"totalAppointments"`
	CompletedAppointments int64                   `json:"completedAppointments"`
	CancelledAppointments int64                   `json:"cancelledAppointments"`
	NoShowAppointments    int64                   `json:"noShowAppointments"`
	TypeDistribution      map[string]int64        `json:"typeDistribution"`
	MonthlyTrends         []AppointmentTrendPoint `json:"monthlyTrends"`
}

type RevenueTrendPoint struct {
	Date               string  `json:"date"`
	TotalRevenue       float64 `json:"totalRevenue"`
	AppointmentRevenue float64 `json:"appointmentRevenue"`
	PharmacyRevenue    float64 `json:"pharmacyRevenue"`
}

// ProcedureRank agrupa citas por tipo con su facturación acumulada.
type ProcedureRank struct {
	Type    string  `json:"type"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type FinancialStats struct {
	TotalRevenue            float64             `json:"totalRevenue"`
	AppointmentRevenue      float64             `json:"appointmentRevenue"`
	PharmacyRevenue         float64             `json:"pharmacyRevenue"`
	AverageAppointmentValue float64             `json:"averageAppointmentValue"`
	AveragePharmacySale     float64             `json:"averagePharmacySale"`
	MonthlyTrends           []RevenueTrendPoint `json:"monthlyTrends"`
	TopProcedures           []ProcedureRank     `json:"topProcedures"`
}

type SalesTrendPoint struct {
	Date    string  `json:"date"`
	Sales   int     `json:"sales"`
	Revenue float64 `json:"revenue"`
}

type TopMedicine struct {
	MedicineID   string  `json:"medicineId"`
	MedicineName string  `json:"medicineName"`
	Quantity     int64   `json:"quantity"`
	Revenue      float64 `json:"revenue"`
}

// StockAlert marca un medicamento en o por debajo del punto de
// reposición configurado.
type StockAlert struct {
	MedicineID   string `json:"medicineId"`
	MedicineName string `json:"medicineName"`
	CurrentStock int    `json:"currentStock"`
	ReorderPoint int    `json:"reorderPoint"`
}

type PharmacyStats struct {
	TotalSales          int               `json:"totalSales"`
	TotalRevenue        float64           `json:"totalRevenue"`
	AverageSaleValue    float64           `json:"averageSaleValue"`
	TopSellingMedicines []TopMedicine     `json:"topSellingMedicines"`
	MonthlyTrends       []SalesTrendPoint `json:"monthlyTrends"`
	StockAlerts         []StockAlert      `json:"stockAlerts"`
}
