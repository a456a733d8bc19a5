package domain

type CriticalCase struct {
	ID               int64   `db:"id" json:"id"`
	PatientID        int64   `db:"patient_id" json:"patient_id"`
	PrimaryDiagnosis *string `db:"primary_diagnosis" json:"primary_diagnosis"`
}

type DashboardSummary struct {
	TotalPatients       int64          `json:"total_patients"`
	TotalCases          int64          `json:"total_cases"`
	CriticalCasesCount  int            `json:"critical_cases_count"`
	CriticalCasesSample []CriticalCase `json:"critical_cases_sample"`
	TotalUnpaidInvoices int64          `json:"total_unpaid_invoices"`
	VisitsToday         int64          `json:"visits_today"`
}
