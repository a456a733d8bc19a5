package domain

import "time"

// DefaultCaseStatus is assigned when a case is opened without a status.
const DefaultCaseStatus = "open"

// Case is a clinical episode for one patient.
type Case struct {
	ID               int64     `db:"id" json:"id"`
	PatientID        int64     `db:"patient_id" json:"patient_id"`
	Title            string    `db:"title" json:"title"`
	Description      *string   `db:"description" json:"description,omitempty"`
	Status           string    `db:"status" json:"status"`
	Critical         bool      `db:"critical" json:"critical"`
	PrimaryDiagnosis *string   `db:"primary_diagnosis" json:"primary_diagnosis,omitempty"`
	CreatedBy        *int64    `db:"created_by" json:"created_by,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

type WoundRecord struct {
	ID          int64     `db:"id" json:"id"`
	CaseID      int64     `db:"case_id" json:"case_id"`
	Description *string   `db:"description" json:"description,omitempty"`
	Severity    *string   `db:"severity" json:"severity,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
