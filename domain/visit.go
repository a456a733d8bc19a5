package domain

import "time"

// Visit is a single encounter under a case. PatientID is copied from the case.
type Visit struct {
	ID            int64     `db:"id" json:"id"`
	CaseID        int64     `db:"case_id" json:"case_id"`
	PatientID     int64     `db:"patient_id" json:"patient_id"`
	ScheduledTime time.Time `db:"scheduled_time" json:"scheduled_time"`
	Notes         *string   `db:"notes" json:"notes,omitempty"`
	RecordedBy    *int64    `db:"recorded_by" json:"recorded_by,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type Vitals struct {
	ID              int64     `db:"id" json:"id"`
	VisitID         int64     `db:"visit_id" json:"visit_id"`
	PatientID       *int64    `db:"patient_id" json:"patient_id,omitempty"`
	Temperature     *float64  `db:"temperature" json:"temperature,omitempty"`
	Pulse           *int64    `db:"pulse" json:"pulse,omitempty"`
	BloodPressure   *string   `db:"blood_pressure" json:"blood_pressure,omitempty"`
	RespiratoryRate *int64    `db:"respiratory_rate" json:"respiratory_rate,omitempty"`
	SpO2            *int64    `db:"spo2" json:"spo2,omitempty"`
	MeasuredAt      time.Time `db:"measured_at" json:"measured_at"`
}

type NurseActivityLog struct {
	ID        int64     `db:"id" json:"id"`
	VisitID   int64     `db:"visit_id" json:"visit_id"`
	CaseID    int64     `db:"case_id" json:"case_id"`
	NurseID   *int64    `db:"nurse_id" json:"nurse_id,omitempty"`
	Activity  *string   `db:"activity" json:"activity,omitempty"`
	Timestamp time.Time `db:"logged_at" json:"timestamp"`
}
