package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"clinicdesk/m/domain"
)

const visitColumns = `id, case_id, patient_id, scheduled_time, notes, recorded_by, created_at`

// CreateVisit schedules a visit under an existing case. The visit inherits
// the case's patient.
func (s *Store) CreateVisit(ctx context.Context, v *domain.Visit) error {
	v.ScheduledTime = v.ScheduledTime.UTC()
	v.CreatedAt = s.utcNow()
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &v.PatientID, s.q(`SELECT patient_id FROM cases WHERE id = ?`), v.CaseID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCaseNotFound
		}
		if err != nil {
			return fmt.Errorf("lookup case: %w", err)
		}
		err = tx.GetContext(ctx, &v.ID, s.q(`INSERT INTO visits (case_id, patient_id, scheduled_time, notes, recorded_by, created_at) VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
			v.CaseID, v.PatientID, v.ScheduledTime, v.Notes, v.RecordedBy, v.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert visit: %w", err)
		}
		return nil
	})
}

func (s *Store) GetVisit(ctx context.Context, id int64) (*domain.Visit, error) {
	var v domain.Visit
	err := s.db.GetContext(ctx, &v, s.q(`SELECT `+visitColumns+` FROM visits WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVisitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get visit: %w", err)
	}
	return &v, nil
}

// RecordVitals stores readings for visit visitID. When the caller gives no
// patient, it is taken from the visit's case.
func (s *Store) RecordVitals(ctx context.Context, visitID int64, vt *domain.Vitals) error {
	vt.VisitID = visitID
	if vt.MeasuredAt.IsZero() {
		vt.MeasuredAt = s.utcNow()
	} else {
		vt.MeasuredAt = vt.MeasuredAt.UTC()
	}
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var parent struct {
			ID        int64  `db:"id"`
			PatientID *int64 `db:"patient_id"`
		}
		err := tx.GetContext(ctx, &parent, s.q(`SELECT v.id, c.patient_id FROM visits v LEFT JOIN cases c ON c.id = v.case_id WHERE v.id = ?`), visitID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVisitNotFound
		}
		if err != nil {
			return fmt.Errorf("lookup visit: %w", err)
		}
		if vt.PatientID == nil {
			vt.PatientID = parent.PatientID
		}
		err = tx.GetContext(ctx, &vt.ID, s.q(`INSERT INTO vitals (visit_id, patient_id, temperature, pulse, blood_pressure, respiratory_rate, spo2, measured_at)
                VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
			vt.VisitID, vt.PatientID, vt.Temperature, vt.Pulse, vt.BloodPressure, vt.RespiratoryRate, vt.SpO2, vt.MeasuredAt)
		if err != nil {
			return fmt.Errorf("insert vitals: %w", err)
		}
		return nil
	})
}

// LogActivity records a nurse activity against visit visitID and the visit's case.
func (s *Store) LogActivity(ctx context.Context, visitID int64, a *domain.NurseActivityLog) error {
	a.VisitID = visitID
	if a.Timestamp.IsZero() {
		a.Timestamp = s.utcNow()
	} else {
		a.Timestamp = a.Timestamp.UTC()
	}
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &a.CaseID, s.q(`SELECT case_id FROM visits WHERE id = ?`), visitID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVisitNotFound
		}
		if err != nil {
			return fmt.Errorf("lookup visit: %w", err)
		}
		err = tx.GetContext(ctx, &a.ID, s.q(`INSERT INTO nurse_activity_logs (visit_id, case_id, nurse_id, activity, logged_at) VALUES (?, ?, ?, ?, ?) RETURNING id`),
			a.VisitID, a.CaseID, a.NurseID, a.Activity, a.Timestamp)
		if err != nil {
			return fmt.Errorf("insert activity: %w", err)
		}
		return nil
	})
}
