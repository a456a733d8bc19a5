package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"clinicdesk/m/domain"
)

const caseColumns = `id, patient_id, title, description, status, critical, primary_diagnosis, created_by, created_at, updated_at`

func (s *Store) CreateCase(ctx context.Context, c *domain.Case) error {
	if strings.TrimSpace(c.Status) == "" {
		c.Status = domain.DefaultCaseStatus
	}
	now := s.utcNow()
	c.CreatedAt, c.UpdatedAt = now, now
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.require(ctx, tx, "patients", c.PatientID, ErrPatientNotFound); err != nil {
			return err
		}
		err := tx.GetContext(ctx, &c.ID, s.q(`INSERT INTO cases (patient_id, title, description, status, critical, primary_diagnosis, created_by, created_at, updated_at)
                VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
			c.PatientID, c.Title, c.Description, c.Status, c.Critical, c.PrimaryDiagnosis, c.CreatedBy, c.CreatedAt, c.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert case: %w", err)
		}
		return nil
	})
}

func (s *Store) ListCases(ctx context.Context) ([]domain.Case, error) {
	cases := []domain.Case{}
	if err := s.db.SelectContext(ctx, &cases, `SELECT `+caseColumns+` FROM cases ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	return cases, nil
}

func (s *Store) GetCase(ctx context.Context, id int64) (*domain.Case, error) {
	var c domain.Case
	err := s.db.GetContext(ctx, &c, s.q(`SELECT `+caseColumns+` FROM cases WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get case: %w", err)
	}
	return &c, nil
}

// AddWound attaches a wound record to case caseID.
func (s *Store) AddWound(ctx context.Context, caseID int64, w *domain.WoundRecord) error {
	w.CaseID = caseID
	w.CreatedAt = s.utcNow()
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.require(ctx, tx, "cases", caseID, ErrCaseNotFound); err != nil {
			return err
		}
		err := tx.GetContext(ctx, &w.ID, s.q(`INSERT INTO wound_records (case_id, description, severity, created_at) VALUES (?, ?, ?, ?) RETURNING id`),
			w.CaseID, w.Description, w.Severity, w.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert wound record: %w", err)
		}
		return nil
	})
}
