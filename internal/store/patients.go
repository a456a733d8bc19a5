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

const (
	DefaultPatientLimit = 100
	MaxPatientLimit     = 500
)

const patientColumns = `id, first_name, last_name, email, phone, date_of_birth, gender, location, org_id, created_at, updated_at`

// PatientFilter narrows ListPatients. Query matches first name, last name or
// phone, case-insensitively. Skip and Limit apply after filtering.
type PatientFilter struct {
	Query string
	Skip  int
	Limit int
}

func (f PatientFilter) normalize() (PatientFilter, error) {
	f.Query = strings.TrimSpace(f.Query)
	if f.Skip < 0 {
		return f, validationf("skip must not be negative")
	}
	switch {
	case f.Limit < 0:
		return f, validationf("limit must not be negative")
	case f.Limit == 0:
		f.Limit = DefaultPatientLimit
	case f.Limit > MaxPatientLimit:
		f.Limit = MaxPatientLimit
	}
	return f, nil
}

// likePattern builds a substring pattern with LIKE wildcards escaped.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(q)) + "%"
}

func (s *Store) CreatePatient(ctx context.Context, p *domain.Patient) error {
	now := s.utcNow()
	p.CreatedAt, p.UpdatedAt = now, now
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if p.OrgID != nil {
			if err := s.require(ctx, tx, "organization", *p.OrgID, ErrOrganizationNotFound); err != nil {
				return err
			}
		}
		err := tx.GetContext(ctx, &p.ID, s.q(`INSERT INTO patients (first_name, last_name, email, phone, date_of_birth, gender, location, org_id, created_at, updated_at)
                VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
			p.FirstName, p.LastName, p.Email, p.Phone, p.DateOfBirth, p.Gender, p.Location, p.OrgID, p.CreatedAt, p.UpdatedAt)
		if isUniqueViolation(err) {
			return ErrPatientEmailTaken
		}
		if err != nil {
			return fmt.Errorf("insert patient: %w", err)
		}
		return nil
	})
}

func (s *Store) ListPatients(ctx context.Context, filter PatientFilter) ([]domain.Patient, error) {
	f, err := filter.normalize()
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + patientColumns + ` FROM patients`
	var args []any
	if f.Query != "" {
		like := likePattern(f.Query)
		query += ` WHERE LOWER(first_name) LIKE ? ESCAPE '\'
                OR LOWER(last_name) LIKE ? ESCAPE '\'
                OR LOWER(COALESCE(phone, '')) LIKE ? ESCAPE '\'`
		args = append(args, like, like, like)
	}
	query += ` ORDER BY id LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Skip)

	patients := []domain.Patient{}
	if err := s.db.SelectContext(ctx, &patients, s.q(query), args...); err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

func (s *Store) GetPatient(ctx context.Context, id int64) (*domain.Patient, error) {
	return s.getPatient(ctx, s.db, id)
}

func (s *Store) getPatient(ctx context.Context, q sqlx.QueryerContext, id int64) (*domain.Patient, error) {
	var p domain.Patient
	err := sqlx.GetContext(ctx, q, &p, s.q(`SELECT `+patientColumns+` FROM patients WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return &p, nil
}

// UpdatePatient replaces the mutable fields of patient id with those in p.
func (s *Store) UpdatePatient(ctx context.Context, id int64, p *domain.Patient) (*domain.Patient, error) {
	var updated *domain.Patient
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		current, err := s.getPatient(ctx, tx, id)
		if err != nil {
			return err
		}
		if p.OrgID != nil {
			if err := s.require(ctx, tx, "organization", *p.OrgID, ErrOrganizationNotFound); err != nil {
				return err
			}
		}
		current.FirstName = p.FirstName
		current.LastName = p.LastName
		current.Email = p.Email
		current.Phone = p.Phone
		current.DateOfBirth = p.DateOfBirth
		current.Gender = p.Gender
		current.Location = p.Location
		current.OrgID = p.OrgID
		current.UpdatedAt = s.utcNow()

		_, err = tx.ExecContext(ctx, s.q(`UPDATE patients SET first_name = ?, last_name = ?, email = ?, phone = ?, date_of_birth = ?, gender = ?, location = ?, org_id = ?, updated_at = ? WHERE id = ?`),
			current.FirstName, current.LastName, current.Email, current.Phone, current.DateOfBirth, current.Gender, current.Location, current.OrgID, current.UpdatedAt, id)
		if isUniqueViolation(err) {
			return ErrPatientEmailTaken
		}
		if err != nil {
			return fmt.Errorf("update patient: %w", err)
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeletePatient removes a patient that has no cases, visits or invoices.
// Patients with dependents are rejected rather than cascaded.
func (s *Store) DeletePatient(ctx context.Context, id int64) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.require(ctx, tx, "patients", id, ErrPatientNotFound); err != nil {
			return err
		}
		var dependents int64
		err := tx.GetContext(ctx, &dependents, s.q(`SELECT
                (SELECT COUNT(*) FROM cases WHERE patient_id = ?) +
                (SELECT COUNT(*) FROM visits WHERE patient_id = ?) +
                (SELECT COUNT(*) FROM invoices WHERE patient_id = ?)`), id, id, id)
		if err != nil {
			return fmt.Errorf("count patient dependents: %w", err)
		}
		if dependents > 0 {
			return ErrPatientHasDependents
		}
		if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM patients WHERE id = ?`), id); err != nil {
			return fmt.Errorf("delete patient: %w", err)
		}
		return nil
	})
}
