package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"clinicdesk/m/domain"
)

const organizationColumns = `id, name, code, location, phone, email, created_at, updated_at`

func (s *Store) CreateOrganization(ctx context.Context, o *domain.Organization) error {
	now := s.utcNow()
	o.CreatedAt, o.UpdatedAt = now, now
	err := s.db.GetContext(ctx, &o.ID, s.q(`INSERT INTO organization (name, code, location, phone, email, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		o.Name, o.Code, o.Location, o.Phone, o.Email, o.CreatedAt, o.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrOrganizationCodeUsed
	}
	if err != nil {
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

func (s *Store) GetOrganization(ctx context.Context, id int64) (*domain.Organization, error) {
	var o domain.Organization
	err := s.db.GetContext(ctx, &o, s.q(`SELECT `+organizationColumns+` FROM organization WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrganizationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return &o, nil
}

func (s *Store) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	orgs := []domain.Organization{}
	if err := s.db.SelectContext(ctx, &orgs, `SELECT `+organizationColumns+` FROM organization ORDER BY name, id`); err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	return orgs, nil
}
