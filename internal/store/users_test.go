package store

import (
	"context"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicdesk/m/domain"
)

func TestCreateUser_Conflicts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &domain.User{Username: "nurse1", Email: "n1@example.org", Password: "hash", FullName: "Nurse One"}
	require.NoError(t, s.CreateUser(ctx, u))
	assert.NotZero(t, u.ID)

	err := s.CreateUser(ctx, &domain.User{Username: "nurse1", Email: "other@example.org", Password: "h", FullName: "x"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	err = s.CreateUser(ctx, &domain.User{Username: "nurse2", Email: "n1@example.org", Password: "h", FullName: "x"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	got, err := s.UserByUsername(ctx, "nurse1")
	require.NoError(t, err)
	assert.Equal(t, "hash", got.Password)

	_, err = s.UserByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestOrganizations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := &domain.Organization{Name: "Beta", Code: strPtr("B")}
	require.NoError(t, s.CreateOrganization(ctx, b))
	require.NoError(t, s.CreateOrganization(ctx, &domain.Organization{Name: "Alpha"}))

	err := s.CreateOrganization(ctx, &domain.Organization{Name: "Beta again", Code: strPtr("B")})
	assert.ErrorIs(t, err, ErrOrganizationCodeUsed)

	orgs, err := s.ListOrganizations(ctx)
	require.NoError(t, err)
	require.Len(t, orgs, 2)
	assert.Equal(t, "Alpha", orgs[0].Name)

	got, err := s.GetOrganization(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beta", got.Name)

	_, err = s.GetOrganization(ctx, 999)
	assert.ErrorIs(t, err, ErrOrganizationNotFound)
}

func TestUserConflict_NamesTheViolatedColumn(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, &domain.User{Username: "nurse1", Email: "n1@example.org", Password: "h", FullName: "x"}))

	insert := `INSERT INTO users (username, email, password, full_name, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, insert, "nurse1", "fresh@example.org", "h", "x", time.Now().UTC())
	require.True(t, isUniqueViolation(err))
	assert.ErrorIs(t, userConflict(err), ErrUsernameTaken)

	_, err = s.db.ExecContext(ctx, insert, "nurse2", "n1@example.org", "h", "x", time.Now().UTC())
	require.True(t, isUniqueViolation(err))
	assert.ErrorIs(t, userConflict(err), ErrEmailTaken)

	pgUsername := &pq.Error{Code: "23505", Constraint: "users_username_key"}
	assert.ErrorIs(t, userConflict(pgUsername), ErrUsernameTaken)
	pgEmail := &pq.Error{Code: "23505", Constraint: "users_email_key", Detail: "Key (email)=(n1@example.org) already exists."}
	assert.ErrorIs(t, userConflict(pgEmail), ErrEmailTaken)
}
