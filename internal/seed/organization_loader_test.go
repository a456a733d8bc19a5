package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"clinicdesk/m/internal/database"
	"clinicdesk/m/internal/migrations"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Open(":memory:", 0)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(context.Background(), db))
	return db
}

const catalog = `name,code,location,phone,email
Nairobi West Clinic,NBO-W,Nairobi,0700000001,west@example.org
Kisumu Outreach,KSM-1,Kisumu,,
,EMPTY,Nowhere,,
Nairobi West Duplicate,NBO-W,Nairobi,,
`

func TestLoadOrganizations_SkipsBlankAndDuplicateCodes(t *testing.T) {
	db := newTestDB(t)

	n, err := loadOrganizations(context.Background(), db, strings.NewReader(catalog), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var names []string
	require.NoError(t, db.Select(&names, `SELECT name FROM organization ORDER BY id`))
	assert.Equal(t, []string{"Nairobi West Clinic", "Kisumu Outreach"}, names)

	var phone *string
	require.NoError(t, db.Get(&phone, `SELECT phone FROM organization WHERE code = 'KSM-1'`))
	assert.Nil(t, phone)
}

func TestLoadOrganizations_IsRepeatable(t *testing.T) {
	db := newTestDB(t)
	path := filepath.Join(t.TempDir(), "organizations.csv")
	require.NoError(t, os.WriteFile(path, []byte(catalog), 0o600))

	first, err := LoadOrganizations(context.Background(), db, path, zap.NewNop())
	require.NoError(t, err)
	second, err := LoadOrganizations(context.Background(), db, path, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 2, first)
	assert.Equal(t, 0, second)
}

func TestLoadOrganizations_MissingFile(t *testing.T) {
	db := newTestDB(t)
	n, err := LoadOrganizations(context.Background(), db, filepath.Join(t.TempDir(), "absent.csv"), zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLoadOrganizations_StopsAtFirstFailedInsert(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	db := sqlx.NewDb(mockDB, "sqlmock")

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT INTO organization`)
	prep.ExpectExec().WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	n, err := loadOrganizations(context.Background(), db, strings.NewReader(catalog), zap.NewNop())
	assert.ErrorContains(t, err, `insert organization "NBO-W"`)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
