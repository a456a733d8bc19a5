package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"clinicdesk/m/domain"
	"clinicdesk/m/internal/database"
	"clinicdesk/m/internal/migrations"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(":memory:", 0)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(context.Background(), db))
	return New(db)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func strPtr(s string) *string { return &s }

func mustPatient(t *testing.T, s *Store, first, last string, phone *string) *domain.Patient {
	t.Helper()
	p := &domain.Patient{FirstName: first, LastName: last, Phone: phone}
	require.NoError(t, s.CreatePatient(context.Background(), p))
	return p
}

func mustCase(t *testing.T, s *Store, patientID int64, critical bool) *domain.Case {
	t.Helper()
	c := &domain.Case{PatientID: patientID, Title: "Leg ulcer", Critical: critical}
	require.NoError(t, s.CreateCase(context.Background(), c))
	return c
}

func mustVisit(t *testing.T, s *Store, caseID int64, at time.Time) *domain.Visit {
	t.Helper()
	v := &domain.Visit{CaseID: caseID, ScheduledTime: at}
	require.NoError(t, s.CreateVisit(context.Background(), v))
	return v
}
