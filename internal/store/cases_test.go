package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicdesk/m/domain"
)

func TestCreateCase_DefaultsStatus(t *testing.T) {
	s := newTestStore(t)
	p := mustPatient(t, s, "Anna", "Otieno", nil)

	c := mustCase(t, s, p.ID, true)
	assert.Equal(t, domain.DefaultCaseStatus, c.Status)

	got, err := s.GetCase(context.Background(), c.ID)
	require.NoError(t, err)
	assert.True(t, got.Critical)
	assert.Equal(t, p.ID, got.PatientID)
}

func TestCreateCase_MissingPatientPersistsNothing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.CreateCase(ctx, &domain.Case{PatientID: 404, Title: "Orphan"})
	assert.ErrorIs(t, err, ErrPatientNotFound)

	cases, err := s.ListCases(ctx)
	require.NoError(t, err)
	assert.Empty(t, cases)
}

func TestAddWound(t *testing.T) {
	s := newTestStore(t)
	p := mustPatient(t, s, "Anna", "Otieno", nil)
	c := mustCase(t, s, p.ID, false)

	w := &domain.WoundRecord{Description: strPtr("pressure sore"), Severity: strPtr("grade 2")}
	require.NoError(t, s.AddWound(context.Background(), c.ID, w))
	assert.NotZero(t, w.ID)
	assert.Equal(t, c.ID, w.CaseID)

	err := s.AddWound(context.Background(), 999, &domain.WoundRecord{})
	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestCreateVisit_InheritsPatientFromCase(t *testing.T) {
	s := newTestStore(t)
	p := mustPatient(t, s, "Anna", "Otieno", nil)
	c := mustCase(t, s, p.ID, false)

	v := mustVisit(t, s, c.ID, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, p.ID, v.PatientID)

	got, err := s.GetVisit(context.Background(), v.ID)
	require.NoError(t, err)
	assert.True(t, got.ScheduledTime.Equal(v.ScheduledTime))

	err = s.CreateVisit(context.Background(), &domain.Visit{CaseID: 999, ScheduledTime: time.Now()})
	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestRecordVitals_DerivesPatient(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := mustPatient(t, s, "Anna", "Otieno", nil)
	c := mustCase(t, s, p.ID, false)
	v := mustVisit(t, s, c.ID, time.Now())

	temp := 37.4
	vt := &domain.Vitals{Temperature: &temp, BloodPressure: strPtr("120/80")}
	require.NoError(t, s.RecordVitals(ctx, v.ID, vt))
	require.NotNil(t, vt.PatientID)
	assert.Equal(t, p.ID, *vt.PatientID)
	assert.False(t, vt.MeasuredAt.IsZero())

	assert.ErrorIs(t, s.RecordVitals(ctx, 999, &domain.Vitals{}), ErrVisitNotFound)
}

func TestLogActivity_CopiesCaseFromVisit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := mustPatient(t, s, "Anna", "Otieno", nil)
	c := mustCase(t, s, p.ID, false)
	v := mustVisit(t, s, c.ID, time.Now())

	a := &domain.NurseActivityLog{Activity: strPtr("dressing changed")}
	require.NoError(t, s.LogActivity(ctx, v.ID, a))
	assert.Equal(t, c.ID, a.CaseID)
	assert.NotZero(t, a.ID)

	assert.ErrorIs(t, s.LogActivity(ctx, 999, &domain.NurseActivityLog{}), ErrVisitNotFound)
}
