package store

import (
	"context"
	"fmt"
	"time"

	"clinicdesk/m/domain"
)

const criticalSampleSize = 10

// Summary computes dashboard counts from the current state of the store.
// Visits today covers [00:00 UTC, 00:00 UTC next day).
func (s *Store) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	var (
		sum domain.DashboardSummary
		err error
	)
	if sum.TotalPatients, err = s.count(ctx, `SELECT COUNT(*) FROM patients`); err != nil {
		return nil, fmt.Errorf("count patients: %w", err)
	}
	if sum.TotalCases, err = s.count(ctx, `SELECT COUNT(*) FROM cases`); err != nil {
		return nil, fmt.Errorf("count cases: %w", err)
	}
	if sum.TotalUnpaidInvoices, err = s.count(ctx, `SELECT COUNT(*) FROM invoices WHERE status <> ?`, domain.InvoicePaid); err != nil {
		return nil, fmt.Errorf("count unpaid invoices: %w", err)
	}

	sum.CriticalCasesSample = []domain.CriticalCase{}
	err = s.db.SelectContext(ctx, &sum.CriticalCasesSample,
		s.q(`SELECT id, patient_id, primary_diagnosis FROM cases WHERE critical = ? ORDER BY id LIMIT ?`), true, criticalSampleSize)
	if err != nil {
		return nil, fmt.Errorf("sample critical cases: %w", err)
	}
	sum.CriticalCasesCount = len(sum.CriticalCasesSample)

	start, end := utcDay(s.utcNow())
	if sum.VisitsToday, err = s.count(ctx, `SELECT COUNT(*) FROM visits WHERE scheduled_time >= ? AND scheduled_time < ?`, start, end); err != nil {
		return nil, fmt.Errorf("count visits today: %w", err)
	}
	return &sum, nil
}

func utcDay(t time.Time) (start, end time.Time) {
	t = t.UTC()
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}
