package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"

	"clinicdesk/m/domain"
)

const (
	invoiceColumns = `id, patient_id, case_id, org_id, items, subtotal, tax, total, paid_amount, status, invoice_date, created_by, created_at`
	paymentColumns = `id, invoice_id, amount, method, reference, paid_at, created_by, created_at`
)

// CreateInvoice issues a pending invoice. When line items are present the
// subtotal and total are derived from them and the tax.
func (s *Store) CreateInvoice(ctx context.Context, inv *domain.Invoice) error {
	if inv.Items == nil {
		inv.Items = domain.LineItems{}
	}
	if subtotal, total, ok := domain.ComputeTotals(inv.Items, inv.Tax); ok {
		inv.Subtotal, inv.Total = &subtotal, &total
	}
	now := s.utcNow()
	if inv.InvoiceDate.IsZero() {
		inv.InvoiceDate = now
	} else {
		inv.InvoiceDate = inv.InvoiceDate.UTC()
	}
	inv.CreatedAt = now
	inv.PaidAmount = 0
	inv.Status = domain.InvoicePending

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.require(ctx, tx, "patients", inv.PatientID, ErrPatientNotFound); err != nil {
			return err
		}
		if inv.CaseID != nil {
			if err := s.require(ctx, tx, "cases", *inv.CaseID, ErrCaseNotFound); err != nil {
				return err
			}
		}
		if inv.OrgID != nil {
			if err := s.require(ctx, tx, "organization", *inv.OrgID, ErrOrganizationNotFound); err != nil {
				return err
			}
		}
		err := tx.GetContext(ctx, &inv.ID, s.q(`INSERT INTO invoices (patient_id, case_id, org_id, items, subtotal, tax, total, paid_amount, status, invoice_date, created_by, created_at)
                VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
			inv.PatientID, inv.CaseID, inv.OrgID, inv.Items, inv.Subtotal, inv.Tax, inv.Total, inv.PaidAmount, inv.Status, inv.InvoiceDate, inv.CreatedBy, inv.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert invoice: %w", err)
		}
		return nil
	})
}

// RecordPayment appends a payment to its invoice and recomputes the invoice
// status. The paid amount is incremented in place, so concurrent payments
// against one invoice serialize on the row instead of overwriting each other.
func (s *Store) RecordPayment(ctx context.Context, p *domain.Payment) (*domain.Invoice, error) {
	if math.IsNaN(p.Amount) || math.IsInf(p.Amount, 0) || p.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	now := s.utcNow()
	if p.PaidAt.IsZero() {
		p.PaidAt = now
	} else {
		p.PaidAt = p.PaidAt.UTC()
	}
	p.CreatedAt = now

	var inv *domain.Invoice
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var totals struct {
			PaidAmount float64  `db:"paid_amount"`
			Total      *float64 `db:"total"`
		}
		err := tx.GetContext(ctx, &totals, s.q(`UPDATE invoices SET paid_amount = paid_amount + ? WHERE id = ? RETURNING paid_amount, total`),
			p.Amount, p.InvoiceID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvoiceNotFound
		}
		if err != nil {
			return fmt.Errorf("apply payment: %w", err)
		}

		status := domain.InvoiceStatusFor(totals.PaidAmount, totals.Total)
		if _, err := tx.ExecContext(ctx, s.q(`UPDATE invoices SET status = ? WHERE id = ?`), status, p.InvoiceID); err != nil {
			return fmt.Errorf("update invoice status: %w", err)
		}

		err = tx.GetContext(ctx, &p.ID, s.q(`INSERT INTO payments (invoice_id, amount, method, reference, paid_at, created_by, created_at) VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`),
			p.InvoiceID, p.Amount, p.Method, p.Reference, p.PaidAt, p.CreatedBy, p.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}

		inv, err = s.getInvoice(ctx, tx, p.InvoiceID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Store) GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error) {
	return s.getInvoice(ctx, s.db, id)
}

func (s *Store) getInvoice(ctx context.Context, q sqlx.QueryerContext, id int64) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := sqlx.GetContext(ctx, q, &inv, s.q(`SELECT `+invoiceColumns+` FROM invoices WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// ListPayments returns the payments of an invoice in the order they were recorded.
func (s *Store) ListPayments(ctx context.Context, invoiceID int64) ([]domain.Payment, error) {
	payments := []domain.Payment{}
	if err := s.db.SelectContext(ctx, &payments, s.q(`SELECT `+paymentColumns+` FROM payments WHERE invoice_id = ? ORDER BY id`), invoiceID); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// ListUnpaidInvoices returns every invoice not yet fully paid.
func (s *Store) ListUnpaidInvoices(ctx context.Context) ([]domain.Invoice, error) {
	invoices := []domain.Invoice{}
	if err := s.db.SelectContext(ctx, &invoices, s.q(`SELECT `+invoiceColumns+` FROM invoices WHERE status <> ? ORDER BY id`), domain.InvoicePaid); err != nil {
		return nil, fmt.Errorf("list unpaid invoices: %w", err)
	}
	return invoices, nil
}
