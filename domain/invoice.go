package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Invoice statuses. Pending is the state of a freshly issued invoice; once a
// payment is recorded the status is always InvoiceStatusFor(paid, total).
const (
	InvoicePending       = "pending"
	InvoiceUnpaid        = "unpaid"
	InvoicePartiallyPaid = "partially_paid"
	InvoicePaid          = "paid"
)

type Invoice struct {
	ID          int64     `db:"id" json:"id"`
	PatientID   int64     `db:"patient_id" json:"patient_id"`
	CaseID      *int64    `db:"case_id" json:"case_id,omitempty"`
	OrgID       *int64    `db:"org_id" json:"org_id,omitempty"`
	Items       LineItems `db:"items" json:"items"`
	Subtotal    *float64  `db:"subtotal" json:"subtotal,omitempty"`
	Tax         float64   `db:"tax" json:"tax"`
	Total       *float64  `db:"total" json:"total,omitempty"`
	PaidAmount  float64   `db:"paid_amount" json:"paid_amount"`
	Status      string    `db:"status" json:"status"`
	InvoiceDate time.Time `db:"invoice_date" json:"invoice_date"`
	CreatedBy   *int64    `db:"created_by" json:"created_by,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// LineItem is one billable entry. Only Total takes part in invoice arithmetic.
// Keys other than the named fields are kept in Extra and written back
// unchanged, so callers may attach whatever item attributes they track.
type LineItem struct {
	Description string   `json:"description,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`
	UnitPrice   *float64 `json:"unit_price,omitempty"`
	Total       float64  `json:"total"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (li *LineItem) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("line item: %w", err)
	}
	*li = LineItem{}
	for key, val := range raw {
		switch key {
		case "total":
			var total *float64
			if err := json.Unmarshal(val, &total); err != nil {
				return fmt.Errorf("line item total: %w", err)
			}
			if total != nil {
				li.Total = *total
			}
			continue
		case "description":
			var desc string
			if json.Unmarshal(val, &desc) == nil {
				li.Description = desc
				continue
			}
		case "quantity", "unit_price":
			var n *float64
			if json.Unmarshal(val, &n) == nil {
				if key == "quantity" {
					li.Quantity = n
				} else {
					li.UnitPrice = n
				}
				continue
			}
		}
		// Unknown keys, and known keys of an unexpected type, pass through.
		if li.Extra == nil {
			li.Extra = make(map[string]json.RawMessage)
		}
		li.Extra[key] = val
	}
	return nil
}

func (li LineItem) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(li.Extra)+4)
	for key, val := range li.Extra {
		out[key] = val
	}
	if li.Description != "" {
		out["description"] = li.Description
	}
	if li.Quantity != nil {
		out["quantity"] = *li.Quantity
	}
	if li.UnitPrice != nil {
		out["unit_price"] = *li.UnitPrice
	}
	out["total"] = li.Total
	return json.Marshal(out)
}

// LineItems is stored as a JSON array in a text column.
type LineItems []LineItem

func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *LineItems) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = LineItems{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("line items: unsupported source type %T", src)
	}
	if len(raw) == 0 {
		*l = LineItems{}
		return nil
	}
	return json.Unmarshal(raw, l)
}

// ComputeTotals derives subtotal and total from line items. It reports false
// when there are no items, in which case the caller keeps whatever totals it has.
func ComputeTotals(items LineItems, tax float64) (subtotal, total float64, ok bool) {
	if len(items) == 0 {
		return 0, 0, false
	}
	for _, it := range items {
		subtotal += it.Total
	}
	return subtotal, subtotal + tax, true
}

// InvoiceStatusFor maps the paid amount against the invoice total.
func InvoiceStatusFor(paid float64, total *float64) string {
	if total != nil && *total != 0 && paid >= *total {
		return InvoicePaid
	}
	if paid > 0 {
		return InvoicePartiallyPaid
	}
	return InvoiceUnpaid
}

// Payment is append-only once recorded.
type Payment struct {
	ID        int64     `db:"id" json:"id"`
	InvoiceID int64     `db:"invoice_id" json:"invoice_id"`
	Amount    float64   `db:"amount" json:"amount"`
	Method    *string   `db:"method" json:"method,omitempty"`
	Reference *string   `db:"reference" json:"reference,omitempty"`
	PaidAt    time.Time `db:"paid_at" json:"paid_at"`
	CreatedBy *int64    `db:"created_by" json:"created_by,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
