package api

import (
	"net/http"
	"time"

	"clinicdesk/m/domain"
)

type invoiceRequest struct {
	PatientID   int64            `json:"patient_id"`
	CaseID      *int64           `json:"case_id"`
	OrgID       *int64           `json:"org_id"`
	Items       domain.LineItems `json:"items"`
	Subtotal    *float64         `json:"subtotal"`
	Tax         *float64         `json:"tax"`
	Total       *float64         `json:"total"`
	InvoiceDate *time.Time       `json:"invoice_date"`
	CreatedBy   *int64           `json:"created_by"`
}

type paymentRequest struct {
	Amount    *float64   `json:"amount"`
	Method    *string    `json:"method"`
	Reference *string    `json:"reference"`
	PaidAt    *time.Time `json:"paid_at"`
	CreatedBy *int64     `json:"created_by"`
}

type paymentResponse struct {
	Payment domain.Payment  `json:"payment"`
	Invoice *domain.Invoice `json:"invoice"`
}

func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.PatientID <= 0 {
		respondError(w, http.StatusBadRequest, "patient_id is required")
		return
	}
	inv := domain.Invoice{
		PatientID: req.PatientID,
		CaseID:    req.CaseID,
		OrgID:     req.OrgID,
		Items:     req.Items,
		Subtotal:  req.Subtotal,
		Total:     req.Total,
		CreatedBy: req.CreatedBy,
	}
	if req.Tax != nil {
		inv.Tax = *req.Tax
	}
	if req.InvoiceDate != nil {
		inv.InvoiceDate = *req.InvoiceDate
	}
	if err := h.store.CreateInvoice(r.Context(), &inv); err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, inv)
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "invoice")
	if !ok {
		return
	}
	inv, err := h.store.GetInvoice(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, inv)
}

func (h *Handler) payInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "invoice")
	if !ok {
		return
	}
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Amount == nil {
		respondError(w, http.StatusBadRequest, "amount is required")
		return
	}
	payment := domain.Payment{
		InvoiceID: id,
		Amount:    *req.Amount,
		Method:    nullIfEmpty(req.Method),
		Reference: nullIfEmpty(req.Reference),
		CreatedBy: req.CreatedBy,
	}
	if req.PaidAt != nil {
		payment.PaidAt = *req.PaidAt
	}
	inv, err := h.store.RecordPayment(r.Context(), &payment)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, paymentResponse{Payment: payment, Invoice: inv})
}

func (h *Handler) invoicePayments(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "invoice")
	if !ok {
		return
	}
	if _, err := h.store.GetInvoice(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	payments, err := h.store.ListPayments(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, payments)
}

func (h *Handler) unpaidInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.store.ListUnpaidInvoices(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, invoices)
}
