package api

import (
	"net/http"
	"strings"

	"clinicdesk/m/domain"
)

type caseRequest struct {
	PatientID        int64   `json:"patient_id"`
	Title            string  `json:"title"`
	Description      *string `json:"description"`
	Status           string  `json:"status"`
	Critical         bool    `json:"critical"`
	PrimaryDiagnosis *string `json:"primary_diagnosis"`
	CreatedBy        *int64  `json:"created_by"`
}

type woundRequest struct {
	Description *string `json:"description"`
	Severity    *string `json:"severity"`
}

func (h *Handler) createCase(w http.ResponseWriter, r *http.Request) {
	var req caseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.PatientID <= 0 || strings.TrimSpace(req.Title) == "" {
		respondError(w, http.StatusBadRequest, "patient_id and title are required")
		return
	}
	c := domain.Case{
		PatientID:        req.PatientID,
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		Status:           strings.TrimSpace(req.Status),
		Critical:         req.Critical,
		PrimaryDiagnosis: nullIfEmpty(req.PrimaryDiagnosis),
		CreatedBy:        req.CreatedBy,
	}
	if err := h.store.CreateCase(r.Context(), &c); err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (h *Handler) listCases(w http.ResponseWriter, r *http.Request) {
	cases, err := h.store.ListCases(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cases)
}

func (h *Handler) getCase(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "case")
	if !ok {
		return
	}
	c, err := h.store.GetCase(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *Handler) addWound(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "case")
	if !ok {
		return
	}
	var req woundRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	record := domain.WoundRecord{Description: req.Description, Severity: req.Severity}
	if err := h.store.AddWound(r.Context(), id, &record); err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, record)
}
