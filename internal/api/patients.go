package api

import (
	"net/http"
	"strconv"
	"strings"

	"clinicdesk/m/domain"
	"clinicdesk/m/internal/store"
)

type patientRequest struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"date_of_birth"`
	Gender      *string `json:"gender"`
	Location    *string `json:"location"`
	OrgID       *int64  `json:"org_id"`
}

// toPatient validates the request and maps it onto a patient row.
func (req patientRequest) toPatient() (*domain.Patient, string) {
	p := &domain.Patient{
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       nullIfEmpty(req.Email),
		Phone:       nullIfEmpty(req.Phone),
		DateOfBirth: nullIfEmpty(req.DateOfBirth),
		Gender:      nullIfEmpty(req.Gender),
		Location:    nullIfEmpty(req.Location),
		OrgID:       req.OrgID,
	}
	if p.FirstName == "" || p.LastName == "" {
		return nil, "first_name and last_name are required"
	}
	if p.Email != nil && !validEmail(*p.Email) {
		return nil, "invalid email"
	}
	return p, ""
}

func (h *Handler) createPatient(w http.ResponseWriter, r *http.Request) {
	var req patientRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	patient, msg := req.toPatient()
	if msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if err := h.store.CreatePatient(r.Context(), patient); err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, patient)
}

func queryInt(r *http.Request, key string) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	return n, err == nil
}

func (h *Handler) listPatients(w http.ResponseWriter, r *http.Request) {
	skip, ok := queryInt(r, "skip")
	if !ok {
		respondError(w, http.StatusBadRequest, "skip must be an integer")
		return
	}
	limit, ok := queryInt(r, "limit")
	if !ok {
		respondError(w, http.StatusBadRequest, "limit must be an integer")
		return
	}
	patients, err := h.store.ListPatients(r.Context(), store.PatientFilter{
		Query: r.URL.Query().Get("q"),
		Skip:  skip,
		Limit: limit,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, patients)
}

func (h *Handler) getPatient(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "patient")
	if !ok {
		return
	}
	patient, err := h.store.GetPatient(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, patient)
}

func (h *Handler) updatePatient(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "patient")
	if !ok {
		return
	}
	var req patientRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	patient, msg := req.toPatient()
	if msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	updated, err := h.store.UpdatePatient(r.Context(), id, patient)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *Handler) deletePatient(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "patient")
	if !ok {
		return
	}
	if err := h.store.DeletePatient(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
