package api

import (
	"net/http"
	"time"

	"clinicdesk/m/domain"
)

type visitRequest struct {
	CaseID        int64     `json:"case_id"`
	ScheduledTime time.Time `json:"scheduled_time"`
	Notes         *string   `json:"notes"`
	RecordedBy    *int64    `json:"recorded_by"`
}

type vitalsRequest struct {
	PatientID       *int64     `json:"patient_id"`
	Temperature     *float64   `json:"temperature"`
	Pulse           *int64     `json:"pulse"`
	BloodPressure   *string    `json:"blood_pressure"`
	RespiratoryRate *int64     `json:"respiratory_rate"`
	SpO2            *int64     `json:"spo2"`
	MeasuredAt      *time.Time `json:"measured_at"`
}

type activityRequest struct {
	NurseID   *int64     `json:"nurse_id"`
	Activity  *string    `json:"activity"`
	Timestamp *time.Time `json:"timestamp"`
}

func (h *Handler) createVisit(w http.ResponseWriter, r *http.Request) {
	var req visitRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.CaseID <= 0 || req.ScheduledTime.IsZero() {
		respondError(w, http.StatusBadRequest, "case_id and scheduled_time are required")
		return
	}
	visit := domain.Visit{
		CaseID:        req.CaseID,
		ScheduledTime: req.ScheduledTime,
		Notes:         req.Notes,
		RecordedBy:    req.RecordedBy,
	}
	if err := h.store.CreateVisit(r.Context(), &visit); err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, visit)
}

func (h *Handler) getVisit(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "visit")
	if !ok {
		return
	}
	visit, err := h.store.GetVisit(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, visit)
}

func (h *Handler) recordVitals(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "visit")
	if !ok {
		return
	}
	var req vitalsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	vitals := domain.Vitals{
		PatientID:       req.PatientID,
		Temperature:     req.Temperature,
		Pulse:           req.Pulse,
		BloodPressure:   req.BloodPressure,
		RespiratoryRate: req.RespiratoryRate,
		SpO2:            req.SpO2,
	}
	if req.MeasuredAt != nil {
		vitals.MeasuredAt = *req.MeasuredAt
	}
	if err := h.store.RecordVitals(r.Context(), id, &vitals); err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, vitals)
}

func (h *Handler) logActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "visit")
	if !ok {
		return
	}
	var req activityRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	entry := domain.NurseActivityLog{NurseID: req.NurseID, Activity: req.Activity}
	if req.Timestamp != nil {
		entry.Timestamp = *req.Timestamp
	}
	if err := h.store.LogActivity(r.Context(), id, &entry); err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}
