package api

import (
	"net/http"
	"strings"

	"clinicdesk/m/domain"
)

type organizationRequest struct {
	Name     string  `json:"name"`
	Code     *string `json:"code"`
	Location *string `json:"location"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
}

func (h *Handler) createOrganization(w http.ResponseWriter, r *http.Request) {
	var req organizationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	org := domain.Organization{
		Name:     strings.TrimSpace(req.Name),
		Code:     nullIfEmpty(req.Code),
		Location: nullIfEmpty(req.Location),
		Phone:    nullIfEmpty(req.Phone),
		Email:    nullIfEmpty(req.Email),
	}
	if org.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if org.Email != nil && !validEmail(*org.Email) {
		respondError(w, http.StatusBadRequest, "invalid email")
		return
	}
	if err := h.store.CreateOrganization(r.Context(), &org); err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, org)
}

func (h *Handler) listOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.store.ListOrganizations(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orgs)
}
