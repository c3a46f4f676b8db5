package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/gatekeeper/internal/authz"
)

type createServiceRequest struct {
	DisplayName string `json:"display_name"`
}

func (req createServiceRequest) validate() error {
	if req.DisplayName == "" {
		return errors.New("display_name is required")
	}
	if len(req.DisplayName) > 255 {
		return errors.New("display_name must be at most 255 characters")
	}
	return nil
}

// GET /customer/{customerID}/service
func (h *handlers) listServices(w http.ResponseWriter, r *http.Request) {
	customerID, err := customerIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id parameter in URL")
		return
	}

	caller, ok := h.authorize(w, r, authz.Request{Rule: authz.RuleIsMember, Args: []uuid.UUID{customerID}})
	if !ok {
		return
	}

	services, err := h.services.ListServicesByCustomer(r.Context(), customerID, caller.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, services)
}

// POST /customer/{customerID}/service
func (h *handlers) createService(w http.ResponseWriter, r *http.Request) {
	customerID, err := customerIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id parameter in URL")
		return
	}

	var req createServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid data for new service")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	caller, ok := h.authorize(w, r, authz.Request{Rule: authz.RuleIsMember, Args: []uuid.UUID{customerID}})
	if !ok {
		return
	}

	service, err := h.services.CreateService(r.Context(), req.DisplayName, caller.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.services.AddServiceToCustomer(r.Context(), customerID, service.ID, caller.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, service)
}

// DELETE /customer/{customerID}/service/{serviceID}
func (h *handlers) deleteService(w http.ResponseWriter, r *http.Request) {
	customerID, err := customerIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id parameter in URL")
		return
	}
	serviceID, err := uuid.Parse(chi.URLParam(r, "serviceID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid service id parameter in URL")
		return
	}

	caller, ok := h.authorize(w, r, authz.Request{Rule: authz.RuleIsMember, Args: []uuid.UUID{customerID}})
	if !ok {
		return
	}

	if err := h.services.DeleteService(r.Context(), serviceID, caller.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
