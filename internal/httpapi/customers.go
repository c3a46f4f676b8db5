package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/gatekeeper/internal/authz"
)

type createCustomerRequest struct {
	DisplayName string `json:"display_name"`
}

func (req createCustomerRequest) validate() error {
	if req.DisplayName == "" {
		return errors.New("display_name is required")
	}
	if len(req.DisplayName) > 255 {
		return errors.New("display_name must be at most 255 characters")
	}
	return nil
}

// GET /customer
func (h *handlers) listCustomers(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.authorize(w, r, authz.Request{Rule: authz.RuleIsAdmin})
	if !ok {
		return
	}

	customers, err := h.customers.ListCustomers(r.Context(), caller.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

// POST /customer
func (h *handlers) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid data for new customer")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	caller, ok := h.authorize(w, r, authz.Request{Rule: authz.RuleIsAdmin})
	if !ok {
		return
	}

	customer, err := h.customers.CreateCustomer(r.Context(), req.DisplayName, caller.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

// DELETE /customer/{customerID}
func (h *handlers) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := customerIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id parameter in URL")
		return
	}

	caller, ok := h.authorize(w, r, authz.Request{Rule: authz.RuleIsAdmin})
	if !ok {
		return
	}

	if err := h.customers.DeleteCustomer(r.Context(), id, caller.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
