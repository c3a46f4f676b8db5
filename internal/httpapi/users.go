package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/gatekeeper/internal/authz"
	"github.com/dmitrymomot/gatekeeper/internal/store"
)

type createUserRequest struct {
	Username string     `json:"username"`
	FullName string     `json:"full_name"`
	Role     authz.Role `json:"role"`
}

func (req createUserRequest) validate() error {
	if req.Username == "" {
		return errors.New("username is required")
	}
	if len(req.Username) > 25 {
		return errors.New("username must be at most 25 characters")
	}
	if req.FullName == "" {
		return errors.New("full_name is required")
	}
	if len(req.FullName) > 255 {
		return errors.New("full_name must be at most 255 characters")
	}
	if !req.Role.Valid() {
		return errors.New("role must be admin or customer")
	}
	return nil
}

// GET /customer/{customerID}/user
func (h *handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	customerID, err := customerIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id parameter in URL")
		return
	}

	caller, ok := h.authorize(w, r, authz.Request{Rule: authz.RuleIsMember, Args: []uuid.UUID{customerID}})
	if !ok {
		return
	}

	users, err := h.users.ListUsersByCustomer(r.Context(), customerID, caller.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// POST /customer/{customerID}/user creates the user and joins it to the
// customer, as two store operations; a join failure after a successful create
// surfaces as a server error.
func (h *handlers) createUser(w http.ResponseWriter, r *http.Request) {
	customerID, err := customerIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id parameter in URL")
		return
	}

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid data for new user")
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

	user, err := h.users.CreateUser(r.Context(), store.NewUser{
		Username: req.Username,
		FullName: req.FullName,
		Role:     req.Role,
	}, caller.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.users.AddUserToCustomer(r.Context(), customerID, user.ID, caller.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// DELETE /customer/{customerID}/user/{userID}
func (h *handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	customerID, err := customerIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id parameter in URL")
		return
	}
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id parameter in URL")
		return
	}

	caller, ok := h.authorize(w, r, authz.Request{Rule: authz.RuleIsMember, Args: []uuid.UUID{customerID}})
	if !ok {
		return
	}

	if err := h.users.DeleteUser(r.Context(), userID, caller.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
