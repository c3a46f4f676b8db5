package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/gatekeeper/internal/authz"
)

// maxLogPage caps how deep the audit log can be paged in one request chain.
const maxLogPage = 1000

// GET /log/{page} returns a fixed-size page of audit entries, newest first.
func (h *handlers) listLog(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil || page < 0 || page > maxLogPage {
		writeError(w, http.StatusBadRequest, "invalid page parameter in URL")
		return
	}

	caller, ok := h.authorize(w, r, authz.Request{Rule: authz.RuleIsAdmin})
	if !ok {
		return
	}

	entries, err := h.auditLog.ListPage(r.Context(), page, caller.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
