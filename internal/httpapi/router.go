// Package httpapi exposes the REST surface. Every privileged route is
// authenticated by a bearer access token and authorized through the access
// control gate; handlers own nothing but parsing, the gate call, and the
// store call.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/dmitrymomot/gatekeeper/internal/audit"
	"github.com/dmitrymomot/gatekeeper/internal/authz"
	"github.com/dmitrymomot/gatekeeper/internal/store"
)

// CustomerStore is the customer data access the handlers consume.
type CustomerStore interface {
	CreateCustomer(ctx context.Context, displayName string, actor uuid.UUID) (store.Customer, error)
	ListCustomers(ctx context.Context, actor uuid.UUID) ([]store.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID, actor uuid.UUID) error
}

// UserStore is the user data access the handlers consume.
type UserStore interface {
	CreateUser(ctx context.Context, data store.NewUser, actor uuid.UUID) (store.User, error)
	UserByAccessToken(ctx context.Context, token string) (store.User, error)
	ListUsersByCustomer(ctx context.Context, customerID uuid.UUID, actor uuid.UUID) ([]store.User, error)
	AddUserToCustomer(ctx context.Context, customerID, userID uuid.UUID, actor uuid.UUID) error
	DeleteUser(ctx context.Context, userID uuid.UUID, actor uuid.UUID) error
}

// ServiceStore is the service data access the handlers consume.
type ServiceStore interface {
	CreateService(ctx context.Context, displayName string, actor uuid.UUID) (store.Service, error)
	ListServicesByCustomer(ctx context.Context, customerID uuid.UUID, actor uuid.UUID) ([]store.Service, error)
	AddServiceToCustomer(ctx context.Context, customerID, serviceID uuid.UUID, actor uuid.UUID) error
	DeleteService(ctx context.Context, serviceID uuid.UUID, actor uuid.UUID) error
}

// AuditLog serves the admin-only audit listing.
type AuditLog interface {
	ListPage(ctx context.Context, page int, actor uuid.UUID) ([]audit.Entry, error)
}

// Authorizer is the access control gate.
type Authorizer interface {
	Allow(ctx context.Context, req authz.Request, caller authz.Principal) bool
}

// Deps carries everything the router needs.
type Deps struct {
	Log         *slog.Logger
	Customers   CustomerStore
	Users       UserStore
	Services    ServiceStore
	AuditLog    AuditLog
	Gate        Authorizer
	Healthcheck func(context.Context) error
}

type handlers struct {
	log       *slog.Logger
	customers CustomerStore
	users     UserStore
	services  ServiceStore
	auditLog  AuditLog
	gate      Authorizer
	health    func(context.Context) error
}

// NewRouter builds the chi router with the full privileged surface.
func NewRouter(deps Deps) chi.Router {
	log := deps.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	h := &handlers{
		log:       log,
		customers: deps.Customers,
		users:     deps.Users,
		services:  deps.Services,
		auditLog:  deps.AuditLog,
		gate:      deps.Gate,
		health:    deps.Healthcheck,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.healthcheck)

	r.Group(func(r chi.Router) {
		r.Use(h.authenticate)

		r.Route("/customer", func(r chi.Router) {
			r.Get("/", h.listCustomers)
			r.Post("/", h.createCustomer)

			r.Route("/{customerID}", func(r chi.Router) {
				r.Delete("/", h.deleteCustomer)

				r.Route("/user", func(r chi.Router) {
					r.Get("/", h.listUsers)
					r.Post("/", h.createUser)
					r.Delete("/{userID}", h.deleteUser)
				})

				r.Route("/service", func(r chi.Router) {
					r.Get("/", h.listServices)
					r.Post("/", h.createService)
					r.Delete("/{serviceID}", h.deleteService)
				})
			})
		})

		r.Get("/log/{page}", h.listLog)
	})

	return r
}

func (h *handlers) healthcheck(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "unhealthy")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// authorize resolves the caller from context and runs the gate. On failure it
// writes the response itself and reports ok=false.
func (h *handlers) authorize(w http.ResponseWriter, r *http.Request, req authz.Request) (store.User, bool) {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		// The authenticate middleware should have rejected already; treat a
		// missing caller as an authentication failure, never as a pass.
		writeError(w, http.StatusUnauthorized, "could not authenticate user")
		return store.User{}, false
	}

	if !h.gate.Allow(r.Context(), req, caller.Principal()) {
		writeError(w, http.StatusForbidden, "forbidden")
		return store.User{}, false
	}

	return caller, true
}

// customerIDParam parses the {customerID} URL parameter.
func customerIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "customerID"))
}
