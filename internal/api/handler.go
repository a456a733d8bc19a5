package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"clinicdesk/m/internal/auth"
	"clinicdesk/m/internal/store"
)

// ServiceInfo is reported by the liveness endpoints.
type ServiceInfo struct {
	Name        string
	Version     string
	Environment string
}

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	store  *store.Store
	tokens *auth.Tokens
	log    *zap.Logger
	info   ServiceInfo
}

// New constructs a Handler.
func New(st *store.Store, tokens *auth.Tokens, log *zap.Logger, info ServiceInfo) *Handler {
	return &Handler{store: st, tokens: tokens, log: log, info: info}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.log))
	r.Use(middleware.Recoverer)

	r.Get("/", h.root)
	r.Get("/health", h.health)
	r.Get("/api/status", h.status)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)
		})

		r.Route("/patients", func(r chi.Router) {
			r.Use(h.authMiddleware)
			r.Post("/", h.createPatient)
			r.Get("/", h.listPatients)
			r.Get("/{id}", h.getPatient)
			r.Put("/{id}", h.updatePatient)
			r.Delete("/{id}", h.deletePatient)
		})

		r.Route("/organizations", func(r chi.Router) {
			r.Post("/", h.createOrganization)
			r.Get("/", h.listOrganizations)
		})

		r.Route("/cases", func(r chi.Router) {
			r.Post("/", h.createCase)
			r.Get("/", h.listCases)
			r.Get("/{id}", h.getCase)
			r.Post("/{id}/wounds", h.addWound)
		})

		r.Route("/visits", func(r chi.Router) {
			r.Post("/", h.createVisit)
			r.Get("/{id}", h.getVisit)
			r.Post("/{id}/vitals", h.recordVitals)
			r.Post("/{id}/activity", h.logActivity)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Post("/invoice", h.createInvoice)
			r.Get("/invoice/{id}", h.getInvoice)
			r.Post("/invoice/{id}/pay", h.payInvoice)
			r.Get("/invoice/{id}/payments", h.invoicePayments)
			r.Get("/invoices/unpaid", h.unpaidInvoices)
		})

		r.Get("/dashboard/summary", h.dashboardSummary)
	})

	return r
}
