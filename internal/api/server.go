// Package api provides the HTTP server for AsetLedger.
// It exposes the chart of accounts, cost categories, asset depreciation,
// journal posting, and trial balance endpoints as JSON.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pdamkota/asetledger/internal/app/assets"
	"github.com/pdamkota/asetledger/internal/app/depreciation"
	"github.com/pdamkota/asetledger/internal/app/posting"
	"github.com/pdamkota/asetledger/internal/app/registry"
	"github.com/pdamkota/asetledger/internal/app/reporting"
	"github.com/pdamkota/asetledger/internal/app/sequence"
	"github.com/pdamkota/asetledger/internal/domain"
	"github.com/pdamkota/asetledger/internal/infra/sqlite"
)

// Version is the reported service version.
const Version = "0.1.0"

// Server is the AsetLedger HTTP API server.
type Server struct {
	DB           *sqlite.DB
	Accounts     *registry.AccountService
	Categories   *registry.CategoryService
	Assets       *assets.Service
	Depreciation *depreciation.Service
	Posting      *posting.Service
	Reporting    *reporting.Service

	auth           *Authenticator
	metricsEnabled bool
	timeout        time.Duration
}

// NewServer creates an API server and wires the application services
// over the given store.
func NewServer(db *sqlite.DB, auth *Authenticator) *Server {
	seq := sequence.NewAllocator(db)
	sched := depreciation.NewService(db)
	return &Server{
		DB:           db,
		Accounts:     registry.NewAccountService(db),
		Categories:   registry.NewCategoryService(db),
		Assets:       assets.NewService(db, seq, sched),
		Depreciation: sched,
		Posting:      posting.NewService(db, seq),
		Reporting:    reporting.NewService(db),
		auth:         auth,
		timeout:      60 * time.Second,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetTimeout overrides the per-request timeout.
func (s *Server) SetTimeout(d time.Duration) { s.timeout = d }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"version": Version})
	})

	// Chart of accounts; edits are admin-only.
	r.Route("/accounts", func(r chi.Router) {
		r.Get("/", s.handleListAccounts)
		r.Get("/{id}", s.handleGetAccount)
		r.With(s.auth.Require(domain.RoleAdmin)).Post("/", s.handleCreateAccount)
		r.With(s.auth.Require(domain.RoleAdmin)).Patch("/{id}", s.handleUpdateAccount)
		r.With(s.auth.Require(domain.RoleAdmin)).Delete("/{id}", s.handleDeleteAccount)
	})

	// Cost category → account mapping; edits are admin-only.
	r.Route("/cost-categories", func(r chi.Router) {
		r.Get("/", s.handleListCategories)
		r.With(s.auth.Require(domain.RoleAdmin)).Post("/", s.handleCreateCategory)
		r.With(s.auth.Require(domain.RoleAdmin)).Patch("/{id}", s.handleUpdateCategory)
		r.With(s.auth.Require(domain.RoleAdmin)).Delete("/{id}", s.handleDeleteCategory)
	})

	// Asset registry and depreciation schedules.
	r.Route("/assets", func(r chi.Router) {
		r.Use(s.auth.Require(domain.RoleAdmin, domain.RolePimpinan))
		r.Get("/", s.handleListAssets)
		r.Post("/", s.handleCreateAsset)
		r.Get("/{id}/depreciation", s.handleGetDepreciation)
		r.Put("/{id}/depreciation", s.handleUpdateDepreciation)
		r.Post("/{id}/depreciation/simulate", s.handleSimulateDepreciation)
	})

	// Idempotent depreciation posting.
	r.With(s.auth.Require(domain.RoleAdmin, domain.RolePimpinan, domain.RoleKeuangan)).
		Post("/depreciation/{id}/posting", s.handlePostDepreciation)

	// Journal browsing, manual cost entries, and unposting.
	r.Route("/ledger", func(r chi.Router) {
		r.Use(s.auth.Require(domain.RoleAdmin, domain.RolePimpinan, domain.RoleKeuangan))
		r.Get("/", s.handleListJournal)
		r.Get("/{id}", s.handleGetJournal)
		r.Post("/manual", s.handlePostManual)
		r.Delete("/unpost", s.handleUnpost)
	})

	r.With(s.auth.Require(domain.RoleAdmin, domain.RolePimpinan, domain.RoleKeuangan)).
		Get("/trial-balance", s.handleTrialBalance)

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// ─── Response Helpers ───────────────────────────────────────────────────────

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps a domain error to its HTTP status and a structured
// {error, code} payload. Internal failures never leak their cause.
func writeError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	status := http.StatusInternalServerError
	code := "INTERNAL"
	msg := "internal error"

	switch kind {
	case domain.KindValidation:
		status, code, msg = http.StatusBadRequest, "VALIDATION", err.Error()
	case domain.KindNotFound:
		status, code, msg = http.StatusNotFound, "NOT_FOUND", err.Error()
	case domain.KindConflict:
		status, code, msg = http.StatusConflict, "CONFLICT", err.Error()
	case domain.KindForbidden:
		status, code, msg = http.StatusForbidden, "FORBIDDEN", err.Error()
	}

	writeJSON(w, status, map[string]string{"error": msg, "code": code})
}

// corsMiddleware adds CORS headers for the operator UI.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
