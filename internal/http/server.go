// Package http is the thin transport adapter over the ledger services:
// request parsing, identity resolution and error mapping. No ledger
// invariants live here.
package http

import (
	"net/http"
	"time"

	"tally/internal/auth"
	applog "tally/internal/log"
	"tally/internal/service"
	"tally/internal/storage"
)

type Server struct {
	http.Server

	registry     *storage.Registry
	categories   *service.CategoryService
	transactions *service.TransactionService
	provider     auth.Provider
	logger       *applog.Logger
}

func NewServer(addr string, registry *storage.Registry, categories *service.CategoryService,
	transactions *service.TransactionService, provider auth.Provider, logger *applog.Logger) *Server {

	s := &Server{
		registry:     registry,
		categories:   categories,
		transactions: transactions,
		provider:     provider,
		logger:       logger.WithComponent(applog.ComponentHTTP),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/years", s.handleListYears)
	mux.HandleFunc("POST /api/years/{year}/backup", s.handleBackup)

	mux.HandleFunc("GET /api/years/{year}/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/years/{year}/categories", s.handleCreateCategory)
	mux.HandleFunc("PUT /api/years/{year}/categories/{id}", s.handleRenameCategory)
	mux.HandleFunc("DELETE /api/years/{year}/categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("GET /api/years/{year}/transactions", s.handleListTransactions)
	mux.HandleFunc("GET /api/years/{year}/transactions/range", s.handleListTransactionsByRange)
	mux.HandleFunc("GET /api/years/{year}/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("PUT /api/years/{year}/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/years/{year}/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/years/{year}/stats", s.handleStats)

	mux.HandleFunc("GET /healthz", s.handleHealth)

	handler := applog.Middleware(logger)(s.authenticate(mux))

	s.Server = http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListYears(w http.ResponseWriter, r *http.Request) {
	years, err := s.registry.UserYears(tenantFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if years == nil {
		years = []int{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"years": years})
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	year, ok := s.yearFromPath(w, r)
	if !ok {
		return
	}
	name, err := s.registry.Backup(tenantFromContext(r.Context()), year)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if name == "" {
		writeJSON(w, http.StatusOK, map[string]any{"backup": nil})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"backup": name})
}
