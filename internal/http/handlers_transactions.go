package http

import (
	"encoding/json"
	"net/http"

	"tally/internal/core"
	"tally/internal/service"
)

// transactionRequest accepts the amount as either a JSON string or a
// number; both go through the same decimal parser.
type transactionRequest struct {
	Amount      json.Number `json:"amount"`
	Date        string      `json:"date"`
	Type        string      `json:"type"`
	CategoryID  int64       `json:"categoryId"`
	Description string      `json:"description"`
}

func (req transactionRequest) toInput() (core.TransactionInput, error) {
	var in core.TransactionInput
	if req.Amount != "" {
		amount, err := core.ParseAmount(req.Amount.String())
		if err != nil {
			return in, err
		}
		in.Amount = amount
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			return in, core.ErrMissingDate
		}
		in.Date = date
	}
	in.Type = core.EntryType(req.Type)
	in.CategoryID = req.CategoryID
	in.Description = req.Description
	return in, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	year, ok := s.yearFromPath(w, r)
	if !ok {
		return
	}
	page := queryInt(r, "page", service.DefaultPage)
	pageSize := queryInt(r, "pageSize", service.DefaultPageSize)
	result, err := s.transactions.List(r.Context(), tenantFromContext(r.Context()), year, page, pageSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageJSON(result))
}

func (s *Server) handleListTransactionsByRange(w http.ResponseWriter, r *http.Request) {
	year, ok := s.yearFromPath(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	start, err := parseDate(q.Get("start"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid start date"))
		return
	}
	end, err := parseDate(q.Get("end"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid end date"))
		return
	}
	items, err := s.transactions.ListByRange(r.Context(), tenantFromContext(r.Context()), year, start, end)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": toTransactionListJSON(items)})
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	year, ok := s.yearFromPath(w, r)
	if !ok {
		return
	}
	id, ok := s.idFromPath(w, r)
	if !ok {
		return
	}
	tx, err := s.transactions.Get(r.Context(), tenantFromContext(r.Context()), year, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionJSON(tx))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	in, err := req.toInput()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tx, err := s.transactions.Create(r.Context(), tenantFromContext(r.Context()), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionJSON(tx))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	year, ok := s.yearFromPath(w, r)
	if !ok {
		return
	}
	id, ok := s.idFromPath(w, r)
	if !ok {
		return
	}
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	in, err := req.toInput()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tx, err := s.transactions.Update(r.Context(), tenantFromContext(r.Context()), year, id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionJSON(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	year, ok := s.yearFromPath(w, r)
	if !ok {
		return
	}
	id, ok := s.idFromPath(w, r)
	if !ok {
		return
	}
	if err := s.transactions.Delete(r.Context(), tenantFromContext(r.Context()), year, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	year, ok := s.yearFromPath(w, r)
	if !ok {
		return
	}
	stats, err := s.transactions.Stats(r.Context(), tenantFromContext(r.Context()), year)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatsJSON(stats))
}
