package http

import (
	"encoding/json"
	"net/http"

	"tally/internal/core"
)

type categoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	year, ok := s.yearFromPath(w, r)
	if !ok {
		return
	}
	cats, err := s.categories.List(r.Context(), tenantFromContext(r.Context()), year)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]categoryJSON, len(cats))
	for i, c := range cats {
		out[i] = toCategoryJSON(c)
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": out})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	year, ok := s.yearFromPath(w, r)
	if !ok {
		return
	}
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	cat, err := s.categories.Create(r.Context(), tenantFromContext(r.Context()), year,
		req.Name, core.EntryType(req.Type))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryJSON(cat))
}

func (s *Server) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	year, ok := s.yearFromPath(w, r)
	if !ok {
		return
	}
	id, ok := s.idFromPath(w, r)
	if !ok {
		return
	}
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	cat, err := s.categories.Rename(r.Context(), tenantFromContext(r.Context()), year, id, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryJSON(cat))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	year, ok := s.yearFromPath(w, r)
	if !ok {
		return
	}
	id, ok := s.idFromPath(w, r)
	if !ok {
		return
	}
	if err := s.categories.Delete(r.Context(), tenantFromContext(r.Context()), year, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
