package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"tally/internal/auth"
	"tally/internal/core"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// writeError maps domain errors onto HTTP statuses. Storage failures are
// logged with full context and surfaced as a generic internal error.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, errorBody("invalid or missing credentials"))
	case core.IsBadRequest(err):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, core.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case core.IsConflict(err):
		writeJSON(w, http.StatusConflict, errorBody(err.Error()))
	default:
		s.logger.ErrorContext(r.Context(), "Request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// yearFromPath parses the {year} path segment; anything but a four-digit
// year is a bad request.
func (s *Server) yearFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.PathValue("year")
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1000 || year > 9999 {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid year '"+raw+"'"))
		return 0, false
	}
	return year, true
}

func (s *Server) idFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id '"+raw+"'"))
		return 0, false
	}
	return id, true
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or non-numeric.
func queryInt(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// parseDate accepts a calendar date or a full RFC3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
