package http

import (
	"context"
	"net/http"
	"strings"

	"tally/internal/auth"
)

type contextKey string

const identityKey contextKey = "identity"

// authenticate verifies the bearer credential and resolves the effective
// tenant before any shard key exists. A superadmin may select another
// tenant's shards with the tenant query parameter; anyone else attempting
// the override is rejected.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r)
		identity, err := s.provider.Verify(r.Context(), token)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		if override := strings.TrimSpace(r.URL.Query().Get("tenant")); override != "" && override != identity.TenantID {
			if !identity.IsSuperadmin() {
				writeJSON(w, http.StatusForbidden, errorBody("tenant override requires superadmin"))
				return
			}
			identity.TenantID = override
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func identityFromContext(ctx context.Context) auth.Identity {
	if id, ok := ctx.Value(identityKey).(auth.Identity); ok {
		return id
	}
	return auth.Identity{}
}

func tenantFromContext(ctx context.Context) string {
	return identityFromContext(ctx).TenantID
}
