package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/financevault/backend/internal/common"
	"github.com/financevault/backend/internal/server/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// bearerToken extracts the token from an Authorization header, or ""
// when the header is missing or not a bearer scheme.
func bearerToken(r *http.Request) string {
	header := r.Header.Get(common.AuthorizationHeaderName)
	if !strings.HasPrefix(header, common.BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, common.BearerPrefix))
}

// claimsFromContext returns the verified claims the auth middleware
// stored for the request.
func claimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// authMiddleware guards protected routes. A request passes only with a
// bearer token that is not on the revocation list, carries a valid
// signature, and has not expired. Every rejection is the same 401 so a
// caller cannot distinguish a revoked token from a forged one.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		revoked, err := s.auth.IsTokenRevoked(r.Context(), token)
		if err != nil {
			s.logger.Error(r.Context(), "Revocation check failed", "error", err.Error())
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if revoked {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		claims, err := s.auth.VerifyToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		// the parser already rejects expired tokens; this keeps the
		// guarantee even if claim validation options ever change
		if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.After(time.Now()) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// corsMiddleware allows any origin. The API is consumed by a browser
// frontend served from a different origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
