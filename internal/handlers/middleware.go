package handlers

import (
	"net/http"
	"strings"

	"github.com/RapidPrime/ReferenceClient/internal/core/ports/primary"
)

type MiddlewareProvider struct {
	Verifier primary.TokenVerifier
	Logger   primary.Logger
}

func New(verifier primary.TokenVerifier, logger primary.Logger) *MiddlewareProvider {
	return &MiddlewareProvider{
		Verifier: verifier,
		Logger:   logger,
	}
}

// JWTMiddleware requires a valid "Authorization: Bearer <token>" header
func (m *MiddlewareProvider) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			ResponseError(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			ResponseError(w, "Invalid authorization header", http.StatusUnauthorized)
			return
		}

		ok, err := m.Verifier.VerifyTokenHMAC(r.Context(), tokenString)
		if err != nil || !ok {
			m.Logger.Debug("Rejected status API token", "remote", r.RemoteAddr, "error", err)
			ResponseError(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
