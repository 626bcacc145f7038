package app

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/klabast/wb-services/study-diary/internal/auth"
)

type ctxKey int

const claimsKey ctxKey = iota

// RequireSession rejects requests without a valid session cookie
func (s *Server) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := s.session(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

// session returns the claims of the request's session cookie
func (s *Server) session(r *http.Request) (*auth.Claims, bool) {
	cookie, err := r.Cookie(auth.SessionCookie)
	if err != nil {
		return nil, false
	}
	claims, err := s.sessions.Parse(cookie.Value)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// claimsFrom returns the claims stored by RequireSession
func claimsFrom(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(claimsKey).(*auth.Claims)
	return claims
}

// writeJSON encodes v with status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeError sends {"error": message}
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// setCookie sets an HttpOnly cookie on the root path
func (s *Server) setCookie(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
