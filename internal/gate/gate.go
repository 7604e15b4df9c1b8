// Package gate is the single authorization checkpoint for the HTTP surface.
// Every protected route declares its role allow-list once, at registration
// time, instead of re-implementing the check inside each handler.
package gate

import (
	"errors"
	"net/http"

	"github.com/debangshucode/client-management-system/internal/auth"
	"github.com/debangshucode/client-management-system/internal/httpx"
)

var ErrUnauthorized = errors.New("unauthorized")

// Allowed reports whether role is in the allow-list.
func Allowed(role string, allowed ...string) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// Authorize resolves the request identity and checks it against the
// allow-list. It returns the claims on success so handlers can reuse them
// without a second context lookup.
func Authorize(r *http.Request, allowed ...string) (*auth.Claims, error) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return nil, ErrUnauthorized
	}
	if !Allowed(claims.Role, allowed...) {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// Require wraps a handler with an allow-list check. A missing identity or a
// role outside the list gets a 401 and the handler never runs.
func Require(next http.HandlerFunc, allowed ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := Authorize(r, allowed...); err != nil {
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		next(w, r)
	}
}
