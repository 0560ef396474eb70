package hostdata

import (
	"net/http"
	"strings"

	"go.appointy.com/projgql/principal"
)

// RoleMiddleware stands in for a real identity provider: it reads a
// comma-separated X-Roles header and attaches a principal.StaticPrincipal
// carrying those roles to the request context, so the Authorization
// extension on Person.email has something to check.
func RoleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-Roles")
		var roles []string
		if raw != "" {
			for _, role := range strings.Split(raw, ",") {
				if role = strings.TrimSpace(role); role != "" {
					roles = append(roles, role)
				}
			}
		}
		ctx := principal.NewContext(r.Context(), principal.StaticPrincipal{Roles: roles})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
