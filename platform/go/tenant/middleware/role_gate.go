package middleware

import (
	"net/http"

	"github.com/clearstaff/hr-backoffice/platform/go/httpx"
	"github.com/clearstaff/hr-backoffice/platform/go/tenant"
)

// RequireRole gates a route group on the resolved tenant role. An empty
// allowed set means any authenticated tenant member may proceed. The owner
// role is checked through its admin alias. Rejection is always 403; a missing
// tenant context is 401 so callers can tell the two apart.
func RequireRole(allowed ...tenant.Role) func(http.Handler) http.Handler {
	allowedSet := make(map[tenant.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role.Alias()] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			tc, ok := tenant.FromContext(r.Context())
			if !ok {
				httpx.ErrorWithReason(w, http.StatusUnauthorized, "Unauthenticated", "unauthenticated")
				return
			}

			if len(allowedSet) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			if _, ok := allowedSet[tc.Role.Alias()]; !ok {
				httpx.ErrorWithReason(w, http.StatusForbidden, "Forbidden: insufficient role", "forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
