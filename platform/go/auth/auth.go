package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/clearstaff/hr-backoffice/platform/go/httpx"
)

// Authenticate parses the request credential through the carrier chain,
// verifies it and sets the Principal on the context. Requests without a valid
// credential are rejected; the response reason distinguishes the failure
// class without leaking verifier internals.
func Authenticate(verify VerifyFunc, carriers []TokenCarrier) func(http.Handler) http.Handler {
	if verify == nil {
		panic("auth.Authenticate: verify func must not be nil")
	}
	if len(carriers) == 0 {
		carriers = DefaultCarriers()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token, found := ExtractToken(r, carriers)
			if !found {
				unauthorized(w, "unauthenticated")
				return
			}

			claims, err := verify(r.Context(), token)
			if err != nil {
				unauthorized(w, reasonForVerifyError(err))
				return
			}

			principal, err := ExtractPrincipal(claims)
			if err != nil {
				unauthorized(w, "malformed")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

func reasonForVerifyError(err error) string {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenRevoked):
		return "revoked"
	default:
		return "malformed"
	}
}

func unauthorized(w http.ResponseWriter, reason string) {
	w.Header().Set("WWW-Authenticate",
		fmt.Sprintf(`Bearer realm="api", error="invalid_token", error_description=%q`, reason))
	httpx.ErrorWithReason(w, http.StatusUnauthorized, "Unauthenticated", reason)
}
