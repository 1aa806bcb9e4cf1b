package middleware

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	platformauth "github.com/clearstaff/hr-backoffice/platform/go/auth"
	"github.com/clearstaff/hr-backoffice/platform/go/httpx"
	platformlogging "github.com/clearstaff/hr-backoffice/platform/go/logging"
	"github.com/clearstaff/hr-backoffice/platform/go/tenant"
)

// Config controls the tenant context middleware.
type Config struct {
	// HintCarriers overrides the tenant hint precedence; nil uses the default.
	HintCarriers []HintCarrier
}

// WithTenantContext resolves the effective tenant for every request and
// attaches tenant.Context. Resolution runs from scratch each time on purpose:
// a revoked membership must take effect on the very next call.
func WithTenantContext(resolver *tenant.Resolver, cfg Config) func(http.Handler) http.Handler {
	if resolver == nil {
		panic("tenant middleware: resolver is required")
	}

	carriers := cfg.HintCarriers
	if len(carriers) == 0 {
		carriers = DefaultHintCarriers()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			principal, ok := platformauth.PrincipalFromContext(r.Context())
			if !ok || principal == nil {
				httpx.ErrorWithReason(w, http.StatusUnauthorized, "Unauthenticated", "unauthenticated")
				return
			}

			var hint *uuid.UUID
			if raw, found := ExtractHint(r, carriers); found {
				parsed, err := uuid.Parse(raw)
				if err != nil {
					httpx.ErrorWithReason(w, http.StatusBadRequest, "Invalid tenant id", "invalid")
					return
				}
				hint = &parsed
			}

			tc, err := resolver.Resolve(r.Context(), principal, hint)
			if err != nil {
				switch {
				case errors.Is(err, tenant.ErrNotAMember):
					httpx.ErrorWithReason(w, http.StatusForbidden, "Not a member of this tenant", "not_a_member")
				case errors.Is(err, tenant.ErrNoMembership):
					httpx.ErrorWithReason(w, http.StatusForbidden, "No tenant membership found", "no_membership")
				default:
					httpx.ErrorWithReason(w, http.StatusServiceUnavailable, "Tenant resolution failed", "unavailable")
				}
				return
			}

			if logger := platformlogging.FromRequest(r, nil); logger != nil {
				fields := []zap.Field{
					zap.String("tenant_id", tc.TenantID.String()),
					zap.String("tenant_role", tc.Role.String()),
				}
				if tc.SuperadminBypass {
					fields = append(fields, zap.Bool("superadmin_bypass", true))
					logger.Info("tenant resolved via superadmin bypass", fields...)
				}
				logger = logger.With(fields...)
				r = r.WithContext(platformlogging.WithLogger(r.Context(), logger))
			}

			next.ServeHTTP(w, r.WithContext(tenant.WithContext(r.Context(), tc)))
		})
	}
}
