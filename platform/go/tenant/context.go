package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Membership is one (principal, tenant, role) grant. The slice order returned
// by the store is creation order, which the resolver relies on for its
// deterministic fallback.
type Membership struct {
	TenantID  uuid.UUID
	Role      Role
	CreatedAt time.Time
}

// Context is the per-request resolved tenant state. It is recomputed on every
// request from membership data; never cache it across requests, revoked
// access must take effect on the next call.
type Context struct {
	TenantID uuid.UUID
	Role     Role
	// SuperadminBypass is set when membership checks were skipped because the
	// principal holds the superadmin capability. Audit logs must flag it.
	SuperadminBypass bool
	// Memberships is the full snapshot loaded during resolution, retained for
	// tenant-switcher style listings. Empty for superadmin bypass.
	Memberships []Membership
}

// MembershipFor returns the grant for the given tenant, if any.
func (c Context) MembershipFor(tenantID uuid.UUID) (Membership, bool) {
	for _, m := range c.Memberships {
		if m.TenantID == tenantID {
			return m, true
		}
	}
	return Membership{}, false
}

type ctxKey string

const contextKey ctxKey = "CLEARSTAFF_TENANT_CONTEXT"

// WithContext returns a derived context carrying the resolved tenant Context.
func WithContext(ctx context.Context, tc Context) context.Context {
	return context.WithValue(ctx, contextKey, tc)
}

// FromContext extracts the tenant Context and a boolean indicating presence.
func FromContext(ctx context.Context) (Context, bool) {
	v := ctx.Value(contextKey)
	if v == nil {
		return Context{}, false
	}
	tc, ok := v.(Context)
	return tc, ok
}
