package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	platformauth "github.com/clearstaff/hr-backoffice/platform/go/auth"
)

// Resolution failure taxonomy. Both are client errors for an authenticated
// principal; neither may be conflated with a credential failure.
var (
	// ErrNoMembership means the principal belongs to zero tenants.
	ErrNoMembership = errors.New("no tenant membership found")
	// ErrNotAMember means the requested tenant is not in the principal's membership set.
	ErrNotAMember = errors.New("not a member of this tenant")
)

// MembershipSource is the read-mostly lookup the resolver depends on.
type MembershipSource interface {
	// ListMemberships returns the principal's grants in creation order.
	// An empty slice is a valid result, not an error.
	ListMemberships(ctx context.Context, uid string) ([]Membership, error)
	// DefaultTenant returns the user's preferred tenant, or nil when unset.
	DefaultTenant(ctx context.Context, uid string) (*uuid.UUID, error)
}

// Resolver turns a verified principal plus an optional explicit tenant hint
// into the effective tenant Context for the request.
type Resolver struct {
	memberships MembershipSource
}

// NewResolver constructs a Resolver over the given membership source.
func NewResolver(memberships MembershipSource) *Resolver {
	if memberships == nil {
		panic("tenant.NewResolver: membership source is required")
	}
	return &Resolver{memberships: memberships}
}

// Resolve picks the effective tenant for the request.
//
// A superadmin principal with an explicit hint is accepted verbatim with no
// membership check; this is the platform-operator escape hatch and the result
// carries SuperadminBypass so it reaches audit logs. A superadmin without a
// hint falls through to the ordinary membership path.
//
// Otherwise the hint must appear in the membership set. Without a hint the
// stored default tenant wins when still valid, then the oldest membership.
// Zero memberships is a hard failure everywhere.
func (r *Resolver) Resolve(ctx context.Context, principal *platformauth.Principal, hint *uuid.UUID) (Context, error) {
	if principal == nil {
		return Context{}, errors.New("principal is required")
	}

	if principal.Superadmin && hint != nil {
		return Context{
			TenantID:         *hint,
			Role:             RoleSuperadmin,
			SuperadminBypass: true,
		}, nil
	}

	memberships, err := r.memberships.ListMemberships(ctx, principal.UID)
	if err != nil {
		return Context{}, fmt.Errorf("list memberships: %w", err)
	}

	if hint != nil {
		for _, m := range memberships {
			if m.TenantID == *hint {
				return Context{TenantID: m.TenantID, Role: m.Role, Memberships: memberships}, nil
			}
		}
		return Context{}, ErrNotAMember
	}

	if len(memberships) == 0 {
		return Context{}, ErrNoMembership
	}

	if def, err := r.memberships.DefaultTenant(ctx, principal.UID); err != nil {
		return Context{}, fmt.Errorf("load default tenant: %w", err)
	} else if def != nil {
		for _, m := range memberships {
			if m.TenantID == *def {
				return Context{TenantID: m.TenantID, Role: m.Role, Memberships: memberships}, nil
			}
		}
	}

	first := memberships[0]
	return Context{TenantID: first.TenantID, Role: first.Role, Memberships: memberships}, nil
}
