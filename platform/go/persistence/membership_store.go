package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clearstaff/hr-backoffice/platform/go/tenant"
)

const (
	MembershipsTable  = "memberships"
	UserProfilesTable = "user_profiles"
)

// ErrMembershipNotFound indicates a missing (uid, tenant) grant.
var ErrMembershipNotFound = errors.New("membership not found")

// MembershipStore reads and writes tenant membership grants and the per-user
// profile preferences that back tenant resolution. It satisfies
// tenant.MembershipSource.
type MembershipStore struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewMembershipStore returns a store over the shared pool. A non-positive
// timeout falls back to the package default.
func NewMembershipStore(pool *pgxpool.Pool, timeout time.Duration) (*MembershipStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &MembershipStore{pool: pool, timeout: timeout}, nil
}

// ListMemberships returns the principal's grants ordered by creation time so
// the resolver's first-membership fallback stays deterministic. Zero rows is
// a valid empty result.
func (s *MembershipStore) ListMemberships(ctx context.Context, uid string) ([]tenant.Membership, error) {
	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
        SELECT tenant_id, role, created_at
        FROM `+MembershipsTable+`
        WHERE uid = $1
        ORDER BY created_at, tenant_id
    `, uid)
	if err != nil {
		return nil, classifyStoreError("list memberships", err)
	}
	defer rows.Close()

	memberships := make([]tenant.Membership, 0)
	for rows.Next() {
		var (
			tenantID  uuid.UUID
			role      string
			createdAt time.Time
		)
		if err := rows.Scan(&tenantID, &role, &createdAt); err != nil {
			return nil, classifyStoreError("scan membership", err)
		}
		memberships = append(memberships, tenant.Membership{
			TenantID:  tenantID,
			Role:      tenant.ParseRole(role),
			CreatedAt: createdAt,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, classifyStoreError("iterate memberships", err)
	}

	return memberships, nil
}

// DefaultTenant returns the user's preferred tenant, or nil when the profile
// is absent or carries no preference.
func (s *MembershipStore) DefaultTenant(ctx context.Context, uid string) (*uuid.UUID, error) {
	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	var defaultTenant *uuid.UUID
	err := s.pool.QueryRow(ctx, `
        SELECT default_tenant_id
        FROM `+UserProfilesTable+`
        WHERE uid = $1
    `, uid).Scan(&defaultTenant)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classifyStoreError("load default tenant", err)
	}

	return defaultTenant, nil
}

// UpsertMembership grants tenant access or changes the role of an existing
// grant. Role changes keep the original created_at so resolution order is
// stable.
func (s *MembershipStore) UpsertMembership(ctx context.Context, uid string, tenantID uuid.UUID, role tenant.Role) error {
	if strings.TrimSpace(uid) == "" {
		return errors.New("uid is required")
	}

	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
        INSERT INTO `+MembershipsTable+` (uid, tenant_id, role)
        VALUES ($1, $2, $3)
        ON CONFLICT (uid, tenant_id) DO UPDATE SET role = EXCLUDED.role
    `, uid, tenantID, role.String())
	if err != nil {
		return classifyStoreError("upsert membership", err)
	}

	return nil
}

// DeleteMembership removes a grant on offboarding.
func (s *MembershipStore) DeleteMembership(ctx context.Context, uid string, tenantID uuid.UUID) error {
	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `
        DELETE FROM `+MembershipsTable+` WHERE uid = $1 AND tenant_id = $2
    `, uid, tenantID)
	if err != nil {
		return classifyStoreError("delete membership", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMembershipNotFound
	}

	return nil
}

// SetDefaultTenant stores the user's preferred tenant, creating the profile
// row when missing.
func (s *MembershipStore) SetDefaultTenant(ctx context.Context, uid string, tenantID *uuid.UUID) error {
	if strings.TrimSpace(uid) == "" {
		return errors.New("uid is required")
	}

	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
        INSERT INTO `+UserProfilesTable+` (uid, default_tenant_id)
        VALUES ($1, $2)
        ON CONFLICT (uid) DO UPDATE SET default_tenant_id = EXCLUDED.default_tenant_id, updated_at = NOW()
    `, uid, tenantID)
	if err != nil {
		return classifyStoreError("set default tenant", err)
	}

	return nil
}
