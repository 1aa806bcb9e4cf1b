package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const TenantsTable = "tenants"

// ErrTenantNotFound indicates a missing tenant record.
var ErrTenantNotFound = errors.New("tenant not found")

// Tenant represents a row in the tenants table.
type Tenant struct {
	TenantID    uuid.UUID `db:"tenant_id"`
	Slug        string    `db:"slug"`
	DisplayName string    `db:"display_name"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// TenantStore manages tenant records. Reads serve tooling and bootstrap;
// request-path code only ever sees tenant ids.
type TenantStore struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewTenantStore returns a store over the shared pool.
func NewTenantStore(pool *pgxpool.Pool, timeout time.Duration) (*TenantStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &TenantStore{pool: pool, timeout: timeout}, nil
}

const tenantColumns = "tenant_id, slug, display_name, created_at, updated_at"

// EnsureTenant creates the tenant for a slug if missing and returns it either
// way. Display name updates apply on repeat calls when non-empty.
func (s *TenantStore) EnsureTenant(ctx context.Context, slug, displayName string) (Tenant, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return Tenant{}, errors.New("slug is required")
	}

	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        INSERT INTO %s (tenant_id, slug, display_name)
        VALUES ($1, $2, $3)
        ON CONFLICT (slug) DO UPDATE SET
            display_name = CASE WHEN EXCLUDED.display_name <> '' THEN EXCLUDED.display_name ELSE %s.display_name END,
            updated_at = NOW()
        RETURNING %s
    `, TenantsTable, TenantsTable, tenantColumns),
		uuid.New(), slug, strings.TrimSpace(displayName))

	return scanTenant(row)
}

// GetTenantBySlug returns one tenant by its slug.
func (s *TenantStore) GetTenantBySlug(ctx context.Context, slug string) (Tenant, error) {
	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        SELECT %s FROM %s WHERE slug = $1
    `, tenantColumns, TenantsTable), strings.ToLower(strings.TrimSpace(slug)))

	t, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Tenant{}, ErrTenantNotFound
		}
		return Tenant{}, classifyStoreError("get tenant by slug", err)
	}

	return t, nil
}

func scanTenant(row pgx.Row) (Tenant, error) {
	var t Tenant
	if err := row.Scan(&t.TenantID, &t.Slug, &t.DisplayName, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return Tenant{}, err
	}
	return t, nil
}
