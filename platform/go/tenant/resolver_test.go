package tenant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	platformauth "github.com/clearstaff/hr-backoffice/platform/go/auth"
)

type membershipSourceMock struct {
	ListMembershipsFunc func(ctx context.Context, uid string) ([]Membership, error)
	DefaultTenantFunc   func(ctx context.Context, uid string) (*uuid.UUID, error)
}

func (m *membershipSourceMock) ListMemberships(ctx context.Context, uid string) ([]Membership, error) {
	return m.ListMembershipsFunc(ctx, uid)
}

func (m *membershipSourceMock) DefaultTenant(ctx context.Context, uid string) (*uuid.UUID, error) {
	if m.DefaultTenantFunc == nil {
		return nil, nil
	}
	return m.DefaultTenantFunc(ctx, uid)
}

var (
	tenantA = uuid.MustParse("7b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d")
	tenantB = uuid.MustParse("f47ac10b-58cc-4372-a567-0e02b2c3d479")
	tenantC = uuid.MustParse("9c858901-8a57-4791-81fe-4c455b099bc9")
)

func member(id uuid.UUID, role Role, age time.Duration) Membership {
	return Membership{TenantID: id, Role: role, CreatedAt: time.Now().Add(-age)}
}

func TestResolveHintMustMatchMembership(t *testing.T) {
	t.Parallel()

	source := &membershipSourceMock{
		ListMembershipsFunc: func(context.Context, string) ([]Membership, error) {
			return []Membership{
				member(tenantA, RoleAdmin, 48*time.Hour),
				member(tenantB, RoleEmployee, 24*time.Hour),
			}, nil
		},
	}
	resolver := NewResolver(source)
	principal := &platformauth.Principal{UID: "uid-1"}

	t.Run("hint inside membership set", func(t *testing.T) {
		tc, err := resolver.Resolve(context.Background(), principal, &tenantB)
		require.NoError(t, err)
		require.Equal(t, tenantB, tc.TenantID)
		require.Equal(t, RoleEmployee, tc.Role)
		require.False(t, tc.SuperadminBypass)
	})

	t.Run("hint outside membership set", func(t *testing.T) {
		_, err := resolver.Resolve(context.Background(), principal, &tenantC)
		require.ErrorIs(t, err, ErrNotAMember)
	})
}

func TestResolveZeroMembershipsIsHardFailure(t *testing.T) {
	t.Parallel()

	source := &membershipSourceMock{
		ListMembershipsFunc: func(context.Context, string) ([]Membership, error) {
			return []Membership{}, nil
		},
	}
	resolver := NewResolver(source)

	_, err := resolver.Resolve(context.Background(), &platformauth.Principal{UID: "uid-1"}, nil)
	require.ErrorIs(t, err, ErrNoMembership)
}

func TestResolveDefaultTenantPreference(t *testing.T) {
	t.Parallel()

	memberships := []Membership{
		member(tenantA, RoleAdmin, 48*time.Hour),
		member(tenantB, RoleEmployee, 24*time.Hour),
	}

	t.Run("valid default wins over first membership", func(t *testing.T) {
		source := &membershipSourceMock{
			ListMembershipsFunc: func(context.Context, string) ([]Membership, error) {
				return memberships, nil
			},
			DefaultTenantFunc: func(context.Context, string) (*uuid.UUID, error) {
				return &tenantB, nil
			},
		}

		tc, err := NewResolver(source).Resolve(context.Background(), &platformauth.Principal{UID: "uid-1"}, nil)
		require.NoError(t, err)
		require.Equal(t, tenantB, tc.TenantID)
	})

	t.Run("stale default falls back to oldest membership", func(t *testing.T) {
		source := &membershipSourceMock{
			ListMembershipsFunc: func(context.Context, string) ([]Membership, error) {
				return memberships, nil
			},
			DefaultTenantFunc: func(context.Context, string) (*uuid.UUID, error) {
				return &tenantC, nil
			},
		}

		tc, err := NewResolver(source).Resolve(context.Background(), &platformauth.Principal{UID: "uid-1"}, nil)
		require.NoError(t, err)
		require.Equal(t, tenantA, tc.TenantID)
		require.Equal(t, RoleAdmin, tc.Role)
	})

	t.Run("no default falls back to oldest membership", func(t *testing.T) {
		source := &membershipSourceMock{
			ListMembershipsFunc: func(context.Context, string) ([]Membership, error) {
				return memberships, nil
			},
		}

		tc, err := NewResolver(source).Resolve(context.Background(), &platformauth.Principal{UID: "uid-1"}, nil)
		require.NoError(t, err)
		require.Equal(t, tenantA, tc.TenantID)
	})
}

func TestResolveSuperadmin(t *testing.T) {
	t.Parallel()

	t.Run("explicit hint bypasses membership checks", func(t *testing.T) {
		source := &membershipSourceMock{
			ListMembershipsFunc: func(context.Context, string) ([]Membership, error) {
				t.Fatal("membership lookup must be skipped")
				return nil, nil
			},
		}

		tc, err := NewResolver(source).Resolve(context.Background(),
			&platformauth.Principal{UID: "uid-root", Superadmin: true}, &tenantC)
		require.NoError(t, err)
		require.Equal(t, tenantC, tc.TenantID)
		require.Equal(t, RoleSuperadmin, tc.Role)
		require.True(t, tc.SuperadminBypass)
		require.Empty(t, tc.Memberships)
	})

	t.Run("no hint follows the ordinary membership path", func(t *testing.T) {
		source := &membershipSourceMock{
			ListMembershipsFunc: func(context.Context, string) ([]Membership, error) {
				return []Membership{member(tenantA, RoleEmployee, time.Hour)}, nil
			},
		}

		tc, err := NewResolver(source).Resolve(context.Background(),
			&platformauth.Principal{UID: "uid-root", Superadmin: true}, nil)
		require.NoError(t, err)
		require.Equal(t, tenantA, tc.TenantID)
		require.Equal(t, RoleEmployee, tc.Role)
		require.False(t, tc.SuperadminBypass)
	})

	t.Run("no hint and no memberships still fails", func(t *testing.T) {
		source := &membershipSourceMock{
			ListMembershipsFunc: func(context.Context, string) ([]Membership, error) {
				return nil, nil
			},
		}

		_, err := NewResolver(source).Resolve(context.Background(),
			&platformauth.Principal{UID: "uid-root", Superadmin: true}, nil)
		require.ErrorIs(t, err, ErrNoMembership)
	})
}

func TestResolveSourceErrorsPropagate(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("store offline")
	source := &membershipSourceMock{
		ListMembershipsFunc: func(context.Context, string) ([]Membership, error) {
			return nil, storeErr
		},
	}

	_, err := NewResolver(source).Resolve(context.Background(), &platformauth.Principal{UID: "uid-1"}, nil)
	require.ErrorIs(t, err, storeErr)
	require.NotErrorIs(t, err, ErrNoMembership)
}
