package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/clearstaff/hr-backoffice/platform/go/httpx"
	"github.com/clearstaff/hr-backoffice/platform/go/tenant"
)

func gateRequest(role tenant.Role) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	tc := tenant.Context{TenantID: uuid.New(), Role: role}
	return req.WithContext(tenant.WithContext(req.Context(), tc))
}

func okNext() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	gate := RequireRole(tenant.RoleAdmin, tenant.RoleHR, tenant.RoleManager, tenant.RoleSuperadmin)

	cases := []struct {
		role   tenant.Role
		status int
	}{
		{role: tenant.RoleAdmin, status: http.StatusOK},
		{role: tenant.RoleOwner, status: http.StatusOK}, // via admin alias
		{role: tenant.RoleHR, status: http.StatusOK},
		{role: tenant.RoleManager, status: http.StatusOK},
		{role: tenant.RoleSuperadmin, status: http.StatusOK},
		{role: tenant.RoleEmployee, status: http.StatusForbidden},
		{role: tenant.RoleMember, status: http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.role.String(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			gate(okNext()).ServeHTTP(rec, gateRequest(tc.role))
			require.Equal(t, tc.status, rec.Code)

			if tc.status == http.StatusForbidden {
				var body httpx.ErrorBody
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				require.Equal(t, "forbidden", body.Reason)
			}
		})
	}
}

func TestRequireRoleEmptySetAllowsAnyMember(t *testing.T) {
	t.Parallel()

	gate := RequireRole()

	rec := httptest.NewRecorder()
	gate(okNext()).ServeHTTP(rec, gateRequest(tenant.RoleMember))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleMissingTenantContextIs401(t *testing.T) {
	t.Parallel()

	gate := RequireRole(tenant.RoleAdmin)

	rec := httptest.NewRecorder()
	gate(okNext()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRolePassesOptionsThrough(t *testing.T) {
	t.Parallel()

	gate := RequireRole(tenant.RoleAdmin)

	rec := httptest.NewRecorder()
	gate(okNext()).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
