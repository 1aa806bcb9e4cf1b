package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	employeesservice "github.com/clearstaff/hr-backoffice/domains/employees/be/service"
	"github.com/clearstaff/hr-backoffice/platform/go/auth"
	"github.com/clearstaff/hr-backoffice/platform/go/tenant"
)

type employeesServiceMock struct {
	GetByUIDFunc func(ctx context.Context, tc tenant.Context, uid string) (employeesservice.Employee, error)
}

func (m *employeesServiceMock) List(context.Context, tenant.Context, employeesservice.ListOptions) ([]employeesservice.Employee, error) {
	return nil, nil
}

func (m *employeesServiceMock) Get(context.Context, tenant.Context, uuid.UUID) (employeesservice.Employee, error) {
	return employeesservice.Employee{}, employeesservice.ErrNotFound
}

func (m *employeesServiceMock) GetByUID(ctx context.Context, tc tenant.Context, uid string) (employeesservice.Employee, error) {
	return m.GetByUIDFunc(ctx, tc, uid)
}

var (
	tenantA = uuid.MustParse("7b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d")
	tenantB = uuid.MustParse("f47ac10b-58cc-4372-a567-0e02b2c3d479")
)

func newHandler(t *testing.T, employees employeesservice.Service) *Handler {
	t.Helper()
	return New(employees, zaptest.NewLogger(t))
}

func authedRequest() *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := auth.WithPrincipal(req.Context(), &auth.Principal{UID: "uid-emma", Email: "emma@example.com"})
	ctx = tenant.WithContext(ctx, tenant.Context{
		TenantID: tenantA,
		Role:     tenant.RoleOwner,
		Memberships: []tenant.Membership{
			{TenantID: tenantA, Role: tenant.RoleOwner},
			{TenantID: tenantB, Role: tenant.RoleEmployee},
		},
	})
	return req.WithContext(ctx)
}

func TestGetReflectsIdentityAndTenant(t *testing.T) {
	t.Parallel()

	employeeID := uuid.MustParse("9c858901-8a57-4791-81fe-4c455b099bc9")
	employees := &employeesServiceMock{
		GetByUIDFunc: func(_ context.Context, tc tenant.Context, uid string) (employeesservice.Employee, error) {
			require.Equal(t, tenantA, tc.TenantID)
			require.Equal(t, "uid-emma", uid)
			return employeesservice.Employee{ID: employeeID, UID: uid, FullName: "Emma Stone"}, nil
		},
	}

	rec := httptest.NewRecorder()
	newHandler(t, employees).Routes().ServeHTTP(rec, authedRequest())

	require.Equal(t, http.StatusOK, rec.Code)

	var got meResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "uid-emma", got.UID)
	require.Equal(t, tenantA, got.TenantID)
	// Owner is reported through its admin alias.
	require.Equal(t, "admin", got.Role)
	require.Len(t, got.Memberships, 2)
	require.Equal(t, "owner", got.Memberships[0].Role)
	require.NotNil(t, got.Employee)
	require.Equal(t, employeeID, got.Employee.ID)
	require.Equal(t, "Emma Stone", got.Employee.FullName)
}

func TestGetWithoutEmployeeRecordStillResolves(t *testing.T) {
	t.Parallel()

	employees := &employeesServiceMock{
		GetByUIDFunc: func(context.Context, tenant.Context, string) (employeesservice.Employee, error) {
			return employeesservice.Employee{}, employeesservice.ErrNotFound
		},
	}

	rec := httptest.NewRecorder()
	newHandler(t, employees).Routes().ServeHTTP(rec, authedRequest())

	require.Equal(t, http.StatusOK, rec.Code)

	var got meResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "uid-emma", got.UID)
	require.Nil(t, got.Employee)
}

func TestGetWithoutPrincipalIsUnauthorized(t *testing.T) {
	t.Parallel()

	employees := &employeesServiceMock{
		GetByUIDFunc: func(context.Context, tenant.Context, string) (employeesservice.Employee, error) {
			t.Fatal("employee lookup must not run without a principal")
			return employeesservice.Employee{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	newHandler(t, employees).Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
