package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/clearstaff/hr-backoffice/domains/shifts/be/service"
	"github.com/clearstaff/hr-backoffice/platform/go/auth"
	"github.com/clearstaff/hr-backoffice/platform/go/persistence"
	"github.com/clearstaff/hr-backoffice/platform/go/tenant"
)

type serviceMock struct {
	ListFunc        func(ctx context.Context, tc tenant.Context, opts service.ListOptions) ([]service.Shift, error)
	MineFunc        func(ctx context.Context, tc tenant.Context, uid string, opts service.ListOptions) ([]service.Shift, error)
	GetFunc         func(ctx context.Context, tc tenant.Context, uid string, shiftID uuid.UUID) (service.Shift, error)
	CreateFunc      func(ctx context.Context, tc tenant.Context, input service.CreateInput) (service.Shift, error)
	UpdateFunc      func(ctx context.Context, tc tenant.Context, shiftID uuid.UUID, input service.UpdateInput) (service.Shift, error)
	AcknowledgeFunc func(ctx context.Context, tc tenant.Context, uid string, shiftID uuid.UUID, acknowledged bool, note string) (service.Shift, error)
	DeleteFunc      func(ctx context.Context, tc tenant.Context, shiftID uuid.UUID) error
}

func (m *serviceMock) List(ctx context.Context, tc tenant.Context, opts service.ListOptions) ([]service.Shift, error) {
	return m.ListFunc(ctx, tc, opts)
}

func (m *serviceMock) Mine(ctx context.Context, tc tenant.Context, uid string, opts service.ListOptions) ([]service.Shift, error) {
	return m.MineFunc(ctx, tc, uid, opts)
}

func (m *serviceMock) Get(ctx context.Context, tc tenant.Context, uid string, shiftID uuid.UUID) (service.Shift, error) {
	return m.GetFunc(ctx, tc, uid, shiftID)
}

func (m *serviceMock) Create(ctx context.Context, tc tenant.Context, input service.CreateInput) (service.Shift, error) {
	return m.CreateFunc(ctx, tc, input)
}

func (m *serviceMock) Update(ctx context.Context, tc tenant.Context, shiftID uuid.UUID, input service.UpdateInput) (service.Shift, error) {
	return m.UpdateFunc(ctx, tc, shiftID, input)
}

func (m *serviceMock) Acknowledge(ctx context.Context, tc tenant.Context, uid string, shiftID uuid.UUID, acknowledged bool, note string) (service.Shift, error) {
	return m.AcknowledgeFunc(ctx, tc, uid, shiftID, acknowledged, note)
}

func (m *serviceMock) Delete(ctx context.Context, tc tenant.Context, shiftID uuid.UUID) error {
	return m.DeleteFunc(ctx, tc, shiftID)
}

var (
	testTenantID   = uuid.MustParse("7b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d")
	testEmployeeID = uuid.MustParse("f47ac10b-58cc-4372-a567-0e02b2c3d479")
	testShiftID    = uuid.MustParse("9c858901-8a57-4791-81fe-4c455b099bc9")
)

func testShift() service.Shift {
	return service.Shift{
		ID:        testShiftID,
		Date:      "2026-03-14",
		StartTime: "09:00",
		EndTime:   "17:00",
		Location:  "Main Hall",
		Role:      "Server",
		Published: true,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Employee: service.EmployeeRef{
			ID:       testEmployeeID,
			UID:      "uid-emma",
			FullName: "Emma Stone",
			Email:    "emma@example.com",
		},
	}
}

func newServer(t *testing.T, svc service.Service) http.Handler {
	t.Helper()
	h := New(svc, zaptest.NewLogger(t))

	router := chi.NewRouter()
	router.Mount("/shifts", h.Routes(nil))
	return router
}

func authedRequest(method, target string, body string, uid string, role tenant.Role) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)

	ctx := auth.WithPrincipal(req.Context(), &auth.Principal{UID: uid, Email: uid + "@example.com"})
	ctx = tenant.WithContext(ctx, tenant.Context{TenantID: testTenantID, Role: role})
	return req.WithContext(ctx)
}

func TestCreateReturnsCreatedShift(t *testing.T) {
	t.Parallel()

	svc := &serviceMock{
		CreateFunc: func(_ context.Context, tc tenant.Context, input service.CreateInput) (service.Shift, error) {
			require.Equal(t, testTenantID, tc.TenantID)
			require.Equal(t, "2026-03-14", input.Date)
			require.Equal(t, "09:00", input.StartTime)
			require.Equal(t, "17:00", input.EndTime)
			require.Equal(t, testEmployeeID, input.EmployeeID)
			return testShift(), nil
		},
	}

	body := `{"date":"2026-03-14","startTime":"09:00","endTime":"17:00","employeeId":"` + testEmployeeID.String() + `","location":"Main Hall","role":"Server","published":true}`
	req := authedRequest(http.MethodPost, "/shifts/", body, "uid-admin", tenant.RoleAdmin)
	rec := httptest.NewRecorder()

	newServer(t, svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got service.Shift
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, testShiftID, got.ID)
	require.Equal(t, "09:00", got.StartTime)
}

func TestCreateRejectsMalformedPayload(t *testing.T) {
	t.Parallel()

	svc := &serviceMock{}

	cases := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{"date":`},
		{name: "unknown field", body: `{"date":"2026-03-14","startTime":"09:00","endTime":"17:00","employeeId":"` + testEmployeeID.String() + `","bogus":true}`},
		{name: "bad date format", body: `{"date":"14/03/2026","startTime":"09:00","endTime":"17:00","employeeId":"` + testEmployeeID.String() + `"}`},
		{name: "bad time format", body: `{"date":"2026-03-14","startTime":"9am","endTime":"17:00","employeeId":"` + testEmployeeID.String() + `"}`},
		{name: "missing employee", body: `{"date":"2026-03-14","startTime":"09:00","endTime":"17:00"}`},
		{name: "employee not a uuid", body: `{"date":"2026-03-14","startTime":"09:00","endTime":"17:00","employeeId":"nope"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := authedRequest(http.MethodPost, "/shifts/", tc.body, "uid-admin", tenant.RoleAdmin)
			rec := httptest.NewRecorder()

			newServer(t, svc).ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateConflictEnumeratesAllOverlaps(t *testing.T) {
	t.Parallel()

	conflictA := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	conflictB := uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8")

	svc := &serviceMock{
		CreateFunc: func(context.Context, tenant.Context, service.CreateInput) (service.Shift, error) {
			return service.Shift{}, &service.OverlapError{Conflicts: []service.ConflictRef{
				{ID: conflictA, Date: "2026-03-14", StartTime: "08:00", EndTime: "10:00"},
				{ID: conflictB, Date: "2026-03-14", StartTime: "16:00", EndTime: "18:00"},
			}}
		},
	}

	body := `{"date":"2026-03-14","startTime":"09:00","endTime":"17:00","employeeId":"` + testEmployeeID.String() + `"}`
	req := authedRequest(http.MethodPost, "/shifts/", body, "uid-admin", tenant.RoleAdmin)
	rec := httptest.NewRecorder()

	newServer(t, svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)

	var got conflictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "overlap", got.Reason)
	require.Len(t, got.Conflicts, 2)
	require.Equal(t, conflictA, got.Conflicts[0].ID)
	require.Equal(t, "08:00", got.Conflicts[0].StartTime)
	require.Equal(t, "18:00", got.Conflicts[1].EndTime)
}

func TestGetStatusMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "not found", err: service.ErrNotFound, status: http.StatusNotFound},
		{name: "forbidden", err: service.ErrForbidden, status: http.StatusForbidden},
		{name: "unavailable", err: persistence.ErrUnavailable, status: http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &serviceMock{
				GetFunc: func(context.Context, tenant.Context, string, uuid.UUID) (service.Shift, error) {
					return service.Shift{}, tc.err
				},
			}

			req := authedRequest(http.MethodGet, "/shifts/"+testShiftID.String(), "", "uid-emma", tenant.RoleEmployee)
			rec := httptest.NewRecorder()

			newServer(t, svc).ServeHTTP(rec, req)

			require.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestGetRejectsBadShiftID(t *testing.T) {
	t.Parallel()

	req := authedRequest(http.MethodGet, "/shifts/not-a-uuid", "", "uid-emma", tenant.RoleEmployee)
	rec := httptest.NewRecorder()

	newServer(t, &serviceMock{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMineUsesCallerUID(t *testing.T) {
	t.Parallel()

	svc := &serviceMock{
		MineFunc: func(_ context.Context, _ tenant.Context, uid string, opts service.ListOptions) ([]service.Shift, error) {
			require.Equal(t, "uid-emma", uid)
			require.NotNil(t, opts.From)
			require.Equal(t, "2026-03-01", *opts.From)
			return []service.Shift{testShift()}, nil
		},
	}

	req := authedRequest(http.MethodGet, "/shifts/mine?from=2026-03-01", "", "uid-emma", tenant.RoleEmployee)
	rec := httptest.NewRecorder()

	newServer(t, svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []service.Shift
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
}

func TestListParsesFilters(t *testing.T) {
	t.Parallel()

	svc := &serviceMock{
		ListFunc: func(_ context.Context, _ tenant.Context, opts service.ListOptions) ([]service.Shift, error) {
			require.NotNil(t, opts.EmployeeID)
			require.Equal(t, testEmployeeID, *opts.EmployeeID)
			require.NotNil(t, opts.Published)
			require.True(t, *opts.Published)
			require.Equal(t, 50, opts.Limit)
			return []service.Shift{}, nil
		},
	}

	req := authedRequest(http.MethodGet, "/shifts/?employeeId="+testEmployeeID.String()+"&published=true&limit=50", "", "uid-admin", tenant.RoleAdmin)
	rec := httptest.NewRecorder()

	newServer(t, svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestListRejectsBadFilters(t *testing.T) {
	t.Parallel()

	req := authedRequest(http.MethodGet, "/shifts/?published=maybe", "", "uid-admin", tenant.RoleAdmin)
	rec := httptest.NewRecorder()

	newServer(t, &serviceMock{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdatePassesPartialFields(t *testing.T) {
	t.Parallel()

	svc := &serviceMock{
		UpdateFunc: func(_ context.Context, _ tenant.Context, shiftID uuid.UUID, input service.UpdateInput) (service.Shift, error) {
			require.Equal(t, testShiftID, shiftID)
			require.NotNil(t, input.StartTime)
			require.Equal(t, "10:00", *input.StartTime)
			require.Nil(t, input.Date)
			require.Nil(t, input.EmployeeID)
			return testShift(), nil
		},
	}

	req := authedRequest(http.MethodPut, "/shifts/"+testShiftID.String(), `{"startTime":"10:00"}`, "uid-admin", tenant.RoleAdmin)
	rec := httptest.NewRecorder()

	newServer(t, svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAcknowledgeFlow(t *testing.T) {
	t.Parallel()

	svc := &serviceMock{
		AcknowledgeFunc: func(_ context.Context, _ tenant.Context, uid string, shiftID uuid.UUID, acknowledged bool, note string) (service.Shift, error) {
			require.Equal(t, "uid-emma", uid)
			require.Equal(t, testShiftID, shiftID)
			require.True(t, acknowledged)
			require.Equal(t, "see you there", note)

			shift := testShift()
			shift.Acknowledged = true
			shift.AcknowledgeNote = note
			return shift, nil
		},
	}

	req := authedRequest(http.MethodPost, "/shifts/"+testShiftID.String()+"/ack", `{"acknowledged":true,"note":"see you there"}`, "uid-emma", tenant.RoleEmployee)
	rec := httptest.NewRecorder()

	newServer(t, svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got service.Shift
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.True(t, got.Acknowledged)
}

func TestDeleteReturnsNoContent(t *testing.T) {
	t.Parallel()

	svc := &serviceMock{
		DeleteFunc: func(_ context.Context, _ tenant.Context, shiftID uuid.UUID) error {
			require.Equal(t, testShiftID, shiftID)
			return nil
		},
	}

	req := authedRequest(http.MethodDelete, "/shifts/"+testShiftID.String(), "", "uid-admin", tenant.RoleAdmin)
	rec := httptest.NewRecorder()

	newServer(t, svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMissingTenantContextIsUnauthorized(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/shifts/mine", nil)
	req = req.WithContext(auth.WithPrincipal(req.Context(), &auth.Principal{UID: "uid-emma"}))
	rec := httptest.NewRecorder()

	newServer(t, &serviceMock{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
