// Package handler exposes the authenticated-identity endpoint.
package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	employeesservice "github.com/clearstaff/hr-backoffice/domains/employees/be/service"
	"github.com/clearstaff/hr-backoffice/platform/go/auth"
	"github.com/clearstaff/hr-backoffice/platform/go/httpx"
	"github.com/clearstaff/hr-backoffice/platform/go/logging"
	"github.com/clearstaff/hr-backoffice/platform/go/persistence"
	"github.com/clearstaff/hr-backoffice/platform/go/tenant"
)

type membershipView struct {
	TenantID uuid.UUID `json:"tenantId"`
	Role     string    `json:"role"`
}

type meResponse struct {
	UID              string                     `json:"uid"`
	Email            string                     `json:"email,omitempty"`
	Name             *string                    `json:"name,omitempty"`
	Superadmin       bool                       `json:"superadmin,omitempty"`
	TenantID         uuid.UUID                  `json:"tenantId"`
	Role             string                     `json:"role"`
	SuperadminBypass bool                       `json:"superadminBypass,omitempty"`
	Memberships      []membershipView           `json:"memberships"`
	Employee         *employeesservice.Employee `json:"employee"`
}

// Handler serves the /me route.
type Handler struct {
	employees employeesservice.Service
	logger    *zap.Logger
}

// New constructs the me handler.
func New(employees employeesservice.Service, logger *zap.Logger) *Handler {
	if employees == nil {
		panic("employees service is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{employees: employees, logger: logger}
}

// Routes mounts the /me endpoint.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.get)
	return r
}

// get reflects the caller's verified identity and resolved tenant back,
// together with the tenant's employee record linked to the account when one
// exists. The front end uses it to bootstrap its session and tenant switcher.
func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthenticated")
		return
	}
	tc, ok := tenant.FromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	memberships := make([]membershipView, 0, len(tc.Memberships))
	for _, m := range tc.Memberships {
		memberships = append(memberships, membershipView{TenantID: m.TenantID, Role: string(m.Role)})
	}

	var employee *employeesservice.Employee
	record, err := h.employees.GetByUID(r.Context(), tc, principal.UID)
	switch {
	case err == nil:
		employee = &record
	case errors.Is(err, employeesservice.ErrNotFound):
		// Not every account is linked to an employee record; identity still resolves.
	case errors.Is(err, persistence.ErrUnavailable):
		logging.FromRequest(r, h.logger).Warn("employee store unavailable", zap.Error(err))
		httpx.ErrorWithReason(w, http.StatusServiceUnavailable, "temporarily unavailable, retry later", "unavailable")
		return
	default:
		logging.FromRequest(r, h.logger).Error("resolve employee record", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpx.JSON(w, http.StatusOK, meResponse{
		UID:              principal.UID,
		Email:            principal.Email,
		Name:             principal.Name,
		Superadmin:       principal.Superadmin,
		TenantID:         tc.TenantID,
		Role:             string(tc.Role.Alias()),
		SuperadminBypass: tc.SuperadminBypass,
		Memberships:      memberships,
		Employee:         employee,
	})
}
