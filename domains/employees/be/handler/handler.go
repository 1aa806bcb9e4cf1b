// Package handler exposes the employee directory HTTP surface.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clearstaff/hr-backoffice/domains/employees/be/service"
	"github.com/clearstaff/hr-backoffice/platform/go/httpx"
	"github.com/clearstaff/hr-backoffice/platform/go/logging"
	"github.com/clearstaff/hr-backoffice/platform/go/persistence"
	"github.com/clearstaff/hr-backoffice/platform/go/tenant"
)

// Handler serves the /employees routes.
type Handler struct {
	service service.Service
	logger  *zap.Logger
}

// New constructs the employees handler.
func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("employees service is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: svc, logger: logger}
}

// Routes mounts the directory endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/{employeeID}", h.get)
	return r
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenant.FromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	opts := service.ListOptions{}
	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("department")); v != "" {
		opts.Department = &v
	}
	if v := strings.TrimSpace(q.Get("q")); v != "" {
		opts.Query = &v
	}
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			httpx.ErrorWithReason(w, http.StatusBadRequest, "invalid limit filter", "invalid")
			return
		}
		opts.Limit = limit
	}

	employees, err := h.service.List(r.Context(), tc, opts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, employees)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenant.FromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	employeeID, err := uuid.Parse(chi.URLParam(r, "employeeID"))
	if err != nil {
		httpx.ErrorWithReason(w, http.StatusBadRequest, "invalid employee id", "invalid")
		return
	}

	employee, svcErr := h.service.Get(r.Context(), tc, employeeID)
	if svcErr != nil {
		h.writeError(w, r, svcErr)
		return
	}

	httpx.JSON(w, http.StatusOK, employee)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "employee not found")
	case errors.Is(err, persistence.ErrUnavailable):
		logging.FromRequest(r, h.logger).Warn("employee store unavailable", zap.Error(err))
		httpx.ErrorWithReason(w, http.StatusServiceUnavailable, "temporarily unavailable, retry later", "unavailable")
	default:
		logging.FromRequest(r, h.logger).Error("employee operation failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}
