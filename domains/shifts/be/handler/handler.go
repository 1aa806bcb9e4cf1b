// Package handler exposes the shift scheduling HTTP surface.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clearstaff/hr-backoffice/domains/shifts/be/service"
	"github.com/clearstaff/hr-backoffice/platform/go/auth"
	"github.com/clearstaff/hr-backoffice/platform/go/httpx"
	"github.com/clearstaff/hr-backoffice/platform/go/logging"
	"github.com/clearstaff/hr-backoffice/platform/go/persistence"
	"github.com/clearstaff/hr-backoffice/platform/go/tenant"
)

// Handler serves the /shifts routes.
type Handler struct {
	service  service.Service
	validate *validator.Validate
	logger   *zap.Logger
}

// New constructs the shifts handler.
func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("shifts service is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		service:  svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Routes mounts the shift endpoints. /mine is registered before /{shiftID} so
// chi never treats the literal as an id.
func (h *Handler) Routes(elevated func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/mine", h.listMine)
	r.Get("/{shiftID}", h.get)
	r.Post("/{shiftID}/ack", h.acknowledge)

	r.Group(func(r chi.Router) {
		if elevated != nil {
			r.Use(elevated)
		}
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Put("/{shiftID}", h.update)
		r.Delete("/{shiftID}", h.remove)
	})

	return r
}

type createShiftRequest struct {
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime  string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime    string `json:"endTime" validate:"required,datetime=15:04"`
	EmployeeID string `json:"employeeId" validate:"required,uuid"`
	Location   string `json:"location" validate:"max=200"`
	Role       string `json:"role" validate:"max=100"`
	Notes      string `json:"notes" validate:"max=2000"`
	Published  bool   `json:"published"`
}

type updateShiftRequest struct {
	Date       *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime  *string `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime    *string `json:"endTime" validate:"omitempty,datetime=15:04"`
	EmployeeID *string `json:"employeeId" validate:"omitempty,uuid"`
	Location   *string `json:"location" validate:"omitempty,max=200"`
	Role       *string `json:"role" validate:"omitempty,max=100"`
	Notes      *string `json:"notes" validate:"omitempty,max=2000"`
	Published  *bool   `json:"published"`
}

type acknowledgeRequest struct {
	Acknowledged bool   `json:"acknowledged"`
	Note         string `json:"note" validate:"max=2000"`
}

type conflictResponse struct {
	Error     string                `json:"error"`
	Reason    string                `json:"reason"`
	Conflicts []service.ConflictRef `json:"conflicts"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenant.FromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	opts, err := listOptionsFromQuery(r)
	if err != nil {
		httpx.ErrorWithReason(w, http.StatusBadRequest, err.Error(), "invalid")
		return
	}

	shifts, svcErr := h.service.List(r.Context(), tc, opts)
	if svcErr != nil {
		h.writeError(w, r, svcErr)
		return
	}

	httpx.JSON(w, http.StatusOK, shifts)
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
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

	opts, err := listOptionsFromQuery(r)
	if err != nil {
		httpx.ErrorWithReason(w, http.StatusBadRequest, err.Error(), "invalid")
		return
	}

	shifts, svcErr := h.service.Mine(r.Context(), tc, principal.UID, opts)
	if svcErr != nil {
		h.writeError(w, r, svcErr)
		return
	}

	httpx.JSON(w, http.StatusOK, shifts)
}

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

	shiftID, err := shiftIDFromPath(r)
	if err != nil {
		httpx.ErrorWithReason(w, http.StatusBadRequest, "invalid shift id", "invalid")
		return
	}

	shift, svcErr := h.service.Get(r.Context(), tc, principal.UID, shiftID)
	if svcErr != nil {
		h.writeError(w, r, svcErr)
		return
	}

	httpx.JSON(w, http.StatusOK, shift)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenant.FromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var req createShiftRequest
	if !h.decode(w, r, &req) {
		return
	}

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		httpx.ErrorWithReason(w, http.StatusBadRequest, "invalid employee id", "invalid")
		return
	}

	shift, svcErr := h.service.Create(r.Context(), tc, service.CreateInput{
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		EmployeeID: employeeID,
		Location:   req.Location,
		Role:       req.Role,
		Notes:      req.Notes,
		Published:  req.Published,
	})
	if svcErr != nil {
		h.writeError(w, r, svcErr)
		return
	}

	httpx.JSON(w, http.StatusCreated, shift)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenant.FromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	shiftID, err := shiftIDFromPath(r)
	if err != nil {
		httpx.ErrorWithReason(w, http.StatusBadRequest, "invalid shift id", "invalid")
		return
	}

	var req updateShiftRequest
	if !h.decode(w, r, &req) {
		return
	}

	input := service.UpdateInput{
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Location:  req.Location,
		Role:      req.Role,
		Notes:     req.Notes,
		Published: req.Published,
	}
	if req.EmployeeID != nil {
		employeeID, parseErr := uuid.Parse(*req.EmployeeID)
		if parseErr != nil {
			httpx.ErrorWithReason(w, http.StatusBadRequest, "invalid employee id", "invalid")
			return
		}
		input.EmployeeID = &employeeID
	}

	shift, svcErr := h.service.Update(r.Context(), tc, shiftID, input)
	if svcErr != nil {
		h.writeError(w, r, svcErr)
		return
	}

	httpx.JSON(w, http.StatusOK, shift)
}

func (h *Handler) acknowledge(w http.ResponseWriter, r *http.Request) {
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

	shiftID, err := shiftIDFromPath(r)
	if err != nil {
		httpx.ErrorWithReason(w, http.StatusBadRequest, "invalid shift id", "invalid")
		return
	}

	var req acknowledgeRequest
	if !h.decode(w, r, &req) {
		return
	}

	shift, svcErr := h.service.Acknowledge(r.Context(), tc, principal.UID, shiftID, req.Acknowledged, req.Note)
	if svcErr != nil {
		h.writeError(w, r, svcErr)
		return
	}

	httpx.JSON(w, http.StatusOK, shift)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenant.FromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	shiftID, err := shiftIDFromPath(r)
	if err != nil {
		httpx.ErrorWithReason(w, http.StatusBadRequest, "invalid shift id", "invalid")
		return
	}

	if svcErr := h.service.Delete(r.Context(), tc, shiftID); svcErr != nil {
		h.writeError(w, r, svcErr)
		return
	}

	httpx.NoContent(w)
}

// decode unmarshals and validates the JSON body, writing the 400 itself when
// the payload is unusable. Returns false when the caller should stop.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		httpx.ErrorWithReason(w, http.StatusBadRequest, "malformed json body", "invalid")
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"reason": "invalid",
			"fields": validationFields(err),
		})
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var overlap *service.OverlapError
	if errors.As(err, &overlap) {
		httpx.JSON(w, http.StatusConflict, conflictResponse{
			Error:     "shift overlaps existing shift(s)",
			Reason:    "overlap",
			Conflicts: overlap.Conflicts,
		})
		return
	}

	var validation *service.ValidationError
	if errors.As(err, &validation) {
		httpx.JSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"reason": "invalid",
			"fields": validation.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "shift not found")
	case errors.Is(err, service.ErrForbidden):
		httpx.ErrorWithReason(w, http.StatusForbidden, "forbidden", "forbidden")
	case errors.Is(err, persistence.ErrUnavailable):
		logging.FromRequest(r, h.logger).Warn("shift store unavailable", zap.Error(err))
		httpx.ErrorWithReason(w, http.StatusServiceUnavailable, "temporarily unavailable, retry later", "unavailable")
	default:
		logging.FromRequest(r, h.logger).Error("shift operation failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func shiftIDFromPath(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "shiftID"))
}

func listOptionsFromQuery(r *http.Request) (service.ListOptions, error) {
	q := r.URL.Query()
	opts := service.ListOptions{}

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		opts.From = &v
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		opts.To = &v
	}
	if v := strings.TrimSpace(q.Get("employeeId")); v != "" {
		employeeID, err := uuid.Parse(v)
		if err != nil {
			return service.ListOptions{}, errors.New("invalid employeeId filter")
		}
		opts.EmployeeID = &employeeID
	}
	if v := strings.TrimSpace(q.Get("published")); v != "" {
		published, err := strconv.ParseBool(v)
		if err != nil {
			return service.ListOptions{}, errors.New("invalid published filter")
		}
		opts.Published = &published
	}
	if v := strings.TrimSpace(q.Get("acknowledged")); v != "" {
		acknowledged, err := strconv.ParseBool(v)
		if err != nil {
			return service.ListOptions{}, errors.New("invalid acknowledged filter")
		}
		opts.Acknowledged = &acknowledged
	}
	if v := strings.TrimSpace(q.Get("q")); v != "" {
		opts.Query = &v
	}
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return service.ListOptions{}, errors.New("invalid limit filter")
		}
		opts.Limit = limit
	}

	return opts, nil
}
