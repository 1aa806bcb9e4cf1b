package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clearstaff/hr-backoffice/domains/shifts/be/repo"
	"github.com/clearstaff/hr-backoffice/platform/go/persistence"
	"github.com/clearstaff/hr-backoffice/platform/go/tenant"
)

// FieldErrors maps request fields to validation issues.
type FieldErrors map[string][]string

// ValidationError is returned when the input payload is invalid.
type ValidationError struct {
	Fields FieldErrors
}

func (v *ValidationError) Error() string {
	return "validation error"
}

// Domain sentinel errors.
var (
	ErrNotFound  = errors.New("shift not found")
	ErrForbidden = errors.New("shift belongs to another employee")
)

// EmployeeRef is the denormalized employee snapshot embedded on each shift.
type EmployeeRef struct {
	ID         uuid.UUID `json:"id"`
	UID        string    `json:"uid"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	TeamName   string    `json:"teamName"`
}

// Shift is the domain view of a shift assignment. Date and times use the
// wire formats (YYYY-MM-DD, HH:MM).
type Shift struct {
	ID              uuid.UUID   `json:"id"`
	Date            string      `json:"date"`
	StartTime       string      `json:"startTime"`
	EndTime         string      `json:"endTime"`
	Location        string      `json:"location"`
	Role            string      `json:"role"`
	Notes           string      `json:"notes"`
	Published       bool        `json:"published"`
	Acknowledged    bool        `json:"acknowledged"`
	AcknowledgeNote string      `json:"acknowledgeNote"`
	AcknowledgedAt  *time.Time  `json:"acknowledgedAt"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
	Employee        EmployeeRef `json:"employee"`
}

// ConflictRef identifies one conflicting shift in an overlap rejection.
type ConflictRef struct {
	ID        uuid.UUID `json:"id"`
	Date      string    `json:"date"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
}

// OverlapError carries every conflicting shift so callers can present the
// complete picture, not just the first collision.
type OverlapError struct {
	Conflicts []ConflictRef
}

func (e *OverlapError) Error() string {
	return "shift overlaps existing shift(s)"
}

// ListOptions controls filtering for shift listings.
type ListOptions struct {
	From         *string
	To           *string
	EmployeeID   *uuid.UUID
	Published    *bool
	Acknowledged *bool
	Query        *string
	Limit        int
}

// CreateInput represents the payload required to schedule a new shift.
type CreateInput struct {
	Date       string
	StartTime  string
	EndTime    string
	EmployeeID uuid.UUID
	Location   string
	Role       string
	Notes      string
	Published  bool
}

// UpdateInput represents a partial shift update. Nil fields are untouched.
type UpdateInput struct {
	Date       *string
	StartTime  *string
	EndTime    *string
	EmployeeID *uuid.UUID
	Location   *string
	Role       *string
	Notes      *string
	Published  *bool
}

// Service exposes the shift scheduling operations.
type Service interface {
	List(ctx context.Context, tc tenant.Context, opts ListOptions) ([]Shift, error)
	Mine(ctx context.Context, tc tenant.Context, uid string, opts ListOptions) ([]Shift, error)
	Get(ctx context.Context, tc tenant.Context, uid string, shiftID uuid.UUID) (Shift, error)
	Create(ctx context.Context, tc tenant.Context, input CreateInput) (Shift, error)
	Update(ctx context.Context, tc tenant.Context, shiftID uuid.UUID, input UpdateInput) (Shift, error)
	Acknowledge(ctx context.Context, tc tenant.Context, uid string, shiftID uuid.UUID, acknowledged bool, note string) (Shift, error)
	Delete(ctx context.Context, tc tenant.Context, shiftID uuid.UUID) error
}

type service struct {
	shifts    repo.Repository
	employees repo.EmployeeDirectory
}

// New constructs the shifts service.
func New(shifts repo.Repository, employees repo.EmployeeDirectory) Service {
	if shifts == nil {
		panic("shifts repository is required")
	}
	if employees == nil {
		panic("employee directory is required")
	}
	return &service{shifts: shifts, employees: employees}
}

func (s *service) List(ctx context.Context, tc tenant.Context, opts ListOptions) ([]Shift, error) {
	params, err := buildListParams(opts)
	if err != nil {
		return nil, err
	}
	params.EmployeeID = opts.EmployeeID

	rows, err := s.shifts.List(ctx, tc.TenantID, params)
	if err != nil {
		return nil, err
	}

	return filterByQuery(toShifts(rows), opts.Query), nil
}

func (s *service) Mine(ctx context.Context, tc tenant.Context, uid string, opts ListOptions) ([]Shift, error) {
	params, err := buildListParams(opts)
	if err != nil {
		return nil, err
	}
	params.EmployeeUID = &uid

	rows, err := s.shifts.List(ctx, tc.TenantID, params)
	if err != nil {
		return nil, err
	}

	return filterByQuery(toShifts(rows), opts.Query), nil
}

func (s *service) Get(ctx context.Context, tc tenant.Context, uid string, shiftID uuid.UUID) (Shift, error) {
	row, err := s.shifts.Get(ctx, tc.TenantID, shiftID)
	if err != nil {
		if errors.Is(err, persistence.ErrShiftNotFound) {
			return Shift{}, ErrNotFound
		}
		return Shift{}, err
	}

	if !tc.Role.Elevated() && row.EmployeeUID != uid {
		return Shift{}, ErrForbidden
	}

	return toShift(row), nil
}

func (s *service) Create(ctx context.Context, tc tenant.Context, input CreateInput) (Shift, error) {
	fields := FieldErrors{}

	date, err := ParseDate(input.Date)
	if err != nil {
		fields["date"] = append(fields["date"], "must be YYYY-MM-DD")
	}
	start, err := ParseClock(input.StartTime)
	if err != nil {
		fields["startTime"] = append(fields["startTime"], "must be HH:MM (24h)")
	}
	end, err := ParseClock(input.EndTime)
	if err != nil {
		fields["endTime"] = append(fields["endTime"], "must be HH:MM (24h)")
	}
	if len(fields) == 0 && end <= start {
		fields["endTime"] = append(fields["endTime"], "must be after startTime")
	}
	if input.EmployeeID == uuid.Nil {
		fields["employeeId"] = append(fields["employeeId"], "is required")
	}
	if len(fields) > 0 {
		return Shift{}, &ValidationError{Fields: fields}
	}

	employee, err := s.employees.Get(ctx, tc.TenantID, input.EmployeeID)
	if err != nil {
		if errors.Is(err, persistence.ErrEmployeeNotFound) {
			return Shift{}, &ValidationError{Fields: FieldErrors{"employeeId": {"employee not found"}}}
		}
		return Shift{}, fmt.Errorf("resolve employee: %w", err)
	}

	row, err := s.shifts.Create(ctx, persistence.CreateShiftParams{
		ShiftID:     uuid.New(),
		TenantID:    tc.TenantID,
		Employee:    snapshotOf(employee),
		Date:        date,
		StartMinute: start,
		EndMinute:   end,
		Location:    input.Location,
		ShiftRole:   input.Role,
		Notes:       input.Notes,
		Published:   input.Published,
	})
	if err != nil {
		if errors.Is(err, persistence.ErrInvalidInterval) {
			return Shift{}, &ValidationError{Fields: FieldErrors{"endTime": {"must be after startTime"}}}
		}
		return Shift{}, convertOverlap(err)
	}

	return toShift(row), nil
}

func (s *service) Update(ctx context.Context, tc tenant.Context, shiftID uuid.UUID, input UpdateInput) (Shift, error) {
	fields := FieldErrors{}
	params := persistence.UpdateShiftParams{}

	if input.Date != nil {
		date, err := ParseDate(*input.Date)
		if err != nil {
			fields["date"] = append(fields["date"], "must be YYYY-MM-DD")
		} else {
			params.Date = &date
		}
	}
	if input.StartTime != nil {
		start, err := ParseClock(*input.StartTime)
		if err != nil {
			fields["startTime"] = append(fields["startTime"], "must be HH:MM (24h)")
		} else {
			params.StartMinute = &start
		}
	}
	if input.EndTime != nil {
		end, err := ParseClock(*input.EndTime)
		if err != nil {
			fields["endTime"] = append(fields["endTime"], "must be HH:MM (24h)")
		} else {
			params.EndMinute = &end
		}
	}
	if params.StartMinute != nil && params.EndMinute != nil && *params.EndMinute <= *params.StartMinute {
		fields["endTime"] = append(fields["endTime"], "must be after startTime")
	}
	if input.EmployeeID != nil && *input.EmployeeID == uuid.Nil {
		fields["employeeId"] = append(fields["employeeId"], "is required")
	}
	if len(fields) > 0 {
		return Shift{}, &ValidationError{Fields: fields}
	}

	params.Location = input.Location
	params.ShiftRole = input.Role
	params.Notes = input.Notes
	params.Published = input.Published

	if input.EmployeeID != nil {
		employee, err := s.employees.Get(ctx, tc.TenantID, *input.EmployeeID)
		if err != nil {
			if errors.Is(err, persistence.ErrEmployeeNotFound) {
				return Shift{}, &ValidationError{Fields: FieldErrors{"employeeId": {"employee not found"}}}
			}
			return Shift{}, fmt.Errorf("resolve employee: %w", err)
		}
		snapshot := snapshotOf(employee)
		params.Employee = &snapshot
	}

	row, err := s.shifts.Update(ctx, tc.TenantID, shiftID, params)
	if err != nil {
		if errors.Is(err, persistence.ErrShiftNotFound) {
			return Shift{}, ErrNotFound
		}
		// The store validates the merged interval since a partial update only
		// carries one half of it.
		if errors.Is(err, persistence.ErrInvalidInterval) {
			return Shift{}, &ValidationError{Fields: FieldErrors{"endTime": {"must be after startTime"}}}
		}
		return Shift{}, convertOverlap(err)
	}

	return toShift(row), nil
}

func (s *service) Acknowledge(ctx context.Context, tc tenant.Context, uid string, shiftID uuid.UUID, acknowledged bool, note string) (Shift, error) {
	row, err := s.shifts.Get(ctx, tc.TenantID, shiftID)
	if err != nil {
		if errors.Is(err, persistence.ErrShiftNotFound) {
			return Shift{}, ErrNotFound
		}
		return Shift{}, err
	}

	// Only the assigned employee or an elevated role may flip acknowledgement.
	if !tc.Role.Elevated() && row.EmployeeUID != uid {
		return Shift{}, ErrForbidden
	}

	updated, err := s.shifts.SetAcknowledgement(ctx, tc.TenantID, shiftID, acknowledged, note)
	if err != nil {
		if errors.Is(err, persistence.ErrShiftNotFound) {
			return Shift{}, ErrNotFound
		}
		return Shift{}, err
	}

	return toShift(updated), nil
}

func (s *service) Delete(ctx context.Context, tc tenant.Context, shiftID uuid.UUID) error {
	if err := s.shifts.Delete(ctx, tc.TenantID, shiftID); err != nil {
		if errors.Is(err, persistence.ErrShiftNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func buildListParams(opts ListOptions) (persistence.ListShiftsParams, error) {
	params := persistence.ListShiftsParams{
		Published:    opts.Published,
		Acknowledged: opts.Acknowledged,
		Limit:        opts.Limit,
	}

	fields := FieldErrors{}
	if opts.From != nil {
		from, err := ParseDate(*opts.From)
		if err != nil {
			fields["from"] = append(fields["from"], "must be YYYY-MM-DD")
		} else {
			params.From = &from
		}
	}
	if opts.To != nil {
		to, err := ParseDate(*opts.To)
		if err != nil {
			fields["to"] = append(fields["to"], "must be YYYY-MM-DD")
		} else {
			params.To = &to
		}
	}
	if len(fields) > 0 {
		return persistence.ListShiftsParams{}, &ValidationError{Fields: fields}
	}

	return params, nil
}

// filterByQuery applies the free-text filter over the fields users search on.
func filterByQuery(shifts []Shift, query *string) []Shift {
	if query == nil || strings.TrimSpace(*query) == "" {
		return shifts
	}
	term := strings.ToLower(strings.TrimSpace(*query))

	filtered := make([]Shift, 0, len(shifts))
	for _, shift := range shifts {
		haystack := strings.ToLower(strings.Join([]string{
			shift.Employee.FullName,
			shift.Location,
			shift.Role,
			shift.Notes,
		}, " "))
		if strings.Contains(haystack, term) {
			filtered = append(filtered, shift)
		}
	}
	return filtered
}

func convertOverlap(err error) error {
	var overlap *persistence.OverlapError
	if !errors.As(err, &overlap) {
		return err
	}

	conflicts := make([]ConflictRef, 0, len(overlap.Conflicts))
	for _, ref := range overlap.Conflicts {
		conflicts = append(conflicts, ConflictRef{
			ID:        ref.ShiftID,
			Date:      FormatDate(ref.Date),
			StartTime: FormatClock(ref.StartMinute),
			EndTime:   FormatClock(ref.EndMinute),
		})
	}
	return &OverlapError{Conflicts: conflicts}
}

func snapshotOf(employee persistence.Employee) persistence.EmployeeSnapshot {
	return persistence.EmployeeSnapshot{
		EmployeeID: employee.EmployeeID,
		UID:        employee.UID,
		FullName:   employee.FullName,
		Email:      employee.Email,
		Department: employee.Department,
		TeamName:   employee.TeamName,
	}
}

func toShifts(rows []persistence.Shift) []Shift {
	shifts := make([]Shift, 0, len(rows))
	for _, row := range rows {
		shifts = append(shifts, toShift(row))
	}
	return shifts
}

func toShift(row persistence.Shift) Shift {
	return Shift{
		ID:              row.ShiftID,
		Date:            FormatDate(row.Date),
		StartTime:       FormatClock(row.StartMinute),
		EndTime:         FormatClock(row.EndMinute),
		Location:        row.Location,
		Role:            row.ShiftRole,
		Notes:           row.Notes,
		Published:       row.Published,
		Acknowledged:    row.Acknowledged,
		AcknowledgeNote: row.AcknowledgeNote,
		AcknowledgedAt:  row.AcknowledgedAt,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
		Employee: EmployeeRef{
			ID:         row.EmployeeID,
			UID:        row.EmployeeUID,
			FullName:   row.EmployeeName,
			Email:      row.EmployeeEmail,
			Department: row.EmployeeDepartment,
			TeamName:   row.EmployeeTeam,
		},
	}
}
