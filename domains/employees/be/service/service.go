// Package service holds the employee directory read operations.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/clearstaff/hr-backoffice/domains/employees/be/repo"
	"github.com/clearstaff/hr-backoffice/platform/go/persistence"
	"github.com/clearstaff/hr-backoffice/platform/go/tenant"
)

// ErrNotFound indicates the employee does not exist within the tenant.
var ErrNotFound = errors.New("employee not found")

// Employee is the directory view returned over HTTP.
type Employee struct {
	ID         uuid.UUID `json:"id"`
	UID        string    `json:"uid"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	TeamName   string    `json:"teamName"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ListOptions controls filtering for directory listings.
type ListOptions struct {
	Department *string
	Query      *string
	Limit      int
}

// Service exposes the employee directory operations.
type Service interface {
	List(ctx context.Context, tc tenant.Context, opts ListOptions) ([]Employee, error)
	Get(ctx context.Context, tc tenant.Context, employeeID uuid.UUID) (Employee, error)
	GetByUID(ctx context.Context, tc tenant.Context, uid string) (Employee, error)
}

type service struct {
	employees repo.Repository
}

// New constructs the employees service.
func New(employees repo.Repository) Service {
	if employees == nil {
		panic("employees repository is required")
	}
	return &service{employees: employees}
}

func (s *service) List(ctx context.Context, tc tenant.Context, opts ListOptions) ([]Employee, error) {
	rows, err := s.employees.List(ctx, tc.TenantID, persistence.ListEmployeesParams{
		Department: opts.Department,
		Query:      opts.Query,
		Limit:      opts.Limit,
	})
	if err != nil {
		return nil, err
	}

	employees := make([]Employee, 0, len(rows))
	for _, row := range rows {
		employees = append(employees, toEmployee(row))
	}
	return employees, nil
}

func (s *service) Get(ctx context.Context, tc tenant.Context, employeeID uuid.UUID) (Employee, error) {
	row, err := s.employees.Get(ctx, tc.TenantID, employeeID)
	if err != nil {
		if errors.Is(err, persistence.ErrEmployeeNotFound) {
			return Employee{}, ErrNotFound
		}
		return Employee{}, err
	}
	return toEmployee(row), nil
}

func (s *service) GetByUID(ctx context.Context, tc tenant.Context, uid string) (Employee, error) {
	row, err := s.employees.GetByUID(ctx, tc.TenantID, uid)
	if err != nil {
		if errors.Is(err, persistence.ErrEmployeeNotFound) {
			return Employee{}, ErrNotFound
		}
		return Employee{}, err
	}
	return toEmployee(row), nil
}

func toEmployee(row persistence.Employee) Employee {
	return Employee{
		ID:         row.EmployeeID,
		UID:        row.UID,
		FullName:   row.FullName,
		Email:      row.Email,
		Department: row.Department,
		TeamName:   row.TeamName,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}
