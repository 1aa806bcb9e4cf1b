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

const EmployeesTable = "employees"

// ErrEmployeeNotFound indicates a missing employee record within the tenant.
var ErrEmployeeNotFound = errors.New("employee not found")

// Employee represents a row in the employees table. Rows are tenant-owned;
// every query filters by tenant_id.
type Employee struct {
	EmployeeID uuid.UUID `db:"employee_id" json:"employeeId"`
	TenantID   uuid.UUID `db:"tenant_id" json:"tenantId"`
	UID        string    `db:"uid" json:"uid"`
	FullName   string    `db:"full_name" json:"fullName"`
	Email      string    `db:"email" json:"email"`
	Department string    `db:"department" json:"department"`
	TeamName   string    `db:"team_name" json:"teamName"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// EmployeeStore exposes the lookups the shift domain depends on plus a lean
// listing for elevated roles.
type EmployeeStore struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewEmployeeStore returns a store over the shared pool.
func NewEmployeeStore(pool *pgxpool.Pool, timeout time.Duration) (*EmployeeStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &EmployeeStore{pool: pool, timeout: timeout}, nil
}

const employeeColumns = "employee_id, tenant_id, uid, full_name, email, department, team_name, created_at, updated_at"

// GetEmployee returns one employee by id within the tenant.
func (s *EmployeeStore) GetEmployee(ctx context.Context, tenantID, employeeID uuid.UUID) (Employee, error) {
	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        SELECT %s FROM %s WHERE tenant_id = $1 AND employee_id = $2
    `, employeeColumns, EmployeesTable), tenantID, employeeID)

	employee, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Employee{}, ErrEmployeeNotFound
		}
		return Employee{}, classifyStoreError("get employee", err)
	}

	return employee, nil
}

// GetEmployeeByUID returns the tenant's employee record linked to an account.
func (s *EmployeeStore) GetEmployeeByUID(ctx context.Context, tenantID uuid.UUID, uid string) (Employee, error) {
	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        SELECT %s FROM %s WHERE tenant_id = $1 AND uid = $2
    `, employeeColumns, EmployeesTable), tenantID, uid)

	employee, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Employee{}, ErrEmployeeNotFound
		}
		return Employee{}, classifyStoreError("get employee by uid", err)
	}

	return employee, nil
}

// ListEmployeesParams captures the filters for ListEmployees.
type ListEmployeesParams struct {
	Department *string
	Query      *string
	Limit      int
}

// ListEmployees returns the tenant's employees, optionally filtered.
func (s *EmployeeStore) ListEmployees(ctx context.Context, tenantID uuid.UUID, params ListEmployeesParams) ([]Employee, error) {
	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	whereParts := []string{"tenant_id = $1"}
	args := []any{tenantID}

	if params.Department != nil && strings.TrimSpace(*params.Department) != "" {
		args = append(args, strings.TrimSpace(*params.Department))
		whereParts = append(whereParts, fmt.Sprintf("department = $%d", len(args)))
	}
	if params.Query != nil && strings.TrimSpace(*params.Query) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*params.Query))+"%")
		whereParts = append(whereParts, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args), len(args)))
	}

	limit := params.Limit
	if limit <= 0 || limit > 500 {
		limit = 500
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
        SELECT %s FROM %s
        WHERE %s
        ORDER BY full_name, employee_id
        LIMIT $%d
    `, employeeColumns, EmployeesTable, strings.Join(whereParts, " AND "), len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, classifyStoreError("list employees", err)
	}
	defer rows.Close()

	employees := make([]Employee, 0)
	for rows.Next() {
		employee, scanErr := scanEmployee(rows)
		if scanErr != nil {
			return nil, classifyStoreError("scan employee", scanErr)
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, classifyStoreError("iterate employees", err)
	}

	return employees, nil
}

// UpsertEmployeeParams captures the fields for creating or refreshing an
// employee record. A zero EmployeeID inserts a new row keyed by a fresh id.
type UpsertEmployeeParams struct {
	EmployeeID uuid.UUID
	UID        string
	FullName   string
	Email      string
	Department string
	TeamName   string
}

// UpsertEmployee creates or updates an employee within the tenant.
func (s *EmployeeStore) UpsertEmployee(ctx context.Context, tenantID uuid.UUID, params UpsertEmployeeParams) (Employee, error) {
	if strings.TrimSpace(params.FullName) == "" {
		return Employee{}, errors.New("full name is required")
	}

	employeeID := params.EmployeeID
	if employeeID == uuid.Nil {
		employeeID = uuid.New()
	}

	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        INSERT INTO %s (employee_id, tenant_id, uid, full_name, email, department, team_name)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (employee_id) DO UPDATE SET
            uid = EXCLUDED.uid,
            full_name = EXCLUDED.full_name,
            email = EXCLUDED.email,
            department = EXCLUDED.department,
            team_name = EXCLUDED.team_name,
            updated_at = NOW()
        RETURNING %s
    `, EmployeesTable, employeeColumns),
		employeeID, tenantID, strings.TrimSpace(params.UID), strings.TrimSpace(params.FullName),
		strings.TrimSpace(params.Email), strings.TrimSpace(params.Department), strings.TrimSpace(params.TeamName))

	employee, err := scanEmployee(row)
	if err != nil {
		return Employee{}, classifyStoreError("upsert employee", err)
	}

	return employee, nil
}

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	if err := row.Scan(
		&e.EmployeeID, &e.TenantID, &e.UID, &e.FullName, &e.Email,
		&e.Department, &e.TeamName, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return Employee{}, err
	}
	return e, nil
}
