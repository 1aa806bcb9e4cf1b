package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/clearstaff/hr-backoffice/platform/go/persistence"
)

// Repository defines the employee lookups exposed over HTTP.
type Repository interface {
	List(ctx context.Context, tenantID uuid.UUID, params persistence.ListEmployeesParams) ([]persistence.Employee, error)
	Get(ctx context.Context, tenantID, employeeID uuid.UUID) (persistence.Employee, error)
	GetByUID(ctx context.Context, tenantID uuid.UUID, uid string) (persistence.Employee, error)
}

type postgresRepository struct {
	store *persistence.EmployeeStore
}

// NewPostgresRepository constructs a repository backed by the shared employee store.
func NewPostgresRepository(store *persistence.EmployeeStore) Repository {
	if store == nil {
		panic("employee store is required")
	}
	return &postgresRepository{store: store}
}

func (r *postgresRepository) List(ctx context.Context, tenantID uuid.UUID, params persistence.ListEmployeesParams) ([]persistence.Employee, error) {
	return r.store.ListEmployees(ctx, tenantID, params)
}

func (r *postgresRepository) Get(ctx context.Context, tenantID, employeeID uuid.UUID) (persistence.Employee, error) {
	return r.store.GetEmployee(ctx, tenantID, employeeID)
}

func (r *postgresRepository) GetByUID(ctx context.Context, tenantID uuid.UUID, uid string) (persistence.Employee, error) {
	return r.store.GetEmployeeByUID(ctx, tenantID, uid)
}
