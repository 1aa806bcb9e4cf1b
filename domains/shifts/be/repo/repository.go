package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/clearstaff/hr-backoffice/platform/go/persistence"
)

// Repository defines the persistence operations required by the shifts service.
type Repository interface {
	List(ctx context.Context, tenantID uuid.UUID, params persistence.ListShiftsParams) ([]persistence.Shift, error)
	Get(ctx context.Context, tenantID, shiftID uuid.UUID) (persistence.Shift, error)
	Create(ctx context.Context, params persistence.CreateShiftParams) (persistence.Shift, error)
	Update(ctx context.Context, tenantID, shiftID uuid.UUID, params persistence.UpdateShiftParams) (persistence.Shift, error)
	SetAcknowledgement(ctx context.Context, tenantID, shiftID uuid.UUID, acknowledged bool, note string) (persistence.Shift, error)
	Delete(ctx context.Context, tenantID, shiftID uuid.UUID) error
}

// EmployeeDirectory is the minimal employee lookup the shifts service needs
// to resolve assignment targets.
type EmployeeDirectory interface {
	Get(ctx context.Context, tenantID, employeeID uuid.UUID) (persistence.Employee, error)
}

type postgresRepository struct {
	store *persistence.ShiftStore
}

// NewPostgresRepository constructs a repository backed by the shared shift store.
func NewPostgresRepository(store *persistence.ShiftStore) Repository {
	if store == nil {
		panic("shift store is required")
	}
	return &postgresRepository{store: store}
}

func (r *postgresRepository) List(ctx context.Context, tenantID uuid.UUID, params persistence.ListShiftsParams) ([]persistence.Shift, error) {
	return r.store.ListShifts(ctx, tenantID, params)
}

func (r *postgresRepository) Get(ctx context.Context, tenantID, shiftID uuid.UUID) (persistence.Shift, error) {
	return r.store.GetShift(ctx, tenantID, shiftID)
}

func (r *postgresRepository) Create(ctx context.Context, params persistence.CreateShiftParams) (persistence.Shift, error) {
	return r.store.CreateShift(ctx, params)
}

func (r *postgresRepository) Update(ctx context.Context, tenantID, shiftID uuid.UUID, params persistence.UpdateShiftParams) (persistence.Shift, error) {
	return r.store.UpdateShift(ctx, tenantID, shiftID, params)
}

func (r *postgresRepository) SetAcknowledgement(ctx context.Context, tenantID, shiftID uuid.UUID, acknowledged bool, note string) (persistence.Shift, error) {
	return r.store.SetAcknowledgement(ctx, tenantID, shiftID, acknowledged, note)
}

func (r *postgresRepository) Delete(ctx context.Context, tenantID, shiftID uuid.UUID) error {
	return r.store.DeleteShift(ctx, tenantID, shiftID)
}

type employeeDirectory struct {
	store *persistence.EmployeeStore
}

// NewEmployeeDirectory adapts the employee store to the directory interface.
func NewEmployeeDirectory(store *persistence.EmployeeStore) EmployeeDirectory {
	if store == nil {
		panic("employee store is required")
	}
	return &employeeDirectory{store: store}
}

func (d *employeeDirectory) Get(ctx context.Context, tenantID, employeeID uuid.UUID) (persistence.Employee, error) {
	return d.store.GetEmployee(ctx, tenantID, employeeID)
}
