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

const ShiftAssignmentsTable = "shift_assignments"

// ErrShiftNotFound indicates a missing shift within the tenant. Lookups by id
// from another tenant report the same error so resource existence never leaks
// across tenants.
var ErrShiftNotFound = errors.New("shift not found")

// ErrInvalidInterval indicates a write whose effective interval would end at
// or before its start. Partial updates merge against the stored row, so this
// is checked here rather than in payload validation.
var ErrInvalidInterval = errors.New("shift interval must end after it starts")

// Shift represents a row in the shift_assignments table. Times are stored as
// minutes since midnight on the shift date; the interval is half-open
// [StartMinute, EndMinute).
type Shift struct {
	ShiftID            uuid.UUID  `db:"shift_id"`
	TenantID           uuid.UUID  `db:"tenant_id"`
	EmployeeID         uuid.UUID  `db:"employee_id"`
	EmployeeUID        string     `db:"employee_uid"`
	EmployeeName       string     `db:"employee_name"`
	EmployeeEmail      string     `db:"employee_email"`
	EmployeeDepartment string     `db:"employee_department"`
	EmployeeTeam       string     `db:"employee_team"`
	Date               time.Time  `db:"shift_date"`
	StartMinute        int        `db:"start_minute"`
	EndMinute          int        `db:"end_minute"`
	Location           string     `db:"location"`
	ShiftRole          string     `db:"shift_role"`
	Notes              string     `db:"notes"`
	Published          bool       `db:"published"`
	Acknowledged       bool       `db:"acknowledged"`
	AcknowledgeNote    string     `db:"acknowledge_note"`
	AcknowledgedAt     *time.Time `db:"acknowledged_at"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
}

// ShiftRef identifies one conflicting shift in an overlap rejection.
type ShiftRef struct {
	ShiftID     uuid.UUID
	Date        time.Time
	StartMinute int
	EndMinute   int
}

// OverlapError reports every existing shift whose interval intersects the
// candidate, so callers can present the complete picture.
type OverlapError struct {
	Conflicts []ShiftRef
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("shift overlaps %d existing shift(s)", len(e.Conflicts))
}

// EmployeeSnapshot is the denormalized employee data embedded on each shift
// for listing and filtering without joins.
type EmployeeSnapshot struct {
	EmployeeID uuid.UUID
	UID        string
	FullName   string
	Email      string
	Department string
	TeamName   string
}

// ShiftStore persists shift assignments. Overlap checks and the writes they
// guard run inside a single transaction serialized per (tenant, employee,
// date) with an advisory lock, so two concurrent writers cannot both pass the
// check.
type ShiftStore struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewShiftStore returns a store over the shared pool.
func NewShiftStore(pool *pgxpool.Pool, timeout time.Duration) (*ShiftStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &ShiftStore{pool: pool, timeout: timeout}, nil
}

const shiftColumns = `shift_id, tenant_id, employee_id, employee_uid, employee_name, employee_email,
        employee_department, employee_team, shift_date, start_minute, end_minute, location, shift_role,
        notes, published, acknowledged, acknowledge_note, acknowledged_at, created_at, updated_at`

// ListShiftsParams captures the filters for ListShifts. Date bounds are
// inclusive on both ends.
type ListShiftsParams struct {
	EmployeeID   *uuid.UUID
	EmployeeUID  *string
	From         *time.Time
	To           *time.Time
	Published    *bool
	Acknowledged *bool
	Limit        int
}

// ListShifts returns the tenant's shifts ordered by date then start time.
func (s *ShiftStore) ListShifts(ctx context.Context, tenantID uuid.UUID, params ListShiftsParams) ([]Shift, error) {
	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	whereParts := []string{"tenant_id = $1"}
	args := []any{tenantID}

	if params.EmployeeID != nil {
		args = append(args, *params.EmployeeID)
		whereParts = append(whereParts, fmt.Sprintf("employee_id = $%d", len(args)))
	}
	if params.EmployeeUID != nil && *params.EmployeeUID != "" {
		args = append(args, *params.EmployeeUID)
		whereParts = append(whereParts, fmt.Sprintf("employee_uid = $%d", len(args)))
	}
	if params.From != nil {
		args = append(args, *params.From)
		whereParts = append(whereParts, fmt.Sprintf("shift_date >= $%d", len(args)))
	}
	if params.To != nil {
		args = append(args, *params.To)
		whereParts = append(whereParts, fmt.Sprintf("shift_date <= $%d", len(args)))
	}
	if params.Published != nil {
		args = append(args, *params.Published)
		whereParts = append(whereParts, fmt.Sprintf("published = $%d", len(args)))
	}
	if params.Acknowledged != nil {
		args = append(args, *params.Acknowledged)
		whereParts = append(whereParts, fmt.Sprintf("acknowledged = $%d", len(args)))
	}

	limit := params.Limit
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
        SELECT %s FROM %s
        WHERE %s
        ORDER BY shift_date, start_minute, shift_id
        LIMIT $%d
    `, shiftColumns, ShiftAssignmentsTable, strings.Join(whereParts, " AND "), len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, classifyStoreError("list shifts", err)
	}
	defer rows.Close()

	shifts := make([]Shift, 0)
	for rows.Next() {
		shift, scanErr := scanShift(rows)
		if scanErr != nil {
			return nil, classifyStoreError("scan shift", scanErr)
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, classifyStoreError("iterate shifts", err)
	}

	return shifts, nil
}

// GetShift returns one shift by id within the tenant.
func (s *ShiftStore) GetShift(ctx context.Context, tenantID, shiftID uuid.UUID) (Shift, error) {
	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        SELECT %s FROM %s WHERE tenant_id = $1 AND shift_id = $2
    `, shiftColumns, ShiftAssignmentsTable), tenantID, shiftID)

	shift, err := scanShift(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Shift{}, ErrShiftNotFound
		}
		return Shift{}, classifyStoreError("get shift", err)
	}

	return shift, nil
}

// CreateShiftParams captures the fields for a new shift assignment. New
// shifts always start unacknowledged.
type CreateShiftParams struct {
	ShiftID     uuid.UUID
	TenantID    uuid.UUID
	Employee    EmployeeSnapshot
	Date        time.Time
	StartMinute int
	EndMinute   int
	Location    string
	ShiftRole   string
	Notes       string
	Published   bool
}

// CreateShift reserves the candidate interval and inserts the shift. Returns
// *OverlapError listing every conflicting shift when the interval is taken.
func (s *ShiftStore) CreateShift(ctx context.Context, params CreateShiftParams) (Shift, error) {
	if params.EndMinute <= params.StartMinute {
		return Shift{}, ErrInvalidInterval
	}

	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	var created Shift
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if err := acquireScheduleLock(ctx, tx, params.TenantID, params.Employee.EmployeeID, params.Date); err != nil {
			return err
		}

		conflicts, err := findConflicts(ctx, tx, params.TenantID, params.Employee.EmployeeID, params.Date,
			params.StartMinute, params.EndMinute, nil)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return &OverlapError{Conflicts: conflicts}
		}

		row := tx.QueryRow(ctx, fmt.Sprintf(`
            INSERT INTO %s (
                shift_id, tenant_id, employee_id, employee_uid, employee_name, employee_email,
                employee_department, employee_team, shift_date, start_minute, end_minute,
                location, shift_role, notes, published, acknowledged, acknowledge_note
            )
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, FALSE, '')
            RETURNING %s
        `, ShiftAssignmentsTable, shiftColumns),
			params.ShiftID, params.TenantID,
			params.Employee.EmployeeID, params.Employee.UID, params.Employee.FullName,
			params.Employee.Email, params.Employee.Department, params.Employee.TeamName,
			params.Date, params.StartMinute, params.EndMinute,
			strings.TrimSpace(params.Location), strings.TrimSpace(params.ShiftRole), strings.TrimSpace(params.Notes),
			params.Published,
		)

		created, err = scanShift(row)
		return err
	})
	if err != nil {
		var overlap *OverlapError
		if errors.As(err, &overlap) {
			return Shift{}, overlap
		}
		return Shift{}, classifyStoreError("create shift", err)
	}

	return created, nil
}

// UpdateShiftParams represents the mutable fields of a shift. Nil fields are
// left untouched. Setting Employee reassigns the shift and resets its
// acknowledgement state.
type UpdateShiftParams struct {
	Date        *time.Time
	StartMinute *int
	EndMinute   *int
	Location    *string
	ShiftRole   *string
	Notes       *string
	Published   *bool
	Employee    *EmployeeSnapshot
}

// UpdateShift re-checks the target interval (excluding the shift itself) and
// applies the changes atomically under the same per-day serialization as
// CreateShift.
func (s *ShiftStore) UpdateShift(ctx context.Context, tenantID, shiftID uuid.UUID, params UpdateShiftParams) (Shift, error) {
	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	var updated Shift
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, fmt.Sprintf(`
            SELECT %s FROM %s WHERE tenant_id = $1 AND shift_id = $2 FOR UPDATE
        `, shiftColumns, ShiftAssignmentsTable), tenantID, shiftID)

		current, err := scanShift(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrShiftNotFound
			}
			return err
		}

		targetEmployee := current.EmployeeID
		if params.Employee != nil {
			targetEmployee = params.Employee.EmployeeID
		}
		targetDate := current.Date
		if params.Date != nil {
			targetDate = *params.Date
		}
		targetStart := current.StartMinute
		if params.StartMinute != nil {
			targetStart = *params.StartMinute
		}
		targetEnd := current.EndMinute
		if params.EndMinute != nil {
			targetEnd = *params.EndMinute
		}

		if targetEnd <= targetStart {
			return ErrInvalidInterval
		}

		if err := acquireScheduleLock(ctx, tx, tenantID, targetEmployee, targetDate); err != nil {
			return err
		}

		conflicts, err := findConflicts(ctx, tx, tenantID, targetEmployee, targetDate, targetStart, targetEnd, &shiftID)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return &OverlapError{Conflicts: conflicts}
		}

		setParts := []string{}
		var args []any

		appendSet := func(column string, value any) {
			args = append(args, value)
			setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)))
		}

		if params.Date != nil {
			appendSet("shift_date", *params.Date)
		}
		if params.StartMinute != nil {
			appendSet("start_minute", *params.StartMinute)
		}
		if params.EndMinute != nil {
			appendSet("end_minute", *params.EndMinute)
		}
		if params.Location != nil {
			appendSet("location", strings.TrimSpace(*params.Location))
		}
		if params.ShiftRole != nil {
			appendSet("shift_role", strings.TrimSpace(*params.ShiftRole))
		}
		if params.Notes != nil {
			appendSet("notes", strings.TrimSpace(*params.Notes))
		}
		if params.Published != nil {
			appendSet("published", *params.Published)
		}
		if params.Employee != nil {
			appendSet("employee_id", params.Employee.EmployeeID)
			appendSet("employee_uid", params.Employee.UID)
			appendSet("employee_name", params.Employee.FullName)
			appendSet("employee_email", params.Employee.Email)
			appendSet("employee_department", params.Employee.Department)
			appendSet("employee_team", params.Employee.TeamName)
			// Reassignment always drops any prior acknowledgement.
			appendSet("acknowledged", false)
			appendSet("acknowledge_note", "")
			setParts = append(setParts, "acknowledged_at = NULL")
		}

		if len(setParts) == 0 {
			updated = current
			return nil
		}

		args = append(args, tenantID, shiftID)
		query := fmt.Sprintf(`
            UPDATE %s
            SET %s, updated_at = NOW()
            WHERE tenant_id = $%d AND shift_id = $%d
            RETURNING %s
        `, ShiftAssignmentsTable, strings.Join(setParts, ", "), len(args)-1, len(args), shiftColumns)

		updated, err = scanShift(tx.QueryRow(ctx, query, args...))
		return err
	})
	if err != nil {
		var overlap *OverlapError
		if errors.As(err, &overlap) {
			return Shift{}, overlap
		}
		if errors.Is(err, ErrShiftNotFound) {
			return Shift{}, ErrShiftNotFound
		}
		if errors.Is(err, ErrInvalidInterval) {
			return Shift{}, ErrInvalidInterval
		}
		return Shift{}, classifyStoreError("update shift", err)
	}

	return updated, nil
}

// SetAcknowledgement flips the acknowledgement state of a shift.
func (s *ShiftStore) SetAcknowledgement(ctx context.Context, tenantID, shiftID uuid.UUID, acknowledged bool, note string) (Shift, error) {
	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        UPDATE %s
        SET acknowledged = $3,
            acknowledge_note = $4,
            acknowledged_at = CASE WHEN $3 THEN NOW() ELSE NULL END,
            updated_at = NOW()
        WHERE tenant_id = $1 AND shift_id = $2
        RETURNING %s
    `, ShiftAssignmentsTable, shiftColumns), tenantID, shiftID, acknowledged, strings.TrimSpace(note))

	shift, err := scanShift(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Shift{}, ErrShiftNotFound
		}
		return Shift{}, classifyStoreError("set acknowledgement", err)
	}

	return shift, nil
}

// DeleteShift removes a shift within the tenant.
func (s *ShiftStore) DeleteShift(ctx context.Context, tenantID, shiftID uuid.UUID) error {
	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	tag, err := s.pool.Exec(ctx, fmt.Sprintf(`
        DELETE FROM %s WHERE tenant_id = $1 AND shift_id = $2
    `, ShiftAssignmentsTable), tenantID, shiftID)
	if err != nil {
		return classifyStoreError("delete shift", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrShiftNotFound
	}

	return nil
}

// acquireScheduleLock serializes writers touching one employee's schedule for
// one day. The lock is transaction-scoped and released on commit/rollback.
func acquireScheduleLock(ctx context.Context, tx pgx.Tx, tenantID, employeeID uuid.UUID, date time.Time) error {
	key := fmt.Sprintf("%s:%s:%s", tenantID, employeeID, date.Format("2006-01-02"))
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return fmt.Errorf("acquire schedule lock: %w", err)
	}
	return nil
}

// findConflicts returns every shift for (tenant, employee, date) whose
// half-open interval intersects [startMinute, endMinute), ordered by start.
// The WHERE clause is the SQL form of the overlaps predicate in the shifts
// service; the two must stay equivalent.
func findConflicts(ctx context.Context, tx pgx.Tx, tenantID, employeeID uuid.UUID, date time.Time, startMinute, endMinute int, excludeID *uuid.UUID) ([]ShiftRef, error) {
	args := []any{tenantID, employeeID, date, startMinute, endMinute}
	excludeSQL := ""
	if excludeID != nil {
		args = append(args, *excludeID)
		excludeSQL = fmt.Sprintf("AND shift_id <> $%d", len(args))
	}

	rows, err := tx.Query(ctx, fmt.Sprintf(`
        SELECT shift_id, shift_date, start_minute, end_minute
        FROM %s
        WHERE tenant_id = $1 AND employee_id = $2 AND shift_date = $3
          AND start_minute < $5 AND end_minute > $4
          %s
        ORDER BY start_minute, shift_id
    `, ShiftAssignmentsTable, excludeSQL), args...)
	if err != nil {
		return nil, fmt.Errorf("query conflicts: %w", err)
	}
	defer rows.Close()

	conflicts := make([]ShiftRef, 0)
	for rows.Next() {
		var ref ShiftRef
		if err := rows.Scan(&ref.ShiftID, &ref.Date, &ref.StartMinute, &ref.EndMinute); err != nil {
			return nil, fmt.Errorf("scan conflict: %w", err)
		}
		conflicts = append(conflicts, ref)
	}

	return conflicts, rows.Err()
}

func scanShift(row pgx.Row) (Shift, error) {
	var sh Shift
	if err := row.Scan(
		&sh.ShiftID, &sh.TenantID, &sh.EmployeeID, &sh.EmployeeUID, &sh.EmployeeName, &sh.EmployeeEmail,
		&sh.EmployeeDepartment, &sh.EmployeeTeam, &sh.Date, &sh.StartMinute, &sh.EndMinute,
		&sh.Location, &sh.ShiftRole, &sh.Notes, &sh.Published, &sh.Acknowledged,
		&sh.AcknowledgeNote, &sh.AcknowledgedAt, &sh.CreatedAt, &sh.UpdatedAt,
	); err != nil {
		return Shift{}, err
	}
	return sh, nil
}
