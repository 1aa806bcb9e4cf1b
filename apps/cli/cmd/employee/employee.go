package employeecmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/clearstaff/hr-backoffice/platform/go/persistence"
)

// Command groups employee record helpers.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employee",
		Short: "Employee utilities (add/update records)",
	}

	cmd.AddCommand(upsertCommand())
	return cmd
}

func upsertCommand() *cobra.Command {
	var (
		databaseURL string
		tenantID    string
		employeeID  string
		uid         string
		fullName    string
		email       string
		department  string
		teamName    string
	)

	c := &cobra.Command{
		Use:   "upsert",
		Short: "Create or update an employee record in a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			tid, err := uuid.Parse(tenantID)
			if err != nil {
				return fmt.Errorf("invalid tenant id: %w", err)
			}

			params := persistence.UpsertEmployeeParams{
				UID:        uid,
				FullName:   fullName,
				Email:      email,
				Department: department,
				TeamName:   teamName,
			}
			if employeeID != "" {
				eid, parseErr := uuid.Parse(employeeID)
				if parseErr != nil {
					return fmt.Errorf("invalid employee id: %w", parseErr)
				}
				params.EmployeeID = eid
			}

			pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: databaseURL})
			if err != nil {
				return fmt.Errorf("init pool: %w", err)
			}
			defer persistence.ClosePool(pool)

			employeeStore, err := persistence.NewEmployeeStore(pool, 0)
			if err != nil {
				return fmt.Errorf("init employee store: %w", err)
			}

			employee, err := employeeStore.UpsertEmployee(ctx, tid, params)
			if err != nil {
				return fmt.Errorf("upsert employee: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "employee %s id=%s\n", employee.FullName, employee.EmployeeID)
			return nil
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "Postgres connection string")
	c.Flags().StringVar(&tenantID, "tenant-id", "", "tenant uuid")
	c.Flags().StringVar(&employeeID, "employee-id", "", "existing employee uuid (omit to create)")
	c.Flags().StringVar(&uid, "uid", "", "auth uid linked to this employee")
	c.Flags().StringVar(&fullName, "full-name", "", "employee full name")
	c.Flags().StringVar(&email, "email", "", "employee email")
	c.Flags().StringVar(&department, "department", "", "department")
	c.Flags().StringVar(&teamName, "team", "", "team name")

	_ = c.MarkFlagRequired("database-url")
	_ = c.MarkFlagRequired("tenant-id")
	_ = c.MarkFlagRequired("full-name")

	return c
}
