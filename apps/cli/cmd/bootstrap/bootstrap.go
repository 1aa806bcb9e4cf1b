package bootstrap

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clearstaff/hr-backoffice/platform/go/persistence"
	"github.com/clearstaff/hr-backoffice/platform/go/tenant"
)

// Notes/constraints:
// - `schema` only applies DDL; it never seeds data. All statements are
//   idempotent so re-runs are safe.
// - `platform` assumes the DDL has already run. It creates the first tenant
//   and grants the initial owner membership in one pass.

// Command groups bootstrap helpers (schema init, first tenant seed).
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Bootstrap platform resources (schema, first tenant, owner grant)",
	}

	cmd.AddCommand(schemaCommand())
	cmd.AddCommand(platformCommand())
	return cmd
}

func schemaCommand() *cobra.Command {
	var databaseURL string

	c := &cobra.Command{
		Use:   "schema",
		Short: "Apply the core DDL (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: databaseURL})
			if err != nil {
				return fmt.Errorf("init pool: %w", err)
			}
			defer persistence.ClosePool(pool)

			if err := persistence.BootstrapSchema(ctx, pool); err != nil {
				return fmt.Errorf("bootstrap schema: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "core schema applied")
			return nil
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "Postgres connection string")
	_ = c.MarkFlagRequired("database-url")

	return c
}

func platformCommand() *cobra.Command {
	var (
		databaseURL string
		tenantSlug  string
		tenantName  string
		ownerUID    string
	)

	c := &cobra.Command{
		Use:   "platform",
		Short: "Create the first tenant and grant its owner membership",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: databaseURL})
			if err != nil {
				return fmt.Errorf("init pool: %w", err)
			}
			defer persistence.ClosePool(pool)

			tenantStore, err := persistence.NewTenantStore(pool, 0)
			if err != nil {
				return fmt.Errorf("init tenant store: %w", err)
			}
			membershipStore, err := persistence.NewMembershipStore(pool, 0)
			if err != nil {
				return fmt.Errorf("init membership store: %w", err)
			}

			tenantRec, err := tenantStore.EnsureTenant(ctx, tenantSlug, tenantName)
			if err != nil {
				return fmt.Errorf("ensure tenant: %w", err)
			}

			if err := membershipStore.UpsertMembership(ctx, ownerUID, tenantRec.TenantID, tenant.RoleOwner); err != nil {
				return fmt.Errorf("grant owner membership: %w", err)
			}
			if err := membershipStore.SetDefaultTenant(ctx, ownerUID, &tenantRec.TenantID); err != nil {
				return fmt.Errorf("set default tenant: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "tenant %s ready (id=%s), owner=%s\n", tenantRec.Slug, tenantRec.TenantID, ownerUID)
			return nil
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "Postgres connection string")
	c.Flags().StringVar(&tenantSlug, "tenant-slug", "", "slug for the first tenant")
	c.Flags().StringVar(&tenantName, "tenant-name", "", "display name for the first tenant")
	c.Flags().StringVar(&ownerUID, "owner-uid", "", "auth uid to grant the owner role")

	_ = c.MarkFlagRequired("database-url")
	_ = c.MarkFlagRequired("tenant-slug")
	_ = c.MarkFlagRequired("owner-uid")

	return c
}
