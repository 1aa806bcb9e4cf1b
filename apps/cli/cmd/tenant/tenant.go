package tenantcmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/clearstaff/hr-backoffice/platform/go/persistence"
	"github.com/clearstaff/hr-backoffice/platform/go/tenant"
)

// Command groups tenant and membership helpers.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Tenant utilities (create, grant, revoke, set-default)",
	}

	cmd.AddCommand(createCommand())
	cmd.AddCommand(grantCommand())
	cmd.AddCommand(revokeCommand())
	cmd.AddCommand(setDefaultCommand())
	return cmd
}

func createCommand() *cobra.Command {
	var (
		databaseURL string
		slug        string
		name        string
	)

	c := &cobra.Command{
		Use:   "create",
		Short: "Create a tenant (idempotent on slug)",
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

			tenantRec, err := tenantStore.EnsureTenant(ctx, slug, name)
			if err != nil {
				return fmt.Errorf("ensure tenant: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "tenant %s id=%s\n", tenantRec.Slug, tenantRec.TenantID)
			return nil
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "Postgres connection string")
	c.Flags().StringVar(&slug, "slug", "", "tenant slug")
	c.Flags().StringVar(&name, "name", "", "display name")

	_ = c.MarkFlagRequired("database-url")
	_ = c.MarkFlagRequired("slug")

	return c
}

func grantCommand() *cobra.Command {
	var (
		databaseURL string
		uid         string
		tenantID    string
		role        string
	)

	c := &cobra.Command{
		Use:   "grant",
		Short: "Grant or change a user's tenant membership role",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			tid, err := uuid.Parse(tenantID)
			if err != nil {
				return fmt.Errorf("invalid tenant id: %w", err)
			}

			pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: databaseURL})
			if err != nil {
				return fmt.Errorf("init pool: %w", err)
			}
			defer persistence.ClosePool(pool)

			membershipStore, err := persistence.NewMembershipStore(pool, 0)
			if err != nil {
				return fmt.Errorf("init membership store: %w", err)
			}

			parsed := tenant.ParseRole(role)
			if err := membershipStore.UpsertMembership(ctx, uid, tid, parsed); err != nil {
				return fmt.Errorf("upsert membership: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "granted %s on %s to %s\n", parsed, tid, uid)
			return nil
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "Postgres connection string")
	c.Flags().StringVar(&uid, "uid", "", "auth uid")
	c.Flags().StringVar(&tenantID, "tenant-id", "", "tenant uuid")
	c.Flags().StringVar(&role, "role", "member", "role (owner|admin|hr|manager|employee|member)")

	_ = c.MarkFlagRequired("database-url")
	_ = c.MarkFlagRequired("uid")
	_ = c.MarkFlagRequired("tenant-id")

	return c
}

func revokeCommand() *cobra.Command {
	var (
		databaseURL string
		uid         string
		tenantID    string
	)

	c := &cobra.Command{
		Use:   "revoke",
		Short: "Remove a user's tenant membership",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			tid, err := uuid.Parse(tenantID)
			if err != nil {
				return fmt.Errorf("invalid tenant id: %w", err)
			}

			pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: databaseURL})
			if err != nil {
				return fmt.Errorf("init pool: %w", err)
			}
			defer persistence.ClosePool(pool)

			membershipStore, err := persistence.NewMembershipStore(pool, 0)
			if err != nil {
				return fmt.Errorf("init membership store: %w", err)
			}

			if err := membershipStore.DeleteMembership(ctx, uid, tid); err != nil {
				return fmt.Errorf("delete membership: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "revoked %s from %s\n", tid, uid)
			return nil
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "Postgres connection string")
	c.Flags().StringVar(&uid, "uid", "", "auth uid")
	c.Flags().StringVar(&tenantID, "tenant-id", "", "tenant uuid")

	_ = c.MarkFlagRequired("database-url")
	_ = c.MarkFlagRequired("uid")
	_ = c.MarkFlagRequired("tenant-id")

	return c
}

func setDefaultCommand() *cobra.Command {
	var (
		databaseURL string
		uid         string
		tenantID    string
	)

	c := &cobra.Command{
		Use:   "set-default",
		Short: "Set a user's preferred tenant (empty tenant-id clears it)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var tid *uuid.UUID
			if tenantID != "" {
				parsed, err := uuid.Parse(tenantID)
				if err != nil {
					return fmt.Errorf("invalid tenant id: %w", err)
				}
				tid = &parsed
			}

			pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: databaseURL})
			if err != nil {
				return fmt.Errorf("init pool: %w", err)
			}
			defer persistence.ClosePool(pool)

			membershipStore, err := persistence.NewMembershipStore(pool, 0)
			if err != nil {
				return fmt.Errorf("init membership store: %w", err)
			}

			if err := membershipStore.SetDefaultTenant(ctx, uid, tid); err != nil {
				return fmt.Errorf("set default tenant: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "default tenant updated for %s\n", uid)
			return nil
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "Postgres connection string")
	c.Flags().StringVar(&uid, "uid", "", "auth uid")
	c.Flags().StringVar(&tenantID, "tenant-id", "", "tenant uuid (empty clears the preference)")

	_ = c.MarkFlagRequired("database-url")
	_ = c.MarkFlagRequired("uid")

	return c
}
