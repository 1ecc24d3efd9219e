package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bytedocker/site/internal/bootstrap"
	contentsvc "github.com/bytedocker/site/internal/content/service"
	"github.com/bytedocker/site/internal/storage/postgres"
)

var setupAdminCmd = &cobra.Command{
	Use:   "setup-admin",
	Short: "Create or promote a Firebase user to site administrator",
	Long: `Looks the email up in Firebase Auth, creating the account when it does not
exist, then sets the admin custom claim and records the admin role in
Firestore. Safe to run repeatedly.

Example:
  sitectl setup-admin --email owner@bytedocker.com --password 's3cret!'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = os.Getenv("SETUP_ADMIN_PASSWORD")
		}
		return withApp(func(ctx context.Context, app *bootstrap.App) error {
			return setupAdmin(ctx, app.Auth, email, password, cmd.OutOrStdout())
		})
	},
}

var syncDetailsCmd = &cobra.Command{
	Use:   "sync-details",
	Short: "Reconcile service detail pages with the service cards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, app *bootstrap.App) error {
			return syncDetails(ctx, app.Content, cmd.OutOrStdout())
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the default services and sample clients when missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, app *bootstrap.App) error {
			return seed(ctx, app.Content, cmd.OutOrStdout())
		})
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending Postgres migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Database.Enabled() {
			return errors.New("DB_HOST or DB_DSN must be set")
		}
		db, err := postgres.NewConnection(&cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		version, err := postgres.Migrate(db)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
		return nil
	},
}

type adminSetter interface {
	SetupAdmin(ctx context.Context, email, password string) (string, error)
}

func setupAdmin(ctx context.Context, svc adminSetter, email, password string, out io.Writer) error {
	uid, err := svc.SetupAdmin(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s is an admin (uid %s)\n", email, uid)
	return nil
}

type detailSyncer interface {
	SyncServiceDetails(ctx context.Context) (contentsvc.SyncResult, error)
}

func syncDetails(ctx context.Context, svc detailSyncer, out io.Writer) error {
	res, err := svc.SyncServiceDetails(ctx)
	if err != nil {
		return err
	}
	return printJSON(out, res)
}

type seeder interface {
	SeedDefaults(ctx context.Context) (contentsvc.SeedResult, error)
}

func seed(ctx context.Context, svc seeder, out io.Writer) error {
	res, err := svc.SeedDefaults(ctx)
	if err != nil {
		return err
	}
	return printJSON(out, res)
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
