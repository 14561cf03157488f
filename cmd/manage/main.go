package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"socialdesk/config"
	"socialdesk/internal/repository"
	"socialdesk/internal/services"
	"socialdesk/pkg/logger"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "manage: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manage",
		Short: "socialdesk maintenance commands",
		Long: `manage runs one-off maintenance tasks against the configured database:
creating the admin account, hashing passwords and ensuring indexes.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newSeedAdminCmd(),
		newHashPasswordCmd(),
		newEnsureIndexesCmd(),
		newStatusCmd(),
	)
	return cmd
}

// withCollections loads the configuration, opens the store and runs fn.
func withCollections(ctx context.Context, fn func(*config.Config, *repository.Collections, *logger.Logger) error) error {
	cfg := config.LoadConfig()
	l := logger.New(logger.DevelopmentMode)
	defer l.Sync()

	collections, closeDB, err := repository.Open(ctx, cfg, nil, l)
	if err != nil {
		return err
	}
	defer closeDB(context.WithoutCancel(ctx))
	return fn(cfg, collections, l)
}

func newSeedAdminCmd() *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the admin account unless one with that e-mail exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withCollections(ctx, func(cfg *config.Config, c *repository.Collections, l *logger.Logger) error {
				if email == "" {
					email = cfg.BootstrapAdminEmail
				}
				if password == "" {
					password = cfg.BootstrapAdminPassword
				}
				if name == "" {
					name = cfg.BootstrapAdminName
				}
				if email == "" || password == "" {
					return errors.New("an e-mail and a password are required (flags or ADMIN_EMAIL / ADMIN_PASSWORD)")
				}
				if err := c.Admins.Migrate(ctx); err != nil {
					return err
				}

				auth := services.NewAuthService(c.Admins, cfg, l)
				created, err := auth.EnsureBootstrapAdmin(ctx, email, password, name)
				if err != nil {
					return err
				}
				if created {
					fmt.Fprintf(cmd.OutOrStdout(), "admin %s created\n", email)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "admin %s already exists\n", email)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Admin e-mail (default ADMIN_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (default ADMIN_PASSWORD)")
	cmd.Flags().StringVar(&name, "name", "", "Admin display name (default ADMIN_NAME)")
	return cmd
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := services.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func newEnsureIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-indexes",
		Short: "Create the tables and indexes of every collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withCollections(ctx, func(_ *config.Config, c *repository.Collections, _ *logger.Logger) error {
				if err := c.Migrate(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "indexes ensured")
				return nil
			})
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the database connection and print record counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withCollections(ctx, func(cfg *config.Config, c *repository.Collections, _ *logger.Logger) error {
				if err := c.Ping(ctx); err != nil {
					return fmt.Errorf("database unreachable: %w", err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "driver: %s\n", cfg.DBDriver)
				counts := []struct {
					name  string
					count func(context.Context) (int64, error)
				}{
					{"bookings", c.Bookings.Count},
					{"accountrecoveries", c.Recoveries.Count},
					{"reports", c.Reports.Count},
					{"feedbacks", c.Feedback.Count},
					{"blogs", c.Blogs.Count},
					{"admins", c.Admins.Count},
				}
				for _, entry := range counts {
					n, err := entry.count(ctx)
					if err != nil {
						return fmt.Errorf("count %s: %w", entry.name, err)
					}
					fmt.Fprintf(out, "%-18s %d\n", entry.name, n)
				}
				return nil
			})
		},
	}
}
