package main

import (
	"context"
	"os"

	"log/slog"

	"github.com/spf13/cobra"

	"github.com/podspace/podspace/internal/logging"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "podspaceops",
		Short:   "PodspaceOps CLI",
		Long:    "PodspaceOps CLI - provision and manage ephemeral cloud development workspaces",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help by default when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", defaultEnv("PODSPACE_CONFIG", "podspace.yml"), "Path to podspace.yml (env PODSPACE_CONFIG)")
	cmd.PersistentFlags().String("db-url", os.Getenv("PODSPACE_DB_URL"), "Workspace registry database URL (env PODSPACE_DB_URL) (sqlite:/path/to.db)")
	cmd.PersistentFlags().String("kubeconfig", os.Getenv("KUBECONFIG"), "Path to kubeconfig (env KUBECONFIG); empty uses in-cluster config")
	cmd.PersistentFlags().String("log-format", "text", "Log format (text|json) (env PODSPACE_LOG_FORMAT)")

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		format, _ := c.Flags().GetString("log-format")
		if env := os.Getenv("PODSPACE_LOG_FORMAT"); env != "" { // env overrides flag
			format = env
		}
		l, err := logging.New(format, slog.LevelInfo)
		if err != nil {
			return err
		}
		ctx := logging.WithLogger(c.Context(), l)
		c.SetContext(ctx)
		return nil
	}

	cmd.AddCommand(newCmdVersion())
	cmd.AddCommand(newCmdWorkspace())
	return cmd
}

func defaultEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	root := newRootCmd()
	root.SetContext(context.Background())
	executed, err := root.ExecuteC()
	if err != nil {
		ctx := root.Context()
		if executed != nil {
			ctx = executed.Context()
		}
		logging.FromContext(ctx).Errorf(ctx, "Failed: %s", err)
		os.Exit(1)
	}
}
