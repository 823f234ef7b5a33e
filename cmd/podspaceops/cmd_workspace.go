package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/podspace/podspace/usecase/workspace"
)

func newCmdWorkspace() *cobra.Command {
	c := &cobra.Command{
		Use:                "workspace",
		Aliases:            []string{"ws"},
		Short:              "Workspace commands",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	c.AddCommand(newCmdWorkspaceProvision())
	c.AddCommand(newCmdWorkspaceDeprovision())
	c.AddCommand(newCmdWorkspaceGet())
	c.AddCommand(newCmdWorkspaceList())
	c.AddCommand(newCmdWorkspaceInfo())
	return c
}

func newCmdWorkspaceProvision() *cobra.Command {
	var in workspace.ProvisionInput
	c := &cobra.Command{
		Use:                "provision",
		Short:              "Provision a workspace",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildWorkspaceUseCase(cmd)
			if err != nil {
				return err
			}
			if in.GitToken == "" {
				in.GitToken = os.Getenv("GITHUB_TOKEN")
			}
			out, err := uc.Provision(cmd.Context(), &in)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Workspace)
		},
	}
	c.Flags().StringVar(&in.WorkspaceID, "id", "", "Workspace ID (generated when empty)")
	c.Flags().StringVar(&in.RepoName, "repo", "", "Repository to clone, \"owner/name\"")
	c.Flags().StringVar(&in.Branch, "branch", "", "Branch to clone (default \"main\")")
	c.Flags().StringVar(&in.PoolName, "pool", "", "Pool affiliation tag")
	c.Flags().BoolVar(&in.ForPool, "for-pool", false, "Provision as a pre-warmed pool workspace")
	c.Flags().StringVar(&in.RepoDir, "repo-dir", "", "Local checkout used to compile the devcontainer descriptor")
	return c
}

func newCmdWorkspaceDeprovision() *cobra.Command {
	return &cobra.Command{
		Use:                "deprovision <id>",
		Short:              "Tear a workspace down",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildWorkspaceUseCase(cmd)
			if err != nil {
				return err
			}
			if err := uc.Deprovision(cmd.Context(), &workspace.DeprovisionInput{WorkspaceID: args[0]}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deprovisioned %s\n", args[0])
			return nil
		},
	}
}

func newCmdWorkspaceGet() *cobra.Command {
	return &cobra.Command{
		Use:                "get <id>",
		Short:              "Get a workspace record",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildWorkspaceUseCase(cmd)
			if err != nil {
				return err
			}
			out, err := uc.Get(cmd.Context(), &workspace.GetInput{WorkspaceID: args[0]})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Workspace)
		},
	}
}

func newCmdWorkspaceList() *cobra.Command {
	var pool string
	c := &cobra.Command{
		Use:                "list",
		Short:              "List workspace records",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildWorkspaceUseCase(cmd)
			if err != nil {
				return err
			}
			out, err := uc.List(cmd.Context(), &workspace.ListInput{PoolName: pool})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, it := range out.Workspaces {
				if err := enc.Encode(it); err != nil {
					return err
				}
			}
			return nil
		},
	}
	c.Flags().StringVar(&pool, "pool", "", "Filter by pool affiliation")
	return c
}

func newCmdWorkspaceInfo() *cobra.Command {
	return &cobra.Command{
		Use:                "info <id>",
		Short:              "Show a workspace record with live cluster state",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildWorkspaceUseCase(cmd)
			if err != nil {
				return err
			}
			out, err := uc.Info(cmd.Context(), &workspace.InfoInput{WorkspaceID: args[0]})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
