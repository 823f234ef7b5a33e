package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/client-go/rest"

	"github.com/podspace/podspace/adapters/kube"
	"github.com/podspace/podspace/adapters/store/rdb"
	"github.com/podspace/podspace/config/podspacecfg"
	"github.com/podspace/podspace/usecase/workspace"
)

// buildWorkspaceUseCase assembles the workspace use case from the global
// flags: configuration snapshot, workspace registry and cluster client.
func buildWorkspaceUseCase(cmd *cobra.Command) (*workspace.UseCase, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	dbURL, _ := cmd.Flags().GetString("db-url")
	if dbURL == "" {
		dbURL = cfg.DBURL
	}
	db, err := rdb.OpenFromURL(dbURL)
	if err != nil {
		return nil, fmt.Errorf("open workspace registry: %w", err)
	}
	if err := rdb.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate workspace registry: %w", err)
	}

	kc, err := buildKubeClient(cmd)
	if err != nil {
		return nil, err
	}

	return &workspace.UseCase{
		Repos:  &workspace.Repos{Workspace: rdb.NewWorkspaceRepository(db)},
		Kube:   kc,
		Config: cfg,
	}, nil
}

// loadConfig reads podspace.yml when present; a missing file falls back to
// the built-in defaults so the CLI works out of the box.
func loadConfig(cmd *cobra.Command) (podspacecfg.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return podspacecfg.Default(), nil
		}
		return podspacecfg.Config{}, err
	}
	return podspacecfg.Load(path)
}

func buildKubeClient(cmd *cobra.Command) (*kube.Client, error) {
	path, _ := cmd.Flags().GetString("kubeconfig")
	opts := &kube.Options{UserAgent: "podspaceops/" + version}
	if path != "" {
		return kube.NewClientFromKubeconfigPath(cmd.Context(), path, opts)
	}
	restCfg, err := rest.InClusterConfig()
	if err != nil {
		return nil, fmt.Errorf("no kubeconfig and not in cluster: %w", err)
	}
	return kube.NewClientFromRESTConfig(restCfg, opts)
}
