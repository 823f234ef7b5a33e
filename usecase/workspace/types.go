// Package workspace implements the provisioning use cases: staged
// all-or-nothing creation of a workspace's cluster resources, teardown,
// and read operations over the local registry.
package workspace

import (
	"github.com/podspace/podspace/adapters/kube"
	"github.com/podspace/podspace/config/podspacecfg"
	"github.com/podspace/podspace/domain"
)

// Repos holds repositories needed for workspace use cases.
type Repos struct {
	Workspace domain.WorkspaceRepository
}

// UseCase wires repositories, the cluster client and the configuration
// snapshot. Config is held by value: each use case call sees the
// configuration it was constructed with, never later mutations.
type UseCase struct {
	Repos  *Repos
	Kube   *kube.Client
	Config podspacecfg.Config
}
