package kube

// Centralized label keys, label values and resource names used by the kube
// adapter. Keep these constants stable; changes are API-visible in clusters.
const (
	// LabelWorkspaceID carries the owning workspace's ID on every labeled
	// resource.
	LabelWorkspaceID = "workspace-id"
	// LabelApp marks workspace-managed resources and doubles as the pod
	// selector.
	LabelApp      = "app"
	LabelAppValue = "workspace"
	// LabelFQDN records the workspace's fully qualified domain name on the
	// namespace.
	LabelFQDN = "fqdn"
	// LabelType distinguishes pool from interactive workspaces.
	LabelType          = "type"
	LabelTypePool      = "pool"
	LabelTypeWorkspace = "workspace"
	// LabelLifecycle tracks provisioning progress on the namespace.
	LabelLifecycle             = "lifecycle"
	LabelLifecycleInitializing = "initializing"
	LabelLifecycleReady        = "ready"
	// LabelRegistryAccess admits the workload to the cluster-internal
	// registry's network policy.
	LabelRegistryAccess = "allowed-registry-access"
)

// Names of the resources inside a workspace namespace. One workspace per
// namespace keeps these fixed.
const (
	PVCWorkspaceData   = "workspace-data"
	PVCRegistryStorage = "registry-storage"

	SecretWorkspace    = "workspace-secret"
	SecretRegistryPull = "registry-credentials"

	ConfigMapInitScript    = "workspace-init"
	ConfigMapArtifacts     = "workspace-artifacts"
	ConfigMapFeatureScript = "feature-install"
	ConfigMapInfo          = "workspace-info"

	DeploymentWorkspace = "workspace"
	ServiceWorkspace    = "workspace"
	IngressWorkspace    = "workspace"
)

// Keys inside the workspace credential secret.
const (
	SecretKeyPassword = "password"
	SecretKeyGitToken = "github_token"
)

// workspaceLabels returns the standard label set for namespaced workspace
// resources.
func workspaceLabels(workspaceID string) map[string]string {
	return map[string]string{
		LabelApp:         LabelAppValue,
		LabelWorkspaceID: workspaceID,
	}
}
