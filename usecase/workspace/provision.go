package workspace

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/podspace/podspace/adapters/kube"
	"github.com/podspace/podspace/devcontainer"
	"github.com/podspace/podspace/domain/model"
	"github.com/podspace/podspace/feature"
	"github.com/podspace/podspace/imagebuild"
	"github.com/podspace/podspace/internal/logging"
	"github.com/podspace/podspace/internal/naming"
)

// ProvisionInput contains data to provision a workspace.
type ProvisionInput struct {
	// WorkspaceID is the workspace identity; generated when empty.
	WorkspaceID string `json:"workspaceID,omitempty"`
	// RepoName is the "owner/name" of the repository to clone; empty
	// provisions an empty workspace.
	RepoName string `json:"repoName,omitempty"`
	// Branch selects the clone branch; empty uses "main".
	Branch string `json:"branch,omitempty"`
	// GitToken grants the repo-init container access to private
	// repositories.
	GitToken string `json:"-"`
	// PoolName tags pool-affiliated workspaces.
	PoolName string `json:"poolName,omitempty"`
	// ForPool marks a pre-provisioned pool workspace.
	ForPool bool `json:"forPool,omitempty"`
	// RepoDir is a local checkout used to compile the devcontainer
	// descriptor; an absent directory compiles to the minimal spec.
	RepoDir string `json:"repoDir,omitempty"`
}

// ProvisionOutput wraps the provisioned workspace.
type ProvisionOutput struct {
	Workspace *model.Workspace `json:"workspace"`
}

// Provision creates the full resource set of a workspace in strict stage
// order. Any stage failure tears down everything created so far and
// returns a StageError; on return there is either a complete, ready
// workspace or none at all.
func (u *UseCase) Provision(ctx context.Context, in *ProvisionInput) (*ProvisionOutput, error) {
	if in == nil {
		return nil, model.ErrWorkspaceInvalid
	}
	logger := logging.FromContext(ctx)
	cfg := u.Config

	// StageIdentity: allocate everything random up front so later stages
	// are pure platform calls.
	id := in.WorkspaceID
	if id == "" {
		id = uuid.NewString()
	}
	branch := in.Branch
	if branch == "" {
		branch = "main"
	}
	now := time.Now().UTC()
	sub := naming.Subdomain()
	w := &model.Workspace{
		ID:             id,
		Namespace:      naming.NamespaceName(id),
		Subdomain:      sub,
		FQDN:           naming.FQDN(sub, cfg.Domain),
		Password:       naming.Password(),
		BuildTimestamp: naming.BuildTimestamp(now),
		RepoName:       in.RepoName,
		Branches:       []string{branch},
		PoolName:       in.PoolName,
		ForPool:        in.ForPool,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	logger.Info(ctx, "provisioning workspace", "workspace", w.ID, "namespace", w.Namespace, "fqdn", w.FQDN)

	fail := func(stage Stage, err error) (*ProvisionOutput, error) {
		logger.Error(ctx, "provision failed, tearing down", "workspace", w.ID, "stage", string(stage), "error", err)
		if terr := u.teardown(ctx, w.Namespace); terr != nil {
			logger.Warn(ctx, "teardown after failed provision incomplete", "workspace", w.ID, "error", terr)
		}
		return nil, &StageError{Stage: stage, Err: err}
	}

	// StageNamespace.
	if err := u.Kube.CreateWorkspaceNamespace(ctx, kube.NamespaceParams{
		Name:        w.Namespace,
		WorkspaceID: w.ID,
		FQDN:        w.FQDN,
		ForPool:     w.ForPool,
	}); err != nil {
		return fail(StageNamespace, err)
	}

	// StageStorage.
	if err := u.Kube.CreateWorkspaceStorage(ctx, kube.StorageParams{
		Namespace:     w.Namespace,
		WorkspaceID:   w.ID,
		ClassName:     cfg.Storage.ClassName,
		WorkspaceSize: cfg.Storage.WorkspaceSize,
		RegistrySize:  cfg.Storage.RegistrySize,
	}); err != nil {
		return fail(StageStorage, err)
	}

	// StageSecrets. The TLS certificate and port-detector script copies
	// are best-effort inside the kube adapter; only hard failures abort.
	if err := u.Kube.CreateWorkspaceSecret(ctx, kube.SecretParams{
		Namespace:   w.Namespace,
		WorkspaceID: w.ID,
		Password:    w.Password,
		GitToken:    in.GitToken,
	}); err != nil {
		return fail(StageSecrets, err)
	}
	if err := u.Kube.CreateRegistryPullSecret(ctx, w.Namespace, w.ID, cfg.Registry.Endpoint); err != nil {
		return fail(StageSecrets, err)
	}
	if err := u.Kube.CopySecret(ctx, cfg.System.Namespace, w.Namespace, cfg.System.TLSSecretName, w.ID); err != nil {
		return fail(StageSecrets, err)
	}
	if cfg.System.PortDetectorConfigMap != "" {
		if err := u.Kube.CopyConfigMap(ctx, cfg.System.Namespace, w.Namespace, cfg.System.PortDetectorConfigMap, w.ID); err != nil {
			return fail(StageSecrets, err)
		}
	}

	// StageArtifacts: compile the descriptor and store every derived blob.
	plan := imagebuild.NewPlan(cfg.Registry.Endpoint, cfg.Registry.Repository, w.Namespace, w.BuildTimestamp)
	spec := devcontainer.Compile(in.RepoDir)
	if err := u.Kube.CreateConfigMap(ctx, w.Namespace, kube.ConfigMapArtifacts, w.ID, spec.Artifacts()); err != nil {
		return fail(StageArtifacts, err)
	}

	set, err := feature.ParseSet(spec.Features)
	if err != nil {
		logger.Warn(ctx, "devcontainer features unusable, installing none", "workspace", w.ID, "error", err)
		set = nil
	}
	if err := u.Kube.CreateConfigMap(ctx, w.Namespace, kube.ConfigMapFeatureScript, w.ID, map[string]string{
		feature.ScriptFileName: feature.Script(set),
	}); err != nil {
		return fail(StageArtifacts, err)
	}

	initScript := imagebuild.InitScript(imagebuild.InitScriptParams{
		RepoName:         w.RepoName,
		RepoURL:          w.RepoURL(),
		Branch:           branch,
		DefaultBaseImage: cfg.Registry.DefaultBaseImage,
		WrapperFROM:      plan.BaseTag(),
	})
	if err := u.Kube.CreateConfigMap(ctx, w.Namespace, kube.ConfigMapInitScript, w.ID, map[string]string{
		imagebuild.InitScriptFileName: initScript,
	}); err != nil {
		return fail(StageArtifacts, err)
	}

	info, err := workspaceInfo(w)
	if err != nil {
		return fail(StageArtifacts, err)
	}
	if err := u.Kube.CreateConfigMap(ctx, w.Namespace, kube.ConfigMapInfo, w.ID, map[string]string{
		"workspace-info.json": info,
	}); err != nil {
		return fail(StageArtifacts, err)
	}

	// StageAccess.
	if err := u.Kube.CreateServiceAccount(ctx, w.Namespace, cfg.Access.ServiceAccountName, w.ID, cfg.Access.Annotations); err != nil {
		return fail(StageAccess, err)
	}

	// StageWorkload: deployment, service, ingress, then flip the namespace
	// lifecycle to ready. Ready is the commit point.
	if err := u.Kube.CreateWorkspaceWorkload(ctx, kube.WorkloadParams{
		Namespace:             w.Namespace,
		WorkspaceID:           w.ID,
		Subdomain:             w.Subdomain,
		Domain:                cfg.Domain,
		Plan:                  plan,
		ServiceAccountName:    cfg.Access.ServiceAccountName,
		PortDetectorConfigMap: cfg.System.PortDetectorConfigMap,
		HasGitToken:           in.GitToken != "",
	}); err != nil {
		return fail(StageWorkload, err)
	}
	if err := u.Kube.CreateWorkspaceService(ctx, w.Namespace, w.ID); err != nil {
		return fail(StageWorkload, err)
	}
	if err := u.Kube.CreateWorkspaceIngress(ctx, kube.IngressParams{
		Namespace:     w.Namespace,
		WorkspaceID:   w.ID,
		FQDN:          w.FQDN,
		WildcardHost:  "*." + cfg.Domain,
		TLSSecretName: cfg.System.TLSSecretName,
	}); err != nil {
		return fail(StageWorkload, err)
	}
	if err := u.Kube.SetNamespaceLifecycle(ctx, w.Namespace, kube.LabelLifecycleReady); err != nil {
		return fail(StageWorkload, err)
	}

	if err := u.Repos.Workspace.Create(ctx, w); err != nil {
		return fail(StageWorkload, err)
	}

	logger.Info(ctx, "workspace provisioned", "workspace", w.ID, "url", w.URL())
	return &ProvisionOutput{Workspace: w}, nil
}

// workspaceInfo renders the shared-state document mounted into the
// workspace for in-container tooling. It carries the full access identity
// including the credential; the document lives inside the workspace's own
// namespace, which is the same trust boundary as the workspace secret.
func workspaceInfo(w *model.Workspace) (string, error) {
	repositories := []string{}
	if url := w.RepoURL(); url != "" {
		repositories = append(repositories, url)
	}
	doc := map[string]any{
		"id":           w.ID,
		"namespace":    w.Namespace,
		"subdomain":    w.Subdomain,
		"fqdn":         w.FQDN,
		"url":          w.URL(),
		"password":     w.Password,
		"repo":         w.RepoName,
		"repositories": repositories,
		"branches":     w.Branches,
		"poolName":     w.PoolName,
		"forPool":      w.ForPool,
		"createdAt":    w.CreatedAt.Format(time.RFC3339),
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
