package workspace

import (
	"context"
	"errors"

	"github.com/podspace/podspace/domain/model"
	"github.com/podspace/podspace/internal/logging"
	"github.com/podspace/podspace/internal/naming"
)

// DeprovisionInput identifies the workspace to tear down.
type DeprovisionInput struct {
	WorkspaceID string `json:"workspaceID"`
}

// Deprovision tears a workspace down and removes its registry record.
// Idempotent: a workspace whose namespace is already gone, or that was
// never recorded, still deprovisions cleanly. A namespace that does not
// disappear within the configured poll budget returns ErrTeardownTimeout.
func (u *UseCase) Deprovision(ctx context.Context, in *DeprovisionInput) error {
	if in == nil || in.WorkspaceID == "" {
		return model.ErrWorkspaceInvalid
	}
	logger := logging.FromContext(ctx)

	// The namespace name is derived, not looked up, so teardown works even
	// when the record is missing.
	namespace := naming.NamespaceName(in.WorkspaceID)
	if w, err := u.Repos.Workspace.Get(ctx, in.WorkspaceID); err == nil {
		namespace = w.Namespace
	} else if !errors.Is(err, model.ErrWorkspaceNotFound) {
		return err
	}

	logger.Info(ctx, "deprovisioning workspace", "workspace", in.WorkspaceID, "namespace", namespace)
	if err := u.teardown(ctx, namespace); err != nil {
		return err
	}

	if err := u.Repos.Workspace.Delete(ctx, in.WorkspaceID); err != nil && !errors.Is(err, model.ErrWorkspaceNotFound) {
		return err
	}
	return nil
}

// teardown removes the namespaced resources, deletes the namespace and
// waits for it to disappear. Resource deletion is best-effort; the
// namespace deletion sweeps up whatever remains.
func (u *UseCase) teardown(ctx context.Context, namespace string) error {
	if err := u.Kube.TeardownWorkspaceResources(ctx, namespace); err != nil {
		return err
	}
	if err := u.Kube.DeleteNamespace(ctx, namespace); err != nil {
		return err
	}
	return u.Kube.WaitNamespaceDeleted(ctx, namespace, u.Config.TeardownInterval(), u.Config.TeardownTimeout())
}
