package workspace

import (
	"context"

	"github.com/podspace/podspace/domain/model"
)

// InfoInput identifies the workspace to inspect.
type InfoInput struct {
	WorkspaceID string `json:"workspaceID"`
}

// InfoOutput combines the registry record with live cluster state.
type InfoOutput struct {
	Workspace *model.Workspace `json:"workspace"`
	URL       string           `json:"url"`
	// Lifecycle is the namespace lifecycle label; empty when the namespace
	// no longer exists.
	Lifecycle string `json:"lifecycle"`
}

// Info fetches a workspace record and the current lifecycle state of its
// namespace.
func (u *UseCase) Info(ctx context.Context, in *InfoInput) (*InfoOutput, error) {
	if in == nil || in.WorkspaceID == "" {
		return nil, model.ErrWorkspaceInvalid
	}
	w, err := u.Repos.Workspace.Get(ctx, in.WorkspaceID)
	if err != nil {
		return nil, err
	}
	lifecycle, err := u.Kube.NamespaceLifecycle(ctx, w.Namespace)
	if err != nil {
		return nil, err
	}
	return &InfoOutput{Workspace: w, URL: w.URL(), Lifecycle: lifecycle}, nil
}
