package domain

import (
	"context"

	"github.com/podspace/podspace/domain/model"
)

// WorkspaceRepository stores and retrieves Workspace records. The repository
// is the local registry of provisioned workspaces; the cluster remains the
// source of truth for their resources.
type WorkspaceRepository interface {
	Create(ctx context.Context, w *model.Workspace) error
	Get(ctx context.Context, id string) (*model.Workspace, error)
	List(ctx context.Context) ([]*model.Workspace, error)
	Update(ctx context.Context, w *model.Workspace) error
	Delete(ctx context.Context, id string) error
}
