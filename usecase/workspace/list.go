package workspace

import (
	"context"

	"github.com/podspace/podspace/domain/model"
)

// ListInput carries optional filters.
type ListInput struct {
	// PoolName filters to one pool; empty lists everything.
	PoolName string `json:"poolName,omitempty"`
}

// ListOutput wraps the listed workspaces.
type ListOutput struct {
	Workspaces []*model.Workspace `json:"workspaces"`
}

// List returns workspace records, optionally filtered by pool.
func (u *UseCase) List(ctx context.Context, in *ListInput) (*ListOutput, error) {
	ws, err := u.Repos.Workspace.List(ctx)
	if err != nil {
		return nil, err
	}
	if in != nil && in.PoolName != "" {
		filtered := ws[:0]
		for _, w := range ws {
			if w.PoolName == in.PoolName {
				filtered = append(filtered, w)
			}
		}
		ws = filtered
	}
	return &ListOutput{Workspaces: ws}, nil
}
