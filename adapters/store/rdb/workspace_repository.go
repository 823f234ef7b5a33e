package rdb

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/podspace/podspace/domain"
	"github.com/podspace/podspace/domain/model"
)

// WorkspaceRepository is a GORM-backed implementation of domain.WorkspaceRepository.
type WorkspaceRepository struct {
	db *gorm.DB
}

func NewWorkspaceRepository(db *gorm.DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

func toRecord(w *model.Workspace) *WorkspaceRecord {
	branches := ""
	if len(w.Branches) > 0 {
		if b, err := json.Marshal(w.Branches); err == nil {
			branches = string(b)
		}
	}
	return &WorkspaceRecord{
		ID:             w.ID,
		Namespace:      w.Namespace,
		Subdomain:      w.Subdomain,
		FQDN:           w.FQDN,
		Password:       w.Password,
		BuildTimestamp: w.BuildTimestamp,
		RepoName:       w.RepoName,
		Branches:       branches,
		PoolName:       w.PoolName,
		ForPool:        w.ForPool,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
	}
}

func toModel(r *WorkspaceRecord) *model.Workspace {
	var branches []string
	if r.Branches != "" {
		_ = json.Unmarshal([]byte(r.Branches), &branches)
	}
	return &model.Workspace{
		ID:             r.ID,
		Namespace:      r.Namespace,
		Subdomain:      r.Subdomain,
		FQDN:           r.FQDN,
		Password:       r.Password,
		BuildTimestamp: r.BuildTimestamp,
		RepoName:       r.RepoName,
		Branches:       branches,
		PoolName:       r.PoolName,
		ForPool:        r.ForPool,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func (r *WorkspaceRepository) Create(ctx context.Context, w *model.Workspace) error {
	rec := toRecord(w)
	if rec.ID == "" {
		rec.ID = uuid.NewString()
		w.ID = rec.ID
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *WorkspaceRepository) Get(ctx context.Context, id string) (*model.Workspace, error) {
	var rec WorkspaceRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, model.ErrWorkspaceNotFound
		}
		return nil, err
	}
	return toModel(&rec), nil
}

func (r *WorkspaceRepository) List(ctx context.Context) ([]*model.Workspace, error) {
	var recs []WorkspaceRecord
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Workspace, 0, len(recs))
	for i := range recs {
		out = append(out, toModel(&recs[i]))
	}
	return out, nil
}

func (r *WorkspaceRepository) Update(ctx context.Context, w *model.Workspace) error {
	rec := toRecord(w)
	return r.db.WithContext(ctx).Model(&WorkspaceRecord{}).Where("id = ?", rec.ID).Updates(rec).Error
}

func (r *WorkspaceRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&WorkspaceRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrWorkspaceNotFound
	}
	return nil
}

// Ensure interface satisfaction.
var _ domain.WorkspaceRepository = (*WorkspaceRepository)(nil)
