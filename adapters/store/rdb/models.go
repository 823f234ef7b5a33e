package rdb

import "time"

// WorkspaceRecord is the RDB persistence model for domain Workspace.
// Table name: workspaces
type WorkspaceRecord struct {
	ID             string    `gorm:"primaryKey;type:text;not null"`
	Namespace      string    `gorm:"type:text;not null"`
	Subdomain      string    `gorm:"type:text;not null"`
	FQDN           string    `gorm:"type:text;not null"`
	Password       string    `gorm:"type:text;not null"`
	BuildTimestamp string    `gorm:"type:text;not null"`
	RepoName       string    `gorm:"type:text"`
	Branches       string    `gorm:"type:text"` // JSON encoded []string
	PoolName       string    `gorm:"type:text"`
	ForPool        bool      `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (WorkspaceRecord) TableName() string { return "workspaces" }
