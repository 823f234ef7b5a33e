package model

import "time"

// Workspace is the provisioned identity and configuration of one
// development environment. Identity fields (ID, Namespace, Subdomain, FQDN,
// Password, BuildTimestamp) are allocated once during provisioning and
// never change afterwards.
type Workspace struct {
	ID             string
	Namespace      string // isolation boundary, "workspace-<ID>"
	Subdomain      string // random lowercase alphanumeric, length 8
	FQDN           string // "<Subdomain>.<workspace domain>"
	Password       string // generated access credential
	BuildTimestamp string // compact UTC timestamp shared by both image builds

	RepoName string   // "owner/name"
	Branches []string // defaults to ["main"]
	PoolName string   // pool affiliation tag, empty for interactive
	ForPool  bool     // pre-provisioned pool workspace

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RepoURL returns the clone URL of the workspace repository.
func (w *Workspace) RepoURL() string {
	if w.RepoName == "" {
		return ""
	}
	return "https://github.com/" + w.RepoName
}

// URL returns the browser URL of the workspace.
func (w *Workspace) URL() string {
	if w.FQDN == "" {
		return ""
	}
	return "https://" + w.FQDN
}
