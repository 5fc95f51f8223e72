package ports

// GitService opera sobre el checkout local: diffs staged para reviews
// locales y detección del repo remoto para referencias de PR sin owner/repo
// explícitos.
type GitService interface {
	HasStagedChanges() bool
	GetStagedDiff() (string, error)
	GetCurrentBranch() (string, error)
	// GetRepoInfo extrae (owner, repo, provider) del remote origin.
	GetRepoInfo() (string, string, string, error)
}
