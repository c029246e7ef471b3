package git

// RepositoryInfo describes the local checkout state
type RepositoryInfo struct {
	Path          string
	CurrentBranch string
	Commit        string
	RemoteURL     string
	IsClean       bool
}
