package models

type (
	// PullRequestContext contiene la metadata que delimita la review de un
	// PR hosteado: identidad del repo, número y los SHAs base/head.
	PullRequestContext struct {
		Owner       string
		Repo        string
		Number      int
		Title       string
		Description string
		Author      string
		BaseSHA     string
		HeadSHA     string
	}
)
