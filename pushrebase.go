package bundle2push

import "context"

// PushrebaseParams configures one invocation of the pushrebase engine. The
// resolver never interprets these fields, and it does not fill them in from
// configuration: it calls the engine with a zero-value PushrebaseParams.
type PushrebaseParams struct {
	RecursionLimit        int
	CasefoldCheck         bool
	EmitObsmarkers        bool
	AllowCasefoldingRenames bool
}

// PushrebaseResult is what the pushrebase engine reports back once it has
// rebased the pushed changesets onto the target bookmark.
type PushrebaseResult struct {
	// Head is the new bonsai head of onto after rebasing.
	Head ChangesetID
	// RetryNum counts how many times the engine had to retry the rebase
	// due to a concurrent bookmark move.
	RetryNum int
}

// PushrebaseEngine rebases a linear run of pushed changesets onto a
// bookmark, resolving conflicts with whatever landed on the bookmark
// concurrently. It is an external collaborator: the resolver only supplies
// the ordered changeset handles and the target bookmark, and reports
// whatever result or error comes back.
type PushrebaseEngine interface {
	DoPushrebase(
		ctx context.Context,
		repo BlobRepo,
		params PushrebaseParams,
		onto Bookmark,
		changesets []ChangesetHandle,
		pushvars map[string][]byte,
	) (PushrebaseResult, error)
}
