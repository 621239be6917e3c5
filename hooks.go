package bundle2push

import "context"

// HookExecution is the outcome of running one hook against one changeset or
// file change.
type HookExecution struct {
	Accepted    bool
	Description string
}

// ChangesetHookExecutionID identifies one changeset-level hook run, for use
// as a map key when collecting results across many hooks and changesets.
type ChangesetHookExecutionID struct {
	HookName string
	CSID     HgChangesetID
}

// FileHookExecutionID identifies one file-level hook run.
type FileHookExecutionID struct {
	HookName string
	CSID     HgChangesetID
	Path     MPath
}

// HookManager runs the repo's configured pre-commit hooks against pushed
// changesets before they're allowed onto a bookmark. A nil HookManager
// (or one configured with no hooks) means every run returns no rejections.
type HookManager interface {
	RunChangesetHooksForBookmark(
		ctx context.Context,
		cs HgChangesetID,
		onto Bookmark,
		pushvars map[string][]byte,
	) (map[ChangesetHookExecutionID]HookExecution, error)

	RunFileHooksForBookmark(
		ctx context.Context,
		cs HgChangesetID,
		onto Bookmark,
		pushvars map[string][]byte,
	) (map[FileHookExecutionID]HookExecution, error)
}

// LCAHint is an opaque marker the resolver forwards from Dependencies to
// GetBundleResponseBuilder without inspecting; it lets a reply builder
// consult lowest-common-ancestor hints when deciding how much of the
// changegroup's own history to echo back. The resolver never constructs
// a real implementation.
type LCAHint interface{}
