package wire

import (
	"github.com/hgserve/bundle2push"
)

// TreeEntry is one tree-manifest revision from a treegroup2 (or
// rebasepack-aliased) part.
type TreeEntry struct {
	Path     bundle2push.RepoPath
	NodeID   bundle2push.HgManifestID
	P1, P2   bundle2push.HgManifestID
	LinkNode bundle2push.HgChangesetID
	Raw      []byte
}

// TreegroupBody is the decoded payload of a b2x:treegroup2 (or
// b2x:rebasepack) part: a flat list of tree-manifest revisions, one per
// touched directory, in wire order.
type TreegroupBody struct {
	Entries []TreeEntry
}

func (TreegroupBody) bodyMarker() {}
