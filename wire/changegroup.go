package wire

import (
	"github.com/hgserve/bundle2push"
)

// ChangegroupChangeset is one changelog entry from a changegroup part's
// changeset group, decoded as far as the wire codec goes: identity,
// parentage, the touched manifest, metadata, and the raw chunk BlobRepo
// needs to derive the bonsai changeset.
type ChangegroupChangeset struct {
	NodeID       bundle2push.HgChangesetID
	P1, P2       bundle2push.HgChangesetID
	ManifestNode bundle2push.HgManifestID
	Metadata     bundle2push.ChangesetMetadata
	Files        []bundle2push.MPath
	Raw          []byte
}

// ChangegroupManifest is one entry from a changegroup part's flat manifest
// group.
type ChangegroupManifest struct {
	NodeID bundle2push.HgManifestID
	P1, P2 bundle2push.HgManifestID
	Raw    []byte
}

// ChangegroupFilelogChunk is one revision of one file's filelog, as carried
// in a changegroup part's per-file filelog groups.
type ChangegroupFilelogChunk struct {
	NodeID   bundle2push.HgNodeHash
	P1, P2   bundle2push.HgNodeHash
	LinkNode bundle2push.HgChangesetID
	Raw      []byte
}

// ChangegroupBody is the decoded payload of a changegroup (or
// infinitepush/rebase-aliased changegroup) part: the changelog group, the
// flat manifest group, and the per-file filelog groups, in wire order.
type ChangegroupBody struct {
	Changesets []ChangegroupChangeset
	Manifests  []ChangegroupManifest
	Filelogs   map[bundle2push.MPath][]ChangegroupFilelogChunk
}

func (ChangegroupBody) bodyMarker() {}
