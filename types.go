// Package bundle2push defines the domain types and external-collaborator
// interfaces the push-bundle resolver is built against: Mercurial/bonsai
// changeset identity, repo paths, manifest content, and the contracts for
// the blob repository, pushrebase engine, hook manager, and reply encoder.
// The resolver orchestration itself lives in the resolver subpackage; this
// package is the shared vocabulary every other package imports.
package bundle2push

import (
	"strings"
)

// HgNodeHash is an opaque Mercurial node identifier (a hex-encoded SHA-1 in
// the real protocol). The resolver never computes one; it only compares,
// stores, and forwards values handed to it by the wire layer and the repo.
type HgNodeHash string

// NullHash is the well-known all-zero node hash denoting "no content" —
// the manifest id of an empty commit.
const NullHash HgNodeHash = "0000000000000000000000000000000000000000"

// HgChangesetID identifies a changeset in Mercurial's identity scheme.
type HgChangesetID HgNodeHash

// HgManifestID identifies a tree manifest revision in Mercurial's identity
// scheme.
type HgManifestID HgNodeHash

// ChangesetID identifies a changeset in the repository's bonsai identity
// scheme, the canonical identity the blob repo stores changesets under.
type ChangesetID string

// MPath is a repository-relative path, '/'-separated, with no leading or
// trailing slash.
type MPath string

// NumComponents returns the number of path components, used to bound
// manifest walk depth. The empty path has zero components.
func (p MPath) NumComponents() int {
	if p == "" {
		return 0
	}
	return strings.Count(string(p), "/") + 1
}

// Join appends name as a new final component of p.
func (p MPath) Join(name MPath) MPath {
	if p == "" {
		return name
	}
	return p + "/" + name
}

// RepoPathKind discriminates the three RepoPath variants.
type RepoPathKind int

const (
	// RepoPathKindRoot identifies the repository root itself.
	RepoPathKindRoot RepoPathKind = iota
	// RepoPathKindDirectory identifies a tree-manifest subdirectory.
	RepoPathKindDirectory
	// RepoPathKindFile identifies a file path.
	RepoPathKindFile
)

// RepoPath is a location within a repository's tree: the root, a directory
// (tree manifest), or a file.
type RepoPath struct {
	Kind RepoPathKind
	Path MPath
}

// RootPath returns the RepoPath for the repository root.
func RootPath() RepoPath { return RepoPath{Kind: RepoPathKindRoot} }

// DirectoryPath returns the RepoPath for a tree-manifest subdirectory.
func DirectoryPath(p MPath) RepoPath { return RepoPath{Kind: RepoPathKindDirectory, Path: p} }

// FilePath returns the RepoPath for a file.
func FilePath(p MPath) RepoPath { return RepoPath{Kind: RepoPathKindFile, Path: p} }

// NumComponents returns the path-component count used for the walk-depth
// bound; the root path has zero components.
func (p RepoPath) NumComponents() int {
	if p.Kind == RepoPathKindRoot {
		return 0
	}
	return p.Path.NumComponents()
}

func (p RepoPath) String() string {
	switch p.Kind {
	case RepoPathKindRoot:
		return "/"
	case RepoPathKindDirectory:
		return string(p.Path) + "/"
	default:
		return string(p.Path)
	}
}

// NodeKey identifies a blob within a repository: the path it lives at plus
// its content node hash. It is the map key for filelogs, manifests, and
// content blobs, and so must remain comparable (usable in a Go map key).
type NodeKey struct {
	Path RepoPath
	Hash HgNodeHash
}

// Details describes one entry of a tree manifest: the id of the blob it
// points to, and whether that blob is itself a tree (subdirectory) or a
// file.
type Details struct {
	EntryID HgNodeHash
	IsTree  bool
}

// ManifestFileEntry is one named entry of a ManifestContent, in wire order.
type ManifestFileEntry struct {
	Name    MPath
	Details Details
}

// ManifestContent is the decoded content of one tree-manifest revision: an
// ordered list of named entries. Order is preserved from the wire for
// deterministic walking, but lookups are by name.
type ManifestContent struct {
	Files []ManifestFileEntry
}

// Lookup returns the Details for name, if present.
func (mc ManifestContent) Lookup(name MPath) (Details, bool) {
	for _, f := range mc.Files {
		if f.Name == name {
			return f.Details, true
		}
	}
	return Details{}, false
}

// BlobEntry is the token an upload future resolves to: the content-addressed
// blob's own node hash, paired with the repo path it was uploaded at. It
// stands in for the original HgBlobEntry without pretending to be a handle
// back into the blob store's internals.
type BlobEntry struct {
	Hash HgNodeHash
	Path RepoPath
}

// ContentBlobInfo carries the metadata CreateChangesetRequest needs for a
// file's raw content blob, independent of (and available before) the
// filelog's own upload completing.
type ContentBlobInfo struct {
	Key       NodeKey
	ContentID string
	Size      int64
}
