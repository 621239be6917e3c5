package bundle2push

import (
	"context"
	"time"

	"github.com/hgserve/bundle2push/future"
)

// ChangesetMetadata carries the user-supplied fields of a changeset, as
// parsed from the changegroup's changeset chunk.
type ChangesetMetadata struct {
	User     string
	Time     time.Time
	TZOffset int
	Comments string
	Extra    map[string][]byte
}

// CreateChangesetRequest is everything BlobRepo.CreateChangeset needs to
// derive and store one bonsai changeset from its Mercurial representation.
// RootManifest and SubEntries are futures because the resolver schedules
// uploads before it has finished walking the rest of the changegroup;
// CreateChangeset is expected to await them internally rather than block
// its caller.
type CreateChangesetRequest struct {
	ExpectedNodeID HgChangesetID
	P1             ChangesetHandle
	P2             ChangesetHandle
	RootManifest   *future.Future[BlobEntry]
	SubEntries     []*future.Future[BlobEntry]
	ContentBlobs   []ContentBlobInfo
	Metadata       ChangesetMetadata

	// MustCheckCaseConflicts asks the repo to reject the changeset if it
	// introduces two paths differing only by case, mirroring Mercurial's
	// own case-collision guard on case-insensitive filesystems.
	MustCheckCaseConflicts bool
}

// ChangesetHandle is a shared future over a changeset's bonsai id, exactly
// as produced by BlobRepo.CreateChangeset or BlobRepo.ResolvedChangeset.
// Holding a handle rather than an id lets the resolver wire a child's
// parent before the parent's own upload has completed.
type ChangesetHandle interface {
	Wait(ctx context.Context) (ChangesetID, error)
}

// BookmarkTransaction stages compare-and-swap bookmark updates and applies
// them together on Commit. Each Create, Update, or Delete call stages one
// update; calling none is a valid no-op transaction.
type BookmarkTransaction interface {
	Create(name Bookmark, new ChangesetID) error
	Update(name Bookmark, new, old ChangesetID) error
	Delete(name Bookmark, old ChangesetID) error
	Commit(ctx context.Context) (bool, error)
}

// BlobRepo is the storage and identity-mapping collaborator the resolver is
// built against. Every method is expected to be safe for concurrent use;
// upload methods in particular will be called many times in flight from
// the walker's fan-out.
type BlobRepo interface {
	// UploadFilelogBlob stores one filelog revision's raw chunk and returns
	// the resulting blob entry once durable.
	UploadFilelogBlob(ctx context.Context, key NodeKey, raw []byte) (BlobEntry, error)

	// UploadTreeManifestBlob stores one tree-manifest revision's raw chunk
	// and returns the resulting blob entry once durable.
	UploadTreeManifestBlob(ctx context.Context, key NodeKey, raw []byte) (BlobEntry, error)

	// ResolvedChangeset returns a handle for a changeset the repo already
	// knows about (for example, a parent outside the pushed set).
	ResolvedChangeset(ctx context.Context, id HgChangesetID) (ChangesetHandle, error)

	// CreateChangeset derives and stores a bonsai changeset from req,
	// returning a handle that resolves once derivation completes.
	CreateChangeset(ctx context.Context, req CreateChangesetRequest) (ChangesetHandle, error)

	// BonsaiFromHg resolves a Mercurial changeset id to its bonsai
	// equivalent.
	BonsaiFromHg(ctx context.Context, id HgChangesetID) (ChangesetID, error)

	// HgFromBonsai resolves a bonsai changeset id to its Mercurial
	// equivalent.
	HgFromBonsai(ctx context.Context, id ChangesetID) (HgChangesetID, error)

	// GetBookmark returns the changeset a bookmark currently points at, or
	// nil if the bookmark does not exist.
	GetBookmark(ctx context.Context, name Bookmark) (*HgChangesetID, error)

	// NewBookmarkTransaction begins a new compare-and-swap bookmark
	// update.
	NewBookmarkTransaction(ctx context.Context) BookmarkTransaction
}
