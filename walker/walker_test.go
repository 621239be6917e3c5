package walker

import (
	"context"
	"errors"
	"testing"

	"github.com/hgserve/bundle2push"
	"github.com/hgserve/bundle2push/api/errcode"
	"github.com/hgserve/bundle2push/upload"
	"github.com/hgserve/bundle2push/wire"
)

// fakeRepo implements just enough of bundle2push.BlobRepo for the walker's
// own needs: every upload succeeds and returns a blob entry echoing its key.
type fakeRepo struct{}

func newFakeRepo() *fakeRepo { return &fakeRepo{} }

func (r *fakeRepo) UploadFilelogBlob(ctx context.Context, key bundle2push.NodeKey, raw []byte) (bundle2push.BlobEntry, error) {
	return bundle2push.BlobEntry{Hash: key.Hash, Path: key.Path}, nil
}

func (r *fakeRepo) UploadTreeManifestBlob(ctx context.Context, key bundle2push.NodeKey, raw []byte) (bundle2push.BlobEntry, error) {
	return bundle2push.BlobEntry{Hash: key.Hash, Path: key.Path}, nil
}

func (r *fakeRepo) ResolvedChangeset(ctx context.Context, id bundle2push.HgChangesetID) (bundle2push.ChangesetHandle, error) {
	return nil, nil
}

func (r *fakeRepo) CreateChangeset(ctx context.Context, req bundle2push.CreateChangesetRequest) (bundle2push.ChangesetHandle, error) {
	return nil, nil
}

func (r *fakeRepo) BonsaiFromHg(ctx context.Context, id bundle2push.HgChangesetID) (bundle2push.ChangesetID, error) {
	return "", nil
}

func (r *fakeRepo) HgFromBonsai(ctx context.Context, id bundle2push.ChangesetID) (bundle2push.HgChangesetID, error) {
	return "", nil
}

func (r *fakeRepo) GetBookmark(ctx context.Context, name bundle2push.Bookmark) (*bundle2push.HgChangesetID, error) {
	return nil, nil
}

func (r *fakeRepo) NewBookmarkTransaction(ctx context.Context) bundle2push.BookmarkTransaction {
	return nil
}

func treeEntry(path bundle2push.RepoPath, nodeID bundle2push.HgManifestID, p1 bundle2push.HgManifestID, content bundle2push.ManifestContent) wire.TreeEntry {
	return wire.TreeEntry{Path: path, NodeID: nodeID, P1: p1, Raw: wire.EncodeManifestContent(content)}
}

func TestNewBlobsWalksNewTree(t *testing.T) {
	repo := newFakeRepo()

	rootContent := bundle2push.ManifestContent{Files: []bundle2push.ManifestFileEntry{
		{Name: "README", Details: bundle2push.Details{EntryID: "1111111111111111111111111111111111111111"}},
		{Name: "lib", Details: bundle2push.Details{EntryID: "2222222222222222222222222222222222222222", IsTree: true}},
	}}
	libContent := bundle2push.ManifestContent{Files: []bundle2push.ManifestFileEntry{
		{Name: "x.go", Details: bundle2push.Details{EntryID: "3333333333333333333333333333333333333333"}},
	}}

	entries := []wire.TreeEntry{
		treeEntry(bundle2push.RootPath(), "aaaa111111111111111111111111111111111111", "", rootContent),
		treeEntry(bundle2push.DirectoryPath("lib"), "2222222222222222222222222222222222222222", "", libContent),
	}

	contentBlobs := map[bundle2push.NodeKey]bundle2push.ContentBlobInfo{
		{Path: bundle2push.FilePath("README"), Hash: "1111111111111111111111111111111111111111"}: {ContentID: "c1"},
		{Path: bundle2push.FilePath("lib/x.go"), Hash: "3333333333333333333333333333333333333333"}: {ContentID: "c2"},
	}

	treeSched := upload.NewScheduler(upload.IgnoreDuplicates)
	fileSched := upload.NewScheduler(upload.EnsureNoDuplicates)

	w := New(repo, entries, treeSched, fileSched, contentBlobs)

	result, err := w.NewBlobs(context.Background(), "aaaa111111111111111111111111111111111111")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Root == nil {
		t.Fatal("expected a root future")
	}
	if len(result.SubEntries) != 1 {
		t.Fatalf("expected 1 sub entry (the lib tree upload), got %d", len(result.SubEntries))
	}
	if len(result.ContentBlobs) != 2 {
		t.Fatalf("expected 2 content blobs, got %d", len(result.ContentBlobs))
	}

	if _, err := result.Root.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error waiting on root: %v", err)
	}
}

// TestNewBlobsDedupesAgainstBundledParent covers the case where a push
// resends both a changed root and the unchanged parent root it derives
// from. The unchanged "lib" entry, matched by name and id against the
// parent reachable through the new root's own P1, must not be walked even
// though its tree entry happens to also be present in the bundle.
func TestNewBlobsDedupesAgainstBundledParent(t *testing.T) {
	repo := newFakeRepo()

	libContent := bundle2push.ManifestContent{Files: []bundle2push.ManifestFileEntry{
		{Name: "x.go", Details: bundle2push.Details{EntryID: "3333333333333333333333333333333333333333"}},
	}}
	parentRootContent := bundle2push.ManifestContent{Files: []bundle2push.ManifestFileEntry{
		{Name: "README", Details: bundle2push.Details{EntryID: "1111111111111111111111111111111111111111"}},
		{Name: "lib", Details: bundle2push.Details{EntryID: "2222222222222222222222222222222222222222", IsTree: true}},
	}}
	newRootContent := parentRootContent

	entries := []wire.TreeEntry{
		treeEntry(bundle2push.RootPath(), "bbbb111111111111111111111111111111111111", "", parentRootContent),
		treeEntry(bundle2push.RootPath(), "aaaa111111111111111111111111111111111111", "bbbb111111111111111111111111111111111111", newRootContent),
		treeEntry(bundle2push.DirectoryPath("lib"), "2222222222222222222222222222222222222222", "", libContent),
	}

	contentBlobs := map[bundle2push.NodeKey]bundle2push.ContentBlobInfo{
		{Path: bundle2push.FilePath("README"), Hash: "1111111111111111111111111111111111111111"}: {ContentID: "c1"},
	}

	treeSched := upload.NewScheduler(upload.IgnoreDuplicates)
	fileSched := upload.NewScheduler(upload.EnsureNoDuplicates)
	w := New(repo, entries, treeSched, fileSched, contentBlobs)

	result, err := w.NewBlobs(context.Background(), "aaaa111111111111111111111111111111111111")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Root == nil {
		t.Fatal("expected the new root itself to be uploaded")
	}
	if len(result.SubEntries) != 0 {
		t.Fatalf("expected no sub entries: both README and lib are unchanged from the parent, got %d", len(result.SubEntries))
	}
	if len(result.ContentBlobs) != 0 {
		t.Fatalf("expected no content blobs since README was deduped, got %d", len(result.ContentBlobs))
	}
}

func TestNewBlobsMissingContentBlobErrors(t *testing.T) {
	repo := newFakeRepo()

	content := bundle2push.ManifestContent{Files: []bundle2push.ManifestFileEntry{
		{Name: "README", Details: bundle2push.Details{EntryID: "1111111111111111111111111111111111111111"}},
	}}
	entries := []wire.TreeEntry{
		treeEntry(bundle2push.RootPath(), "aaaa111111111111111111111111111111111111", "", content),
	}

	treeSched := upload.NewScheduler(upload.IgnoreDuplicates)
	fileSched := upload.NewScheduler(upload.EnsureNoDuplicates)
	w := New(repo, entries, treeSched, fileSched, nil)

	_, err := w.NewBlobs(context.Background(), "aaaa111111111111111111111111111111111111")
	if err == nil {
		t.Fatal("expected an error for a file entry with no registered content blob")
	}
}

func TestNewBlobsMissingRootManifestErrors(t *testing.T) {
	repo := newFakeRepo()

	treeSched := upload.NewScheduler(upload.IgnoreDuplicates)
	fileSched := upload.NewScheduler(upload.EnsureNoDuplicates)
	w := New(repo, nil, treeSched, fileSched, nil)

	_, err := w.NewBlobs(context.Background(), "aaaa111111111111111111111111111111111111")
	if err == nil {
		t.Fatal("expected an error for a non-null root manifest absent from the bundle")
	}
	var rerr errcode.Error
	if !errors.As(err, &rerr) || rerr.Code != errcode.ErrorCodeMissingRootManifest {
		t.Fatalf("expected ErrorCodeMissingRootManifest, got %v", err)
	}
}

func TestNewBlobsNullRootIsEmpty(t *testing.T) {
	repo := newFakeRepo()

	treeSched := upload.NewScheduler(upload.IgnoreDuplicates)
	fileSched := upload.NewScheduler(upload.EnsureNoDuplicates)
	w := New(repo, nil, treeSched, fileSched, nil)

	result, err := w.NewBlobs(context.Background(), bundle2push.HgManifestID(bundle2push.NullHash))
	if err != nil {
		t.Fatalf("unexpected error for a null root: %v", err)
	}
	if result.Root != nil {
		t.Fatal("expected no root future for a null root manifest")
	}
}
