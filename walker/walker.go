// Package walker walks a pushed tree-manifest DAG, scheduling an upload
// for every entry that is new relative to both parents and collecting the
// content-blob records its leaves point at. It is the Go-level equivalent
// of the original resolver's NewBlobs walk.
package walker

import (
	"context"
	"fmt"

	"github.com/hgserve/bundle2push"
	"github.com/hgserve/bundle2push/api/errcode"
	"github.com/hgserve/bundle2push/future"
	"github.com/hgserve/bundle2push/upload"
	"github.com/hgserve/bundle2push/wire"
)

// maxPathDepth bounds how many path components a manifest walk will follow
// before it's treated as a malformed or adversarial tree.
const maxPathDepth = 4096

// Result is the product of one NewBlobs walk: the root manifest's own
// upload future, every descendant tree and file upload future the walk
// scheduled, and the content-blob records for every file leaf reached.
type Result struct {
	Root         *future.Future[bundle2push.BlobEntry]
	SubEntries   []*future.Future[bundle2push.BlobEntry]
	ContentBlobs []bundle2push.ContentBlobInfo
}

// Walker holds the inputs one changeset's manifest walk needs: the raw
// tree entries this push's treegroup2 part carried, the schedulers that
// deduplicate tree and file uploads across the whole changegroup, and the
// content-blob records registered as filelogs were processed.
type Walker struct {
	repo bundle2push.BlobRepo

	trees         map[bundle2push.NodeKey]wire.TreeEntry
	treeScheduler *upload.Scheduler
	fileScheduler *upload.Scheduler
	contentBlobs  map[bundle2push.NodeKey]bundle2push.ContentBlobInfo
}

// New builds a Walker over one push's treegroup entries.
func New(
	repo bundle2push.BlobRepo,
	treeEntries []wire.TreeEntry,
	treeScheduler *upload.Scheduler,
	fileScheduler *upload.Scheduler,
	contentBlobs map[bundle2push.NodeKey]bundle2push.ContentBlobInfo,
) *Walker {
	trees := make(map[bundle2push.NodeKey]wire.TreeEntry, len(treeEntries))
	for _, e := range treeEntries {
		trees[bundle2push.NodeKey{Path: e.Path, Hash: bundle2push.HgNodeHash(e.NodeID)}] = e
	}
	return &Walker{
		repo:          repo,
		trees:         trees,
		treeScheduler: treeScheduler,
		fileScheduler: fileScheduler,
		contentBlobs:  contentBlobs,
	}
}

// NewBlobs walks the manifest rooted at rootNodeID. The root entry itself
// must be present in this push's treegroup2 body unless rootNodeID is
// NullHash (the empty-tree case) — the root manifest is never legitimately
// omitted as unchanged the way a subtree entry can be.
func (w *Walker) NewBlobs(ctx context.Context, rootNodeID bundle2push.HgManifestID) (*Result, error) {
	result := &Result{}

	rootFuture, err := w.walkTree(ctx, bundle2push.RootPath(), rootNodeID, result, 0)
	if err != nil {
		return nil, err
	}
	result.Root = rootFuture
	return result, nil
}

// walkTree schedules the upload for the tree at path/nodeID, decodes its
// content, and recurses into every child not deduped against the parent
// content reachable through that tree revision's own P1/P2 pointers.
//
// A non-root entry absent from this push's treegroup2 body is unchanged
// from the matching entry in its parent and already durable; nothing to
// upload or walk further. A root entry absent from the bundle is fatal
// unless nodeID is NullHash, since the root manifest is always resent.
func (w *Walker) walkTree(
	ctx context.Context,
	path bundle2push.RepoPath,
	nodeID bundle2push.HgManifestID,
	result *Result,
	depth int,
) (*future.Future[bundle2push.BlobEntry], error) {
	if depth > maxPathDepth {
		return nil, errcode.ErrorCodePathTooDeep.WithArgs(path.String())
	}

	key := bundle2push.NodeKey{Path: path, Hash: bundle2push.HgNodeHash(nodeID)}
	entry, ok := w.trees[key]
	if !ok {
		if path.Kind == bundle2push.RepoPathKindRoot && bundle2push.HgNodeHash(nodeID) != bundle2push.NullHash {
			return nil, errcode.ErrorCodeMissingRootManifest.WithArgs(string(nodeID))
		}
		return nil, nil
	}

	f, err := w.treeScheduler.Schedule(ctx, key, func(ctx context.Context) (bundle2push.BlobEntry, error) {
		return w.repo.UploadTreeManifestBlob(ctx, key, entry.Raw)
	})
	if err != nil {
		return nil, err
	}
	if path.Kind != bundle2push.RepoPathKindRoot {
		result.SubEntries = append(result.SubEntries, f)
	}

	content, err := wire.DecodeManifestContent(entry.Raw)
	if err != nil {
		return nil, fmt.Errorf("decoding manifest at %s: %w", path.String(), err)
	}

	parentContents := w.bundledParentContents(path, entry)

	for _, file := range content.Files {
		childPath := path.Path.Join(file.Name)
		if path.Kind == bundle2push.RepoPathKindRoot {
			childPath = file.Name
		}

		matchedParent := false
		for _, pc := range parentContents {
			pd, ok := pc.Lookup(file.Name)
			if !ok {
				continue
			}
			if pd.EntryID == file.Details.EntryID && pd.IsTree == file.Details.IsTree {
				matchedParent = true
				break
			}
		}
		if matchedParent {
			continue
		}

		if file.Details.IsTree {
			// walkTree already appends its own future to result.SubEntries
			// (every non-root tree does), so the future it returns is not
			// appended again here.
			if _, err := w.walkTree(ctx, bundle2push.DirectoryPath(childPath), bundle2push.HgManifestID(file.Details.EntryID), result, depth+1); err != nil {
				return nil, err
			}
			continue
		}

		fileKey := bundle2push.NodeKey{Path: bundle2push.FilePath(childPath), Hash: file.Details.EntryID}
		cb, ok := w.contentBlobs[fileKey]
		if !ok {
			return nil, errcode.ErrorCodeMissingBlob.WithArgs(fmt.Sprintf("%s@%s", fileKey.Path, fileKey.Hash))
		}
		result.ContentBlobs = append(result.ContentBlobs, cb)
		if ff, ok := w.fileScheduler.Get(fileKey); ok {
			result.SubEntries = append(result.SubEntries, ff)
		}
	}

	return f, nil
}

// bundledParentContents decodes the tree content reachable at path under
// entry's own P1 and P2 pointers, looking each up in this same push's
// bundled manifests map rather than round-tripping to the repo. A parent
// revision that wasn't itself resent in this push — the common case, since
// it already existed before the push started — simply yields no content
// to compare against, and every child of entry is walked as new.
func (w *Walker) bundledParentContents(path bundle2push.RepoPath, entry wire.TreeEntry) []bundle2push.ManifestContent {
	var contents []bundle2push.ManifestContent
	for _, p := range []bundle2push.HgManifestID{entry.P1, entry.P2} {
		if bundle2push.HgNodeHash(p) == bundle2push.NullHash || p == "" {
			continue
		}
		parent, ok := w.trees[bundle2push.NodeKey{Path: path, Hash: bundle2push.HgNodeHash(p)}]
		if !ok {
			continue
		}
		mc, err := wire.DecodeManifestContent(parent.Raw)
		if err != nil {
			continue
		}
		contents = append(contents, mc)
	}
	return contents
}
