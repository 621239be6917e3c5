package resolver

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hgserve/bundle2push"
	"github.com/hgserve/bundle2push/api/errcode"
	"github.com/hgserve/bundle2push/wire"
	"github.com/hgserve/bundle2push/walker"
)

// resolveFilelogs schedules every filelog revision's upload under the
// changegroup's EnsureNoDuplicates policy and immediately registers a
// content-blob record for it — the record is known as soon as the wire
// chunk is decoded, well before the upload future resolves.
func (r *bundle2Resolver) resolveFilelogs(ctx context.Context, body *wire.ChangegroupBody) error {
	for path, chunks := range body.Filelogs {
		for _, chunk := range chunks {
			key := bundle2push.NodeKey{Path: bundle2push.FilePath(path), Hash: chunk.NodeID}
			if _, err := r.fileScheduler.Schedule(ctx, key, func(ctx context.Context) (bundle2push.BlobEntry, error) {
				return r.deps.Repo.UploadFilelogBlob(ctx, key, chunk.Raw)
			}); err != nil {
				return err
			}
			r.contentBlobs[key] = bundle2push.ContentBlobInfo{
				Key:       key,
				ContentID: string(chunk.NodeID),
				Size:      int64(len(chunk.Raw)),
			}
		}
	}
	return nil
}

// resolveChangesets folds the changegroup's changeset list in wire order —
// parent always precedes child — wiring each one's parent handles and
// manifest walk before issuing CreateChangeset. CreateChangeset is expected
// to return its handle without blocking on derivation completing, so the
// fold itself never waits on upload or derivation work; only the following
// concurrent Wait pass does.
func (r *bundle2Resolver) resolveChangesets(ctx context.Context, body *wire.ChangegroupBody) error {
	w := walker.New(r.deps.Repo, r.treeEntries, r.treeScheduler, r.fileScheduler, r.contentBlobs)

	for _, cs := range body.Changesets {
		p1Handle, err := r.resolveParentHandle(ctx, cs.P1)
		if err != nil {
			return err
		}
		p2Handle, err := r.resolveParentHandle(ctx, cs.P2)
		if err != nil {
			return err
		}

		walkResult, err := w.NewBlobs(ctx, bundle2push.HgManifestID(cs.ManifestNode))
		if err != nil {
			return err
		}

		handle, err := r.deps.Repo.CreateChangeset(ctx, bundle2push.CreateChangesetRequest{
			ExpectedNodeID: cs.NodeID,
			P1:             p1Handle,
			P2:             p2Handle,
			RootManifest:   walkResult.Root,
			SubEntries:     walkResult.SubEntries,
			ContentBlobs:   walkResult.ContentBlobs,
			Metadata:       cs.Metadata,
		})
		if err != nil {
			return errcode.ErrorCodeUploadFailure.WithArgs(err)
		}

		r.changesets[cs.NodeID] = handle
		r.changesetOrder = append(r.changesetOrder, cs.NodeID)

		r.deps.Metrics.RecordPerChangeset(len(walkResult.SubEntries), len(body.Filelogs), len(walkResult.ContentBlobs))
	}

	r.deps.Metrics.AddChangesets(len(body.Changesets))
	return r.awaitChangesets(ctx)
}

// resolveParentHandle resolves a changeset's parent to a handle, either
// from earlier in this same fold or, if the parent lies outside the push,
// from the repo directly.
func (r *bundle2Resolver) resolveParentHandle(ctx context.Context, parent bundle2push.HgChangesetID) (bundle2push.ChangesetHandle, error) {
	if bundle2push.HgNodeHash(parent) == bundle2push.NullHash || parent == "" {
		return nil, nil
	}
	if h, ok := r.changesets[parent]; ok {
		return h, nil
	}
	h, err := r.deps.Repo.ResolvedChangeset(ctx, parent)
	if err != nil {
		return nil, errcode.ErrorCodeParentResolution.WithArgs(parent)
	}
	return h, nil
}

// awaitChangesets concurrently waits on every changeset handle issued this
// fold, surfacing the first error encountered.
func (r *bundle2Resolver) awaitChangesets(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, id := range r.changesetOrder {
		handle := r.changesets[id]
		id := id
		g.Go(func() error {
			if _, err := handle.Wait(ctx); err != nil {
				return fmt.Errorf("deriving changeset %s: %w", id, err)
			}
			return nil
		})
	}
	return g.Wait()
}
