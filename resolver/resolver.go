// Package resolver drives one push-bundle's resolution end to end: reading
// its parts in order, scheduling blob uploads, deriving changesets, running
// hooks, committing or rebasing the bookmark move, and building the reply
// bundle. It is the orchestration layer every other package in this module
// exists to support.
package resolver

import (
	"context"
	"fmt"

	"github.com/hgserve/bundle2push"
	"github.com/hgserve/bundle2push/api/errcode"
	"github.com/hgserve/bundle2push/internal/dcontext"
	"github.com/hgserve/bundle2push/metrics"
	"github.com/hgserve/bundle2push/upload"
	"github.com/hgserve/bundle2push/wire"
)

// Dependencies are the external collaborators one Resolve call is wired
// against. None of them are constructed by this package; they're supplied
// by the caller (typically cmd/bundle2resolverd, wiring a concrete repo,
// hook manager, and pushrebase engine).
type Dependencies struct {
	Repo             bundle2push.BlobRepo
	Pushrebase       bundle2push.PushrebaseEngine
	Hooks            bundle2push.HookManager
	LCAHint          bundle2push.LCAHint
	ReplyEncoder     bundle2push.Encoder
	GetBundleBuilder bundle2push.GetBundleResponseBuilder
	Metrics          *metrics.Recorder
}

// Resolve parses and applies one push bundle, returning the serialized
// reply bundle2 stream. heads is the set of heads the client announced it
// was pushing against; it is accepted for parity with the wire protocol's
// own signature but, like the upstream implementation this one is modeled
// on, is not otherwise consulted — commonheads and the bundle's own parts
// carry everything resolution actually needs.
func Resolve(ctx context.Context, deps Dependencies, heads []bundle2push.HgChangesetID, items wire.Source) ([]byte, error) {
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewRecorder()
	}

	r := &bundle2Resolver{
		deps:          deps,
		items:         items,
		fileScheduler: upload.NewScheduler(upload.EnsureNoDuplicates),
		treeScheduler: upload.NewScheduler(upload.IgnoreDuplicates),
		contentBlobs:  make(map[bundle2push.NodeKey]bundle2push.ContentBlobInfo),
		changesets:    make(map[bundle2push.HgChangesetID]bundle2push.ChangesetHandle),
	}

	start, err := items.ReadStart(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading bundle start: %w", err)
	}
	r.start = start

	if err := r.resolveStartAndReplycaps(ctx); err != nil {
		return nil, err
	}

	commonHeads, err := r.maybeResolveCommonHeads(ctx)
	if err != nil {
		return nil, err
	}
	r.pushrebase = commonHeads != nil
	r.commonHeads = commonHeads

	dcontext.GetLogger(ctx).Infof("resolving push bundle, pushrebase=%v", r.pushrebase)

	if r.pushrebase {
		return r.resolvePushrebase(ctx)
	}
	return r.resolvePush(ctx)
}

// bundle2Resolver accumulates state across one bundle's part-by-part
// resolution. It is created fresh per Resolve call and never reused.
type bundle2Resolver struct {
	deps  Dependencies
	items wire.Source

	start       wire.StartBody
	pushvars    map[string][]byte
	commonHeads *wire.CommonHeadsBody
	pushrebase  bool

	onto bundle2push.Bookmark

	fileScheduler *upload.Scheduler
	treeScheduler *upload.Scheduler
	contentBlobs  map[bundle2push.NodeKey]bundle2push.ContentBlobInfo

	changegroupPartID uint32
	changesetOrder    []bundle2push.HgChangesetID
	changesets        map[bundle2push.HgChangesetID]bundle2push.ChangesetHandle

	treeEntries []wire.TreeEntry

	bookmarkPushes []bookmarkPush

	replyParts []bundle2push.ReplyPart
}

func protocolShapeErr(format string, args ...interface{}) error {
	return errcode.ErrorCodeProtocolShape.WithArgs(fmt.Sprintf(format, args...))
}
