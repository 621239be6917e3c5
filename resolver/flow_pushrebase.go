package resolver

import (
	"context"

	"github.com/hgserve/bundle2push"
	"github.com/hgserve/bundle2push/api/errcode"
)

// resolvePushrebase drives a pushrebase bundle: commonheads was present,
// so the changegroup's bookmark move is delegated to the pushrebase
// engine instead of an explicit pushkey — a pushrebase bundle is only
// permitted to move the "onto" bookmark it itself names.
func (r *bundle2Resolver) resolvePushrebase(ctx context.Context) ([]byte, error) {
	if err := r.maybeResolvePushvars(ctx); err != nil {
		return nil, err
	}

	body, err := r.maybeResolveChangegroup(ctx)
	if err != nil {
		return nil, err
	}
	if r.onto.Empty() {
		return nil, protocolShapeErr("pushrebase bundle missing onto bookmark")
	}

	if err := r.resolveFilelogs(ctx, body); err != nil {
		return nil, err
	}
	if err := r.resolveB2xTreegroup2(ctx); err != nil {
		return nil, err
	}
	if err := r.resolveChangesets(ctx, body); err != nil {
		return nil, err
	}

	if err := r.maybeResolvePushkey(ctx); err != nil {
		return nil, err
	}
	for _, bp := range r.bookmarkPushes {
		if bp.name.String() != r.onto.String() {
			return nil, errcode.ErrorCodeBookmarkMismatch.WithArgs(bp.name.String())
		}
	}
	if err := r.ensureStreamFinished(ctx); err != nil {
		return nil, err
	}

	if err := r.runHooks(ctx, r.onto); err != nil {
		return nil, err
	}

	handles := make([]bundle2push.ChangesetHandle, 0, len(r.changesetOrder))
	for _, id := range r.changesetOrder {
		handles = append(handles, r.changesets[id])
	}

	result, err := r.deps.Pushrebase.DoPushrebase(ctx, r.deps.Repo, bundle2push.PushrebaseParams{}, r.onto, handles, r.pushvars)
	if err != nil {
		return nil, errcode.ErrorCodePushrebase.WithArgs(err.Error())
	}

	newHead, err := r.deps.Repo.HgFromBonsai(ctx, result.Head)
	if err != nil {
		return nil, err
	}

	return r.buildPushrebaseReply(ctx, newHead)
}
