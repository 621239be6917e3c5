package resolver

import (
	"context"

	"github.com/hgserve/bundle2push"
)

// resolvePush drives a plain push bundle: no commonheads part, so every
// bookmark move goes through an explicit pushkey rather than the
// pushrebase engine.
func (r *bundle2Resolver) resolvePush(ctx context.Context) ([]byte, error) {
	if err := r.maybeResolvePushvars(ctx); err != nil {
		return nil, err
	}

	body, err := r.maybeResolveChangegroup(ctx)
	if err != nil {
		return nil, err
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
	if _, err := r.maybeResolveInfinitepushBookmarks(ctx); err != nil {
		return nil, err
	}
	if err := r.ensureStreamFinished(ctx); err != nil {
		return nil, err
	}

	onto := r.firstBookmarkTarget()
	if err := r.runHooks(ctx, onto); err != nil {
		return nil, err
	}

	if err := r.commitBookmarkPushes(ctx); err != nil {
		return nil, err
	}

	return r.buildPushReply(ctx, true)
}

func (r *bundle2Resolver) firstBookmarkTarget() (onto bundle2push.Bookmark) {
	if len(r.bookmarkPushes) == 0 {
		return bundle2push.Bookmark{}
	}
	return r.bookmarkPushes[0].name
}
