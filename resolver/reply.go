package resolver

import (
	"context"

	"github.com/hgserve/bundle2push"
)

// buildPushReply assembles the reply for a plain push: one changegroup
// acknowledgement plus one pushkey acknowledgement per bookmark pushkey
// resolved, all reporting the same outcome since commitBookmarkPushes
// applies every pushkey as a single transaction.
func (r *bundle2Resolver) buildPushReply(ctx context.Context, bookmarksOK bool) ([]byte, error) {
	bundle := r.deps.ReplyEncoder.NewBundle()

	if err := bundle.AddReplyChangegroupPart(r.changegroupPartID, 0); err != nil {
		return nil, err
	}
	for _, bp := range r.bookmarkPushes {
		if err := bundle.AddReplyPushkeyPart(bp.partID, bookmarksOK); err != nil {
			return nil, err
		}
	}
	for _, part := range r.replyParts {
		if err := bundle.AddPart(part); err != nil {
			return nil, err
		}
	}

	return bundle.Build()
}

// buildPushrebaseReply assembles the reply for a pushrebase: the
// changegroup acknowledgement plus the rebased-changegroup part the client
// needs to fast-forward onto the new head.
func (r *bundle2Resolver) buildPushrebaseReply(ctx context.Context, newHead bundle2push.HgChangesetID) ([]byte, error) {
	bundle := r.deps.ReplyEncoder.NewBundle()

	if err := bundle.AddReplyChangegroupPart(r.changegroupPartID, 0); err != nil {
		return nil, err
	}

	if r.deps.GetBundleBuilder != nil {
		part, err := r.deps.GetBundleBuilder.BuildChangegroupPart(ctx, r.commonHeads.Heads, []bundle2push.HgChangesetID{newHead}, r.deps.LCAHint)
		if err != nil {
			return nil, err
		}
		if err := bundle.AddPart(part); err != nil {
			return nil, err
		}
	}

	return bundle.Build()
}
