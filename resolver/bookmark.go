package resolver

import (
	"context"

	"github.com/hgserve/bundle2push"
	"github.com/hgserve/bundle2push/api/errcode"
)

// resolveBonsaiID maps a possibly-empty hex hg changeset id to its bonsai
// id, preferring an in-flight handle from this push over a repo lookup.
func (r *bundle2Resolver) resolveBonsaiID(ctx context.Context, hex string) (*bundle2push.ChangesetID, error) {
	if hex == "" {
		return nil, nil
	}
	hgID := bundle2push.HgChangesetID(hex)
	if handle, ok := r.changesets[hgID]; ok {
		id, err := handle.Wait(ctx)
		if err != nil {
			return nil, err
		}
		return &id, nil
	}
	id, err := r.deps.Repo.BonsaiFromHg(ctx, hgID)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// commitBookmarkPushes applies every recorded pushkey bookmark CAS as a
// single bookmark transaction, following the (old,new) truth table:
// (Some,Some) updates, (None,Some) creates, (Some,None) deletes, and
// (None,None) is a no-op.
func (r *bundle2Resolver) commitBookmarkPushes(ctx context.Context) error {
	if len(r.bookmarkPushes) == 0 {
		return nil
	}

	txn := r.deps.Repo.NewBookmarkTransaction(ctx)

	for _, bp := range r.bookmarkPushes {
		oldID, err := r.resolveBonsaiID(ctx, bp.old)
		if err != nil {
			return err
		}
		newID, err := r.resolveBonsaiID(ctx, bp.new)
		if err != nil {
			return err
		}

		switch {
		case oldID != nil && newID != nil:
			err = txn.Update(bp.name, *newID, *oldID)
		case oldID == nil && newID != nil:
			err = txn.Create(bp.name, *newID)
		case oldID != nil && newID == nil:
			err = txn.Delete(bp.name, *oldID)
		default:
			err = nil
		}
		if err != nil {
			return errcode.ErrorCodeBookmarkTxn.WithDetail(err.Error())
		}
	}

	ok, err := txn.Commit(ctx)
	if err != nil {
		return errcode.ErrorCodeBookmarkTxn.WithDetail(err.Error())
	}
	if !ok {
		return errcode.ErrorCodeBookmarkTxn
	}

	r.deps.Metrics.AddBookmarkPushkeys(len(r.bookmarkPushes))
	return nil
}
