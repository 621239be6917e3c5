package resolver

import (
	"context"

	"github.com/hgserve/bundle2push"
	"github.com/hgserve/bundle2push/wire"
)

// resolveStartAndReplycaps consumes the mandatory replycaps part. It must
// be the first part on every bundle, push or pushrebase alike.
func (r *bundle2Resolver) resolveStartAndReplycaps(ctx context.Context) error {
	item, err := r.items.Next(ctx)
	if err != nil {
		return err
	}
	if item == nil {
		return protocolShapeErr("bundle ended before replycaps part")
	}
	if _, ok := item.Body.(wire.ReplycapsBody); !ok {
		return protocolShapeErr("expected replycaps as first part, got %s", item.Header.Type)
	}
	return nil
}

// maybeResolveCommonHeads consumes a b2x:commonheads part if present. Its
// presence is what distinguishes a pushrebase bundle from a plain push.
func (r *bundle2Resolver) maybeResolveCommonHeads(ctx context.Context) (*wire.CommonHeadsBody, error) {
	item, err := r.items.Next(ctx)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, protocolShapeErr("bundle ended before changegroup part")
	}
	body, ok := item.Body.(wire.CommonHeadsBody)
	if !ok {
		if err := r.items.Putback(item); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return &body, nil
}

// maybeResolvePushvars consumes a pushvars part if present, recording its
// key/value pairs for later hook invocations.
func (r *bundle2Resolver) maybeResolvePushvars(ctx context.Context) error {
	item, err := r.items.Next(ctx)
	if err != nil {
		return err
	}
	if item == nil {
		return protocolShapeErr("bundle ended before changegroup part")
	}
	body, ok := item.Body.(wire.PushvarsBody)
	if !ok {
		return r.items.Putback(item)
	}
	r.pushvars = body.Vars
	return nil
}

// maybeResolveChangegroup consumes the mandatory changegroup-shaped part
// (changegroup, b2x:infinitepush, or b2x:rebase — the three wire names a
// changegroup payload can arrive under) and records its part id and onto
// bookmark. Uploading its filelogs and folding its changesets is done
// afterwards by resolveFilelogs and resolveChangesets.
func (r *bundle2Resolver) maybeResolveChangegroup(ctx context.Context) (*wire.ChangegroupBody, error) {
	item, err := r.items.Next(ctx)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, protocolShapeErr("bundle ended before changegroup part")
	}
	if !wire.ChangegroupAliases[item.Header.Type] {
		return nil, protocolShapeErr("expected a changegroup-shaped part, got %s", item.Header.Type)
	}
	body, ok := item.Body.(wire.ChangegroupBody)
	if !ok {
		return nil, protocolShapeErr("part %s declared changegroup type but carried a different body", item.Header.Type)
	}
	r.changegroupPartID = item.Header.PartID

	if onto, ok := item.Header.Param("onto"); ok {
		bm, err := bundle2push.NewBookmark(onto)
		if err != nil {
			return nil, protocolShapeErr("invalid onto bookmark: %v", err)
		}
		r.onto = bm
	}

	return &body, nil
}

// resolveB2xTreegroup2 consumes the optional tree-manifest group part
// (b2x:treegroup2 or b2x:rebasepack) and keeps its entries for the
// manifest walk, which schedules each walked tree's upload under the
// IgnoreDuplicates policy — tree manifests are legitimately shared between
// sibling changesets within one push.
func (r *bundle2Resolver) resolveB2xTreegroup2(ctx context.Context) error {
	item, err := r.items.Next(ctx)
	if err != nil {
		return err
	}
	if item == nil {
		return nil
	}
	if !wire.TreegroupAliases[item.Header.Type] {
		return r.items.Putback(item)
	}
	body, ok := item.Body.(wire.TreegroupBody)
	if !ok {
		return protocolShapeErr("part %s declared treegroup type but carried a different body", item.Header.Type)
	}
	r.treeEntries = body.Entries
	return nil
}

// resolveMultipleParts drains every consecutive part matching partType,
// applying fn to each, and stops at the first part that doesn't match
// (putting it back for the next handler).
func resolveMultipleParts[T wire.Body](ctx context.Context, r *bundle2Resolver, partType string, fn func(wire.PartHeader, T) error) error {
	for {
		item, err := r.items.Next(ctx)
		if err != nil {
			return err
		}
		if item == nil {
			return nil
		}
		if item.Header.Type != partType {
			return r.items.Putback(item)
		}
		body, ok := item.Body.(T)
		if !ok {
			return protocolShapeErr("part %s carried an unexpected body type", item.Header.Type)
		}
		if err := fn(item.Header, body); err != nil {
			return err
		}
	}
}

// maybeResolvePushkey drains every pushkey part, recording each one in the
// bookmarks namespace as a bookmark push request to resolve once changesets
// are in hand. Phases pushkeys are ignored; any other namespace is fatal.
func (r *bundle2Resolver) maybeResolvePushkey(ctx context.Context) error {
	return resolveMultipleParts(ctx, r, wire.TypePushkey, func(hdr wire.PartHeader, body wire.PushkeyBody) error {
		switch body.Namespace {
		case "bookmarks":
			bm, err := bundle2push.NewBookmark(body.Key)
			if err != nil {
				return protocolShapeErr("invalid bookmark name in pushkey: %v", err)
			}
			r.bookmarkPushes = append(r.bookmarkPushes, bookmarkPush{
				partID: hdr.PartID,
				name:   bm,
				old:    body.Old,
				new:    body.New,
			})
			return nil
		case "phases":
			return nil
		default:
			return protocolShapeErr("unknown pushkey namespace %q", body.Namespace)
		}
	})
}

// maybeResolveInfinitepushBookmarks consumes the optional scratch-bookmark
// batch part carried alongside an infinitepush changegroup.
func (r *bundle2Resolver) maybeResolveInfinitepushBookmarks(ctx context.Context) (map[string]bundle2push.HgChangesetID, error) {
	item, err := r.items.Next(ctx)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	body, ok := item.Body.(wire.InfinitepushBookmarksBody)
	if !ok {
		return nil, r.items.Putback(item)
	}
	return body.Bookmarks, nil
}

// ensureStreamFinished confirms no unexpected parts remain once every
// handler this flow calls for has run.
func (r *bundle2Resolver) ensureStreamFinished(ctx context.Context) error {
	item, err := r.items.Next(ctx)
	if err != nil {
		return err
	}
	if item != nil {
		return protocolShapeErr("unexpected trailing part %s", item.Header.Type)
	}
	return nil
}

// bookmarkPush is an unresolved bookmark pushkey: the CAS is expressed in
// Mercurial node-hash hex, not yet mapped to bonsai ids.
type bookmarkPush struct {
	partID uint32
	name   bundle2push.Bookmark
	old    string
	new    string
}
