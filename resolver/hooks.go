package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/hgserve/bundle2push"
	"github.com/hgserve/bundle2push/api/errcode"
)

// runHooks runs every configured changeset- and file-level hook against
// the pushed changesets for onto, in wire order, and fails with
// ErrorCodeHookRejection carrying every rejection if any hook rejects. A
// nil HookManager means no hooks are configured, and this is a no-op.
func (r *bundle2Resolver) runHooks(ctx context.Context, onto bundle2push.Bookmark) error {
	if r.deps.Hooks == nil || onto.Empty() {
		return nil
	}

	var rejections []string

	for _, csID := range r.changesetOrder {
		csExecs, err := r.deps.Hooks.RunChangesetHooksForBookmark(ctx, csID, onto, r.pushvars)
		if err != nil {
			return errcode.ErrorCodeHookRejection.WithArgs(err.Error())
		}
		for id, exec := range csExecs {
			if !exec.Accepted {
				rejections = append(rejections, fmt.Sprintf("%s for %s: %s", id.HookName, id.CSID, exec.Description))
			}
		}

		fileExecs, err := r.deps.Hooks.RunFileHooksForBookmark(ctx, csID, onto, r.pushvars)
		if err != nil {
			return errcode.ErrorCodeHookRejection.WithArgs(err.Error())
		}
		for id, exec := range fileExecs {
			if !exec.Accepted {
				rejections = append(rejections, fmt.Sprintf("%s for %s: %s", id.HookName, id.CSID, exec.Description))
			}
		}
	}

	if len(rejections) > 0 {
		return errcode.ErrorCodeHookRejection.WithArgs(strings.Join(rejections, "\n"))
	}
	return nil
}
