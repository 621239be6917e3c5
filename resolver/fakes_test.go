package resolver

import (
	"context"
	"fmt"
	"sync"

	"github.com/hgserve/bundle2push"
)

type fakeChangesetHandle struct {
	id  bundle2push.ChangesetID
	err error
}

func (h fakeChangesetHandle) Wait(ctx context.Context) (bundle2push.ChangesetID, error) {
	return h.id, h.err
}

type fakeRepo struct {
	mu sync.Mutex

	nextBonsai int
	hgToBonsai map[bundle2push.HgChangesetID]bundle2push.ChangesetID
	bonsaiToHg map[bundle2push.ChangesetID]bundle2push.HgChangesetID

	rootManifestByChangeset map[bundle2push.HgChangesetID]bundle2push.HgManifestID

	bookmarks map[string]bundle2push.ChangesetID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		hgToBonsai:              make(map[bundle2push.HgChangesetID]bundle2push.ChangesetID),
		bonsaiToHg:              make(map[bundle2push.ChangesetID]bundle2push.HgChangesetID),
		rootManifestByChangeset: make(map[bundle2push.HgChangesetID]bundle2push.HgManifestID),
		bookmarks:               make(map[string]bundle2push.ChangesetID),
	}
}

func (r *fakeRepo) UploadFilelogBlob(ctx context.Context, key bundle2push.NodeKey, raw []byte) (bundle2push.BlobEntry, error) {
	return bundle2push.BlobEntry{Hash: key.Hash, Path: key.Path}, nil
}

func (r *fakeRepo) UploadTreeManifestBlob(ctx context.Context, key bundle2push.NodeKey, raw []byte) (bundle2push.BlobEntry, error) {
	return bundle2push.BlobEntry{Hash: key.Hash, Path: key.Path}, nil
}

func (r *fakeRepo) ResolvedChangeset(ctx context.Context, id bundle2push.HgChangesetID) (bundle2push.ChangesetHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bonsai, ok := r.hgToBonsai[id]
	if !ok {
		return nil, fmt.Errorf("fakeRepo: unknown changeset %s", id)
	}
	return fakeChangesetHandle{id: bonsai}, nil
}

func (r *fakeRepo) CreateChangeset(ctx context.Context, req bundle2push.CreateChangesetRequest) (bundle2push.ChangesetHandle, error) {
	manifestID, err := r.resolveRequestManifestID(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.RootManifest != nil {
		if _, err := req.RootManifest.Wait(ctx); err != nil {
			return nil, err
		}
	}
	for _, f := range req.SubEntries {
		if _, err := f.Wait(ctx); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextBonsai++
	bonsai := bundle2push.ChangesetID(fmt.Sprintf("bonsai-%d", r.nextBonsai))
	r.hgToBonsai[req.ExpectedNodeID] = bonsai
	r.bonsaiToHg[bonsai] = req.ExpectedNodeID
	r.rootManifestByChangeset[req.ExpectedNodeID] = manifestID

	return fakeChangesetHandle{id: bonsai}, nil
}

func (r *fakeRepo) resolveRequestManifestID(ctx context.Context, req bundle2push.CreateChangesetRequest) (bundle2push.HgManifestID, error) {
	if req.RootManifest != nil {
		entry, err := req.RootManifest.Wait(ctx)
		if err != nil {
			return "", err
		}
		return bundle2push.HgManifestID(entry.Hash), nil
	}
	// Unchanged from a parent: borrow that parent's manifest id.
	for _, handle := range []bundle2push.ChangesetHandle{req.P1, req.P2} {
		if handle == nil {
			continue
		}
		bonsai, err := handle.Wait(ctx)
		if err != nil {
			continue
		}
		r.mu.Lock()
		hg, ok := r.bonsaiToHg[bonsai]
		m := r.rootManifestByChangeset[hg]
		r.mu.Unlock()
		if ok {
			return m, nil
		}
	}
	return "", nil
}

func (r *fakeRepo) BonsaiFromHg(ctx context.Context, id bundle2push.HgChangesetID) (bundle2push.ChangesetID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bonsai, ok := r.hgToBonsai[id]
	if !ok {
		return "", fmt.Errorf("fakeRepo: unknown hg changeset %s", id)
	}
	return bonsai, nil
}

func (r *fakeRepo) HgFromBonsai(ctx context.Context, id bundle2push.ChangesetID) (bundle2push.HgChangesetID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	hg, ok := r.bonsaiToHg[id]
	if !ok {
		return "", fmt.Errorf("fakeRepo: unknown bonsai changeset %s", id)
	}
	return hg, nil
}

func (r *fakeRepo) GetBookmark(ctx context.Context, name bundle2push.Bookmark) (*bundle2push.HgChangesetID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bonsai, ok := r.bookmarks[name.String()]
	if !ok {
		return nil, nil
	}
	hg := r.bonsaiToHg[bonsai]
	return &hg, nil
}

func (r *fakeRepo) NewBookmarkTransaction(ctx context.Context) bundle2push.BookmarkTransaction {
	return &fakeBookmarkTxn{repo: r}
}

type bookmarkOp struct {
	kind string // "create", "update", "delete"
	name bundle2push.Bookmark
	new  bundle2push.ChangesetID
	old  bundle2push.ChangesetID
}

type fakeBookmarkTxn struct {
	repo *fakeRepo
	ops  []bookmarkOp
}

func (t *fakeBookmarkTxn) Create(name bundle2push.Bookmark, new bundle2push.ChangesetID) error {
	t.ops = append(t.ops, bookmarkOp{kind: "create", name: name, new: new})
	return nil
}

func (t *fakeBookmarkTxn) Update(name bundle2push.Bookmark, new, old bundle2push.ChangesetID) error {
	t.ops = append(t.ops, bookmarkOp{kind: "update", name: name, new: new, old: old})
	return nil
}

func (t *fakeBookmarkTxn) Delete(name bundle2push.Bookmark, old bundle2push.ChangesetID) error {
	t.ops = append(t.ops, bookmarkOp{kind: "delete", name: name, old: old})
	return nil
}

func (t *fakeBookmarkTxn) Commit(ctx context.Context) (bool, error) {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	for _, op := range t.ops {
		current, exists := t.repo.bookmarks[op.name.String()]
		switch op.kind {
		case "create":
			if exists {
				return false, nil
			}
		case "update":
			if !exists || current != op.old {
				return false, nil
			}
		case "delete":
			if !exists || current != op.old {
				return false, nil
			}
		}
	}

	for _, op := range t.ops {
		switch op.kind {
		case "create", "update":
			t.repo.bookmarks[op.name.String()] = op.new
		case "delete":
			delete(t.repo.bookmarks, op.name.String())
		}
	}
	return true, nil
}

type fakeEncoder struct{}

func (fakeEncoder) NewBundle() bundle2push.BundleEncoder { return &fakeBundleEncoder{} }

type fakeBundleEncoder struct {
	parts []bundle2push.ReplyPart
}

func (b *fakeBundleEncoder) AddReplyChangegroupPart(partID uint32, newHeadsCount int) error {
	b.parts = append(b.parts, fmt.Sprintf("changegroup-reply:%d:%d", partID, newHeadsCount))
	return nil
}

func (b *fakeBundleEncoder) AddReplyPushkeyPart(partID uint32, success bool) error {
	b.parts = append(b.parts, fmt.Sprintf("pushkey-reply:%d:%v", partID, success))
	return nil
}

func (b *fakeBundleEncoder) AddPart(part bundle2push.ReplyPart) error {
	b.parts = append(b.parts, part)
	return nil
}

func (b *fakeBundleEncoder) Build() ([]byte, error) {
	return []byte(fmt.Sprintf("%v", b.parts)), nil
}

type fakePushrebase struct {
	head bundle2push.ChangesetID
	err  error
}

func (p fakePushrebase) DoPushrebase(
	ctx context.Context,
	repo bundle2push.BlobRepo,
	params bundle2push.PushrebaseParams,
	onto bundle2push.Bookmark,
	changesets []bundle2push.ChangesetHandle,
	pushvars map[string][]byte,
) (bundle2push.PushrebaseResult, error) {
	if p.err != nil {
		return bundle2push.PushrebaseResult{}, p.err
	}
	return bundle2push.PushrebaseResult{Head: p.head}, nil
}

type fakeHooks struct {
	rejectDescription string
}

func (h fakeHooks) RunChangesetHooksForBookmark(ctx context.Context, cs bundle2push.HgChangesetID, onto bundle2push.Bookmark, pushvars map[string][]byte) (map[bundle2push.ChangesetHookExecutionID]bundle2push.HookExecution, error) {
	if h.rejectDescription == "" {
		return nil, nil
	}
	id := bundle2push.ChangesetHookExecutionID{HookName: "no-fixme", CSID: cs}
	return map[bundle2push.ChangesetHookExecutionID]bundle2push.HookExecution{
		id: {Accepted: false, Description: h.rejectDescription},
	}, nil
}

func (h fakeHooks) RunFileHooksForBookmark(ctx context.Context, cs bundle2push.HgChangesetID, onto bundle2push.Bookmark, pushvars map[string][]byte) (map[bundle2push.FileHookExecutionID]bundle2push.HookExecution, error) {
	return nil, nil
}
