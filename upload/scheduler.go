package upload

import (
	"context"
	"fmt"
	"sync"

	"github.com/hgserve/bundle2push"
	"github.com/hgserve/bundle2push/api/errcode"
	"github.com/hgserve/bundle2push/future"
)

// Func performs one blob's upload and returns the resulting blob entry.
type Func func(ctx context.Context) (bundle2push.BlobEntry, error)

// Scheduler deduplicates concurrent uploads by NodeKey under a single
// policy. A changegroup part's filelogs and a treegroup2 part's tree
// entries each get their own Scheduler, since the two parts enforce
// different duplicate policies.
type Scheduler struct {
	policy Policy

	mu      sync.Mutex
	pending map[bundle2push.NodeKey]*future.Future[bundle2push.BlobEntry]
}

// NewScheduler returns a Scheduler enforcing policy.
func NewScheduler(policy Policy) *Scheduler {
	return &Scheduler{
		policy:  policy,
		pending: make(map[bundle2push.NodeKey]*future.Future[bundle2push.BlobEntry]),
	}
}

// Schedule registers fn as the upload for key. If key has already been
// scheduled, behavior follows the scheduler's Policy: EnsureNoDuplicates
// returns ErrorCodeDuplicateUpload; IgnoreDuplicates returns the existing
// future without invoking fn again.
func (s *Scheduler) Schedule(ctx context.Context, key bundle2push.NodeKey, fn Func) (*future.Future[bundle2push.BlobEntry], error) {
	s.mu.Lock()
	if existing, ok := s.pending[key]; ok {
		s.mu.Unlock()
		if s.policy == EnsureNoDuplicates {
			return nil, errcode.ErrorCodeDuplicateUpload.WithArgs(fmt.Sprintf("%s@%s", key.Path, key.Hash))
		}
		return existing, nil
	}

	f := future.New[bundle2push.BlobEntry]()
	s.pending[key] = f
	s.mu.Unlock()

	future.Go(f, func() (bundle2push.BlobEntry, error) {
		entry, err := fn(ctx)
		if err != nil {
			return bundle2push.BlobEntry{}, errcode.ErrorCodeUploadFailure.WithArgs(err)
		}
		return entry, nil
	})

	return f, nil
}

// Futures returns every future scheduled so far, in no particular order.
// Callers that need wire order should track their own slice as they
// schedule rather than relying on this.
func (s *Scheduler) Futures() []*future.Future[bundle2push.BlobEntry] {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*future.Future[bundle2push.BlobEntry], 0, len(s.pending))
	for _, f := range s.pending {
		out = append(out, f)
	}
	return out
}

// Get returns the future already scheduled for key, if any.
func (s *Scheduler) Get(key bundle2push.NodeKey) (*future.Future[bundle2push.BlobEntry], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.pending[key]
	return f, ok
}
