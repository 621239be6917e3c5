package wire

import (
	"context"
	"errors"
)

// ErrNoPutback is returned by Putback when an earlier putback item is still
// pending, that is, when Putback is called twice without an intervening
// Next.
var ErrNoPutback = errors.New("wire: putback with no pending item")

// Source is the Part Reader: a one-item-lookahead cursor over a decoded
// bundle2 stream. Handlers pull parts with Next and, when a part turns out
// to belong to the next state rather than the current one, push it back
// with Putback so the next handler sees it first. At most one item is ever
// materialized ahead of the cursor.
type Source interface {
	// ReadStart consumes and returns the stream-level start line. It must
	// be called exactly once, before the first Next.
	ReadStart(ctx context.Context) (StartBody, error)

	// Next returns the next item, or (nil, nil) at end of stream.
	Next(ctx context.Context) (*Item, error)

	// Putback returns item to the front of the stream, to be the result
	// of the very next Next call. It may only be called once between two
	// calls to Next.
	Putback(item *Item) error
}

// SliceSource is a Source backed by an in-memory slice of already-decoded
// items, for use in tests and by any in-process caller that has already
// done the wire decoding itself.
type SliceSource struct {
	start    StartBody
	items    []*Item
	pos      int
	pushback *Item
	started  bool
}

// NewSliceSource returns a Source that replays start followed by items.
func NewSliceSource(start StartBody, items []*Item) *SliceSource {
	return &SliceSource{start: start, items: items}
}

// ReadStart implements Source.
func (s *SliceSource) ReadStart(ctx context.Context) (StartBody, error) {
	s.started = true
	return s.start, nil
}

// Next implements Source.
func (s *SliceSource) Next(ctx context.Context) (*Item, error) {
	if s.pushback != nil {
		item := s.pushback
		s.pushback = nil
		return item, nil
	}
	if s.pos >= len(s.items) {
		return nil, nil
	}
	item := s.items[s.pos]
	s.pos++
	return item, nil
}

// Putback implements Source.
func (s *SliceSource) Putback(item *Item) error {
	if s.pushback != nil {
		return ErrNoPutback
	}
	s.pushback = item
	return nil
}
