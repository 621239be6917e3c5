package main

import (
	"context"

	"github.com/hgserve/bundle2push"
	"github.com/hgserve/bundle2push/wire"
)

// HandleFunc resolves one push bundle, as produced by decoding a client
// connection down to the wire.Source boundary.
type HandleFunc func(ctx context.Context, heads []bundle2push.HgChangesetID, items wire.Source) ([]byte, error)

// Transport accepts incoming push connections and, for each one, decodes
// it down to a wire.Source and invokes handle. Speaking the actual
// Mercurial wire protocol — SSH or HTTP, with its own framing, varints,
// and compression — is the external wire codec's job and stays out of
// this module; Transport is the seam a concrete listener plugs into.
type Transport interface {
	Serve(ctx context.Context, handle HandleFunc) error
}
