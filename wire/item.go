// Package wire defines the parsed, Go-level shape of a bundle2 push
// stream. Framing, varint lengths, and part-payload compression are owned
// by an external codec and never modeled here; wire.Item is the boundary
// that codec hands control across once it has decoded one part's header
// and payload into the corresponding Body type below.
package wire

import (
	"github.com/hgserve/bundle2push"
)

// PartHeader is the decoded header of one bundle2 part: its wire id, its
// type name, and its mandatory ("mparams", must be understood by the
// receiver) and advisory ("aparams", safe to ignore) parameters.
type PartHeader struct {
	PartID    uint32
	Type      string
	Mandatory map[string]string
	Advisory  map[string]string
}

// Param looks up a parameter by name, checking mandatory params first.
func (h PartHeader) Param(name string) (string, bool) {
	if v, ok := h.Mandatory[name]; ok {
		return v, true
	}
	v, ok := h.Advisory[name]
	return v, ok
}

// Part type names, as they appear on the wire.
const (
	TypeReplycaps             = "replycaps"
	TypeCommonHeads           = "b2x:commonheads"
	TypePushvars              = "pushvars"
	TypeChangegroup           = "changegroup"
	TypeInfinitepush          = "b2x:infinitepush"
	TypeRebase                = "b2x:rebase"
	TypePushkey               = "pushkey"
	TypeTreegroup2            = "b2x:treegroup2"
	TypeRebasePack            = "b2x:rebasepack"
	TypeInfinitepushBookmarks = "b2x:infinitepushbookmarks"
)

// ChangegroupAliases are the part types that carry a changegroup payload
// under a different name depending on which push flow produced them.
var ChangegroupAliases = map[string]bool{
	TypeChangegroup:  true,
	TypeInfinitepush: true,
	TypeRebase:       true,
}

// TreegroupAliases are the part types that carry a tree-manifest group
// payload under a different name.
var TreegroupAliases = map[string]bool{
	TypeTreegroup2: true,
	TypeRebasePack: true,
}

// Body is the decoded payload of one part. The concrete type is determined
// by the part's Type and asserted by the resolver's handler for that part.
type Body interface {
	bodyMarker()
}

// Item is one fully decoded part: its header plus its typed payload.
type Item struct {
	Header PartHeader
	Body   Body
}

// StartBody carries the bundle2 stream-level parameters read before any
// part header — the stream's own "start" line, not itself a part.
type StartBody struct {
	Compression  string
	StreamParams map[string]string
}

// ReplycapsBody advertises what kinds of reply parts the client can accept.
type ReplycapsBody struct {
	Capabilities map[string][]string
}

func (ReplycapsBody) bodyMarker() {}

// CommonHeadsBody lists the heads the client and server already share,
// present only on a pushrebase bundle.
type CommonHeadsBody struct {
	Heads []bundle2push.HgChangesetID
}

func (CommonHeadsBody) bodyMarker() {}

// PushvarsBody carries opaque client-supplied key/value pairs threaded
// through to hooks.
type PushvarsBody struct {
	Vars map[string][]byte
}

func (PushvarsBody) bodyMarker() {}

// PushkeyBody is one pushkey update request: set Key to New in Namespace,
// expecting its current value to be Old.
type PushkeyBody struct {
	Namespace string
	Key       string
	Old       string
	New       string
}

func (PushkeyBody) bodyMarker() {}

// InfinitepushBookmarksBody carries a batch of scratch-bookmark updates
// pushed alongside an infinitepush changegroup.
type InfinitepushBookmarksBody struct {
	Bookmarks map[string]bundle2push.HgChangesetID
}

func (InfinitepushBookmarksBody) bodyMarker() {}
