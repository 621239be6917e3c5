package bundle2push

import "context"

// ReplyPart is an opaque outbound bundle2 part built by an external
// collaborator (most often GetBundleResponseBuilder) and handed to a
// BundleEncoder for inclusion in the reply. The resolver never inspects
// its contents; it only schedules which parts go into the reply and in
// what order.
type ReplyPart interface{}

// BundleEncoder accumulates reply parts and serializes the outbound
// bundle2 stream. It is the encoder-side mirror of wire.Source: both sit
// at the boundary the byte-level wire codec owns.
type BundleEncoder interface {
	// AddReplyChangegroupPart records that the pushed changegroup at
	// partID was applied, along with how many new heads it introduced
	// relative to the request.
	AddReplyChangegroupPart(partID uint32, newHeadsCount int) error

	// AddReplyPushkeyPart records the outcome of one pushkey update.
	AddReplyPushkeyPart(partID uint32, success bool) error

	// AddPart appends an arbitrary externally-built part, such as a
	// changegroup part from GetBundleResponseBuilder.
	AddPart(part ReplyPart) error

	// Build serializes the accumulated parts into an outbound bundle2
	// byte stream.
	Build() ([]byte, error)
}

// Encoder constructs a fresh BundleEncoder for one reply.
type Encoder interface {
	NewBundle() BundleEncoder
}

// GetBundleResponseBuilder builds the changegroup part a pushrebase reply
// echoes back to the client: the rebased changesets the client doesn't yet
// have, expressed relative to what it declared as common.
type GetBundleResponseBuilder interface {
	BuildChangegroupPart(
		ctx context.Context,
		common []HgChangesetID,
		heads []HgChangesetID,
		lcaHint LCAHint,
	) (ReplyPart, error)
}
