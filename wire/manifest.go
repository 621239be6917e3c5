package wire

import (
	"bytes"
	"fmt"

	"github.com/hgserve/bundle2push"
)

// DecodeManifestContent parses a tree-manifest revision's raw flat-entry
// body into structured ManifestContent. Mercurial's manifest format is one
// line per entry: "<name>\x00<40-hex-char-node><flag>\n", where flag is
// empty for a regular file and "t" for a tree (subdirectory). The decoder
// deliberately stops there — it has nothing to do with the bundle2
// envelope's own framing, varints, or compression, which stay the wire
// codec's concern.
func DecodeManifestContent(raw []byte) (bundle2push.ManifestContent, error) {
	var mc bundle2push.ManifestContent
	for _, line := range bytes.Split(raw, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		sep := bytes.IndexByte(line, 0)
		if sep < 0 {
			return bundle2push.ManifestContent{}, fmt.Errorf("wire: manifest entry missing nul separator")
		}
		name := string(line[:sep])
		rest := line[sep+1:]
		if len(rest) < 40 {
			return bundle2push.ManifestContent{}, fmt.Errorf("wire: manifest entry %q has truncated node hash", name)
		}
		hash := bundle2push.HgNodeHash(rest[:40])
		isTree := len(rest) > 40 && rest[40] == 't'

		mc.Files = append(mc.Files, bundle2push.ManifestFileEntry{
			Name: bundle2push.MPath(name),
			Details: bundle2push.Details{
				EntryID: hash,
				IsTree:  isTree,
			},
		})
	}
	return mc, nil
}

// EncodeManifestContent is the inverse of DecodeManifestContent, used by
// tests that need to synthesize a tree-manifest chunk.
func EncodeManifestContent(mc bundle2push.ManifestContent) []byte {
	var buf bytes.Buffer
	for _, f := range mc.Files {
		buf.WriteString(string(f.Name))
		buf.WriteByte(0)
		buf.WriteString(string(f.Details.EntryID))
		if f.Details.IsTree {
			buf.WriteByte('t')
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
