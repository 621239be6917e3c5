package bundle2push

import (
	"fmt"
	"regexp"
)

// Bookmark is a validated Mercurial bookmark name.
type Bookmark struct {
	name string
}

// bookmarkPattern rejects the empty name and names containing whitespace or
// the characters Mercurial itself refuses in a bookmark: ':' separates
// namespace from name on the wire, and control bytes aren't printable.
var bookmarkPattern = regexp.MustCompile(`^[^\s:\x00-\x1f]+$`)

// NewBookmark validates name and returns the corresponding Bookmark.
func NewBookmark(name string) (Bookmark, error) {
	if !bookmarkPattern.MatchString(name) {
		return Bookmark{}, fmt.Errorf("invalid bookmark name %q", name)
	}
	return Bookmark{name: name}, nil
}

// NewBookmarkAscii constructs a Bookmark from a name already known to be a
// validated ascii wire parameter, skipping re-validation.
func NewBookmarkAscii(name string) Bookmark {
	return Bookmark{name: name}
}

// String returns the bookmark's name.
func (b Bookmark) String() string { return b.name }

// Empty reports whether b is the zero Bookmark.
func (b Bookmark) Empty() bool { return b.name == "" }
