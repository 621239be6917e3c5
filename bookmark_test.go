package bundle2push

import "testing"

func TestNewBookmarkValidNames(t *testing.T) {
	for _, name := range []string{"master", "scratch/foo-bar", "release/1.2.3"} {
		if _, err := NewBookmark(name); err != nil {
			t.Errorf("expected %q to be valid, got error: %v", name, err)
		}
	}
}

func TestNewBookmarkRejectsInvalidNames(t *testing.T) {
	for _, name := range []string{"", "has space", "colon:name", "\ttab"} {
		if _, err := NewBookmark(name); err == nil {
			t.Errorf("expected %q to be rejected", name)
		}
	}
}

func TestMPathNumComponents(t *testing.T) {
	cases := map[MPath]int{
		"":          0,
		"a":         1,
		"a/b":       2,
		"a/b/c/d/e": 5,
	}
	for path, want := range cases {
		if got := path.NumComponents(); got != want {
			t.Errorf("NumComponents(%q) = %d, want %d", path, got, want)
		}
	}
}

func TestManifestContentLookup(t *testing.T) {
	mc := ManifestContent{Files: []ManifestFileEntry{
		{Name: "a", Details: Details{EntryID: "x"}},
	}}
	if _, ok := mc.Lookup("missing"); ok {
		t.Fatal("expected missing lookup to fail")
	}
	d, ok := mc.Lookup("a")
	if !ok || d.EntryID != "x" {
		t.Fatalf("unexpected lookup result: %+v, %v", d, ok)
	}
}
