package index

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { ix.Close() })
	return ix
}

func TestOpen_Materializes(t *testing.T) {
	dir := t.TempDir()
	ix, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ix.Close()

	if _, err := os.Stat(ix.Path()); err != nil {
		t.Errorf("materialized file missing: %v", err)
	}
	if filepath.Dir(ix.Path()) != dir {
		t.Errorf("materialized file outside index dir: %s", ix.Path())
	}

	groups, err := ix.Groups()
	if err != nil {
		t.Fatalf("Groups: %v", err)
	}
	if len(groups) == 0 {
		t.Fatal("no groups after import")
	}
	for _, g := range groups {
		if g.Title == "" || g.Icon == "" {
			t.Errorf("group with empty title or icon: %+v", g)
		}
	}
}

func TestOpen_ReusesMaterializedFile(t *testing.T) {
	dir := t.TempDir()

	first, err := Open(dir)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	path := first.Path()
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Second open against the same dir must reuse the fingerprinted file.
	second, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer second.Close()

	if second.Path() != path {
		t.Errorf("second open used %s, want %s", second.Path(), path)
	}
	groups, err := second.Groups()
	if err != nil {
		t.Fatalf("Groups after reuse: %v", err)
	}
	if len(groups) == 0 {
		t.Error("reused index has no groups")
	}
}

func TestLoadGroup(t *testing.T) {
	ix := openTestIndex(t)

	records, err := ix.LoadGroup("People & Body")
	if err != nil {
		t.Fatalf("LoadGroup: %v", err)
	}
	if len(records) == 0 {
		t.Fatal("People & Body is empty")
	}

	// Display order is stable: "waving hand" is first in the dataset.
	if records[0].Name != "waving hand" {
		t.Errorf("first record = %q, want waving hand", records[0].Name)
	}

	for _, r := range records {
		if len(r.Tones) == 0 {
			t.Errorf("record %q has no tone rank 0", r.Name)
			continue
		}
		if r.Tones[0] != r.Glyph {
			t.Errorf("record %q: Tones[0] = %q, want %q", r.Name, r.Tones[0], r.Glyph)
		}
	}
}

func TestLoadGroup_UnknownTitle(t *testing.T) {
	ix := openTestIndex(t)

	records, err := ix.LoadGroup("No Such Category")
	if err != nil {
		t.Fatalf("LoadGroup: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("unknown group returned %d records, want 0", len(records))
	}
}

func TestSearch(t *testing.T) {
	ix := openTestIndex(t)

	tests := []struct {
		name      string
		query     string
		wantFirst string
		wantSome  bool
	}{
		{"exact keyword ranks first", "wave", "waving hand", true},
		{"keyword prefix", "grin", "grinning face", true},
		{"substring matches", "anan", "banana", true},
		{"case insensitive", "PIZZA", "pizza", true},
		{"surrounding space trimmed", "  fire  ", "fire", true},
		{"no match", "zzzzqqqq", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ix.Search(tt.query)
			if err != nil {
				t.Fatalf("Search(%q): %v", tt.query, err)
			}
			if !tt.wantSome {
				if len(records) != 0 {
					t.Errorf("Search(%q) returned %d records, want 0", tt.query, len(records))
				}
				return
			}
			if len(records) == 0 {
				t.Fatalf("Search(%q) returned no records", tt.query)
			}
			if records[0].Name != tt.wantFirst {
				t.Errorf("Search(%q) first = %q, want %q", tt.query, records[0].Name, tt.wantFirst)
			}
		})
	}
}

func TestSearch_ShortQuery(t *testing.T) {
	ix := openTestIndex(t)

	for _, query := range []string{"", "a", " g "} {
		records, err := ix.Search(query)
		if err != nil {
			t.Errorf("Search(%q): %v", query, err)
		}
		if len(records) != 0 {
			t.Errorf("Search(%q) returned %d records, want 0 for short query", query, len(records))
		}
	}
}

func TestSearch_LikeWildcardsEscaped(t *testing.T) {
	ix := openTestIndex(t)

	// A bare "%" would match everything if passed through unescaped.
	records, err := ix.Search("%%")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("wildcard query matched %d records, want 0", len(records))
	}
}

func TestClose_Idempotent(t *testing.T) {
	ix, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := ix.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := ix.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestQueriesAfterClose_DataUnavailable(t *testing.T) {
	ix, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ix.Close()

	if _, err := ix.LoadGroup("Objects"); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("LoadGroup after close: err = %v, want ErrDataUnavailable", err)
	}
	if _, err := ix.Search("fire"); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("Search after close: err = %v, want ErrDataUnavailable", err)
	}
	if _, err := ix.Groups(); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("Groups after close: err = %v, want ErrDataUnavailable", err)
	}
}
