// Package emoji defines the emoji data model: records, groups, and the
// immutable catalog built once at startup.
package emoji

// Record is a single emoji known to the catalog.
type Record struct {
	Name     string   // unique key, lower-case display name (e.g. "waving hand")
	Glyph    string   // default presentation
	Group    string   // owning group title
	Tones    []string // skin-tone renderings indexed by rank; Tones[0] is always the base glyph
	Keywords []string // search terms, lower-case
}

// HasTones reports whether the record carries real skin-tone variants
// beyond the base glyph.
func (r Record) HasTones() bool {
	return len(r.Tones) > 1
}

// GlyphForTone returns the rendering for the given tone rank. Records
// without a variant at that rank fall back to rank 0 (the base glyph),
// never to the nearest rank.
func (r Record) GlyphForTone(rank int) string {
	if rank > 0 && rank < len(r.Tones) {
		return r.Tones[rank]
	}
	if len(r.Tones) > 0 {
		return r.Tones[0]
	}
	return r.Glyph
}

// Group is an ordered set of records sharing a category title.
type Group struct {
	Title   string
	Icon    string // example glyph shown in the category bar
	Records []Record
}
