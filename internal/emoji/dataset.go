package emoji

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

// The bundled dataset is the only emoji source: a static asset compiled
// into the binary and loaded once.
//
//go:embed dataset.json
var rawDataset []byte

// DatasetBytes returns the raw bundled dataset. The index uses it both
// as import source and to fingerprint the materialized database.
func DatasetBytes() []byte {
	return rawDataset
}

type datasetFile struct {
	Groups []datasetGroup `json:"groups"`
}

type datasetGroup struct {
	Title string         `json:"title"`
	Icon  string         `json:"icon"`
	Emoji []datasetEmoji `json:"emoji"`
}

type datasetEmoji struct {
	Name     string   `json:"name"`
	Glyph    string   `json:"glyph"`
	Keywords []string `json:"keywords"`
	Tones    []string `json:"tones"`
}

// ParseDataset decodes the bundled dataset into normalized groups.
// Normalization guarantees the Record invariants: tone rank 0 is the base
// glyph (prepended when the dataset omits it), keywords and names are
// lower-cased, and group display order is the dataset order.
func ParseDataset() ([]Group, error) {
	return parseDataset(rawDataset)
}

func parseDataset(data []byte) ([]Group, error) {
	var file datasetFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if len(file.Groups) == 0 {
		return nil, fmt.Errorf("dataset has no groups")
	}

	groups := make([]Group, 0, len(file.Groups))
	for _, dg := range file.Groups {
		if dg.Title == "" {
			return nil, fmt.Errorf("dataset group with empty title")
		}
		g := Group{
			Title:   dg.Title,
			Icon:    dg.Icon,
			Records: make([]Record, 0, len(dg.Emoji)),
		}
		for _, de := range dg.Emoji {
			if de.Name == "" || de.Glyph == "" {
				return nil, fmt.Errorf("group %q: emoji with empty name or glyph", dg.Title)
			}
			r := Record{
				Name:     strings.ToLower(de.Name),
				Glyph:    de.Glyph,
				Group:    dg.Title,
				Keywords: lowerAll(de.Keywords),
			}
			r.Tones = normalizeTones(de.Glyph, de.Tones)
			g.Records = append(g.Records, r)
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// normalizeTones ensures rank 0 is the base glyph. A record without
// variant data still gets a single-element tone list so rank lookups
// never index an empty slice.
func normalizeTones(glyph string, tones []string) []string {
	if len(tones) == 0 {
		return []string{glyph}
	}
	if tones[0] != glyph {
		normalized := make([]string, 0, len(tones)+1)
		normalized = append(normalized, glyph)
		normalized = append(normalized, tones...)
		return normalized
	}
	out := make([]string, len(tones))
	copy(out, tones)
	return out
}

func lowerAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(w)
	}
	return out
}
