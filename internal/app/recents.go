package app

import (
	"github.com/marcus/glyphpick/internal/emoji"
	"github.com/marcus/glyphpick/internal/picker"
	"github.com/marcus/glyphpick/internal/recent"
)

// recentGroupTitle is the synthetic category backed by the recents
// store instead of the index.
const recentGroupTitle = "Recent"

// recentSearcher decorates the index-backed searcher with the Recent
// pseudo-category. Names from the store that the catalog no longer
// knows are dropped silently.
type recentSearcher struct {
	picker.Searcher
	catalog *emoji.Catalog
	recents *recent.Store
}

func (r *recentSearcher) LoadGroup(title string) ([]emoji.Record, error) {
	if title != recentGroupTitle {
		return r.Searcher.LoadGroup(title)
	}

	names, err := r.recents.List(0)
	if err != nil {
		return nil, err
	}
	stubs := make([]emoji.Record, 0, len(names))
	for _, name := range names {
		stubs = append(stubs, emoji.Record{Name: name})
	}
	return r.catalog.Resolve(stubs), nil
}
