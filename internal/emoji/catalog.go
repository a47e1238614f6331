package emoji

import "fmt"

// Catalog is the full name→record index built once from all groups during
// startup. It is never mutated after construction, so it is safe to share
// across the controller and any async commands without locking.
type Catalog struct {
	groups []Group
	byName map[string]Record
}

// NewCatalog builds a catalog from loaded groups. Record names must be
// unique across all groups.
func NewCatalog(groups []Group) (*Catalog, error) {
	c := &Catalog{
		groups: groups,
		byName: make(map[string]Record),
	}
	for _, g := range groups {
		for _, r := range g.Records {
			if _, dup := c.byName[r.Name]; dup {
				return nil, fmt.Errorf("duplicate emoji name %q", r.Name)
			}
			c.byName[r.Name] = r
		}
	}
	return c, nil
}

// Lookup returns the record for a name.
func (c *Catalog) Lookup(name string) (Record, bool) {
	r, ok := c.byName[name]
	return r, ok
}

// Group returns the group with the given title.
func (c *Catalog) Group(title string) (Group, bool) {
	for _, g := range c.groups {
		if g.Title == title {
			return g, true
		}
	}
	return Group{}, false
}

// Groups returns all groups in display order.
func (c *Catalog) Groups() []Group {
	return c.groups
}

// Len returns the total number of records.
func (c *Catalog) Len() int {
	return len(c.byName)
}

// Resolve maps records (typically search results) back to full catalog
// records by name. Names unknown to the catalog are dropped silently:
// a stale index entry is not an error.
func (c *Catalog) Resolve(records []Record) []Record {
	resolved := make([]Record, 0, len(records))
	for _, r := range records {
		if full, ok := c.byName[r.Name]; ok {
			resolved = append(resolved, full)
		}
	}
	return resolved
}
