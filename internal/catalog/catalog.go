// Package catalog holds the read-only reference data the recommender works
// on: POI metadata, display names, curated landmarks and embedding vectors.
//
// A Catalog is built once by Load and never mutated afterwards, so a single
// instance can be shared by every request without locking.
package catalog

import (
	"sort"
	"strings"
)

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the coordinate lies within WGS84 bounds.
func (l Location) Valid() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lon >= -180 && l.Lon <= 180
}

// POI is a single catalog entry. Embedding is shared with the catalog and
// must be treated as read-only.
type POI struct {
	ID        string
	Name      string
	Category  string
	Location  *Location
	Embedding []float64
}

func (p POI) HasEmbedding() bool {
	return len(p.Embedding) > 0
}

func (p POI) HasLocation() bool {
	return p.Location != nil
}

// CategoryOrUnknown is the category label used for display.
func (p POI) CategoryOrUnknown() string {
	if p.Category == "" {
		return "Unknown"
	}
	return p.Category
}

type Catalog struct {
	pois      map[string]*POI
	embedded  []string // embedding source order
	landmarks []string // curated list order
	metadata  int
	dim       int
}

// Lookup returns the POI known under id, whether it came from metadata,
// the embedding source or both.
func (c *Catalog) Lookup(id string) (POI, bool) {
	p, ok := c.pois[id]
	if !ok {
		return POI{}, false
	}
	return *p, true
}

// AllWithEmbedding returns the identifiers eligible for ranking in catalog
// iteration order.
func (c *Catalog) AllWithEmbedding() []string {
	out := make([]string, len(c.embedded))
	copy(out, c.embedded)
	return out
}

// Range calls fn for every POI with an embedding in catalog order until fn
// returns false.
func (c *Catalog) Range(fn func(p POI) bool) {
	for _, id := range c.embedded {
		if !fn(*c.pois[id]) {
			return
		}
	}
}

// Landmarks returns the curated landmark identifiers that are also present
// in metadata, in landmark source order.
func (c *Catalog) Landmarks() []string {
	out := make([]string, len(c.landmarks))
	copy(out, c.landmarks)
	return out
}

// Len is the number of POIs with an embedding.
func (c *Catalog) Len() int {
	return len(c.embedded)
}

// MetadataLen is the number of distinct POIs read from the metadata source.
func (c *Catalog) MetadataLen() int {
	return c.metadata
}

// Dimension is the shared embedding length.
func (c *Catalog) Dimension() int {
	return c.dim
}

// Selectable lists the POIs that can be picked as a query: every POI with an
// embedding, sorted by display name then identifier.
func (c *Catalog) Selectable() []POI {
	out := make([]POI, 0, len(c.embedded))
	c.Range(func(p POI) bool {
		out = append(out, p)
		return true
	})
	sort.SliceStable(out, func(i, j int) bool {
		ni, nj := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if ni != nj {
			return ni < nj
		}
		return out[i].ID < out[j].ID
	})
	return out
}
