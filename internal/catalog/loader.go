package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"time"

	"poirec/pkg/logger"
	"poirec/pkg/metrics"
)

// Load reads every source once and builds an immutable Catalog.
//
// Embeddings, metadata and names are required: any failure is returned as a
// *LoadError (wrapping a *SchemaError when columns are missing). The landmark
// source is optional; when it is absent or unusable the catalog simply has
// no landmarks.
//
// Metadata is deduplicated by identifier keeping the first row seen.
// Landmark rows override name, category and location of metadata POIs they
// match.
func Load(ctx context.Context, src Sources) (*Catalog, error) {
	log := logger.With("catalog")
	start := time.Now()

	if src.Embeddings == nil || src.Metadata == nil || src.Names == nil {
		return nil, &LoadError{Source: "sources", Err: errors.New("embedding, metadata and name sources are required")}
	}

	embeddings, err := src.Embeddings.LoadEmbeddings(ctx)
	if err != nil {
		return nil, asLoadError("embeddings", err)
	}
	meta, err := src.Metadata.LoadRecords(ctx)
	if err != nil {
		return nil, asLoadError("metadata", err)
	}
	names, err := src.Names.LoadRecords(ctx)
	if err != nil {
		return nil, asLoadError("names", err)
	}

	var landmarks []Record
	if src.Landmarks != nil {
		landmarks, err = src.Landmarks.LoadRecords(ctx)
		switch {
		case err == nil:
		case errors.Is(err, fs.ErrNotExist):
			log.Info().Msg("no landmark source, curated landmarks disabled")
		default:
			log.Warn().Err(err).Msg("landmark source unusable, curated landmarks disabled")
			landmarks = nil
		}
	}

	c, stats, err := build(embeddings, meta, names, landmarks)
	if err != nil {
		return nil, err
	}

	metrics.CatalogSize.WithLabelValues("embedded").Set(float64(c.Len()))
	metrics.CatalogSize.WithLabelValues("metadata").Set(float64(c.metadata))
	metrics.CatalogSize.WithLabelValues("landmarks").Set(float64(len(c.landmarks)))
	metrics.CatalogLoadDuration.Observe(time.Since(start).Seconds())

	log.Info().
		Int("embedded", c.Len()).
		Int("dimension", c.dim).
		Int("metadata", c.metadata).
		Int("duplicates_dropped", stats.duplicates).
		Int("without_location", stats.noLocation).
		Int("named", stats.named).
		Int("landmarks", len(c.landmarks)).
		Int("landmarks_unmatched", stats.landmarksUnmatched).
		Dur("took", time.Since(start)).
		Msg("catalog loaded")

	return c, nil
}

func asLoadError(source string, err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		return err
	}
	return &LoadError{Source: source, Err: err}
}

type buildStats struct {
	duplicates         int
	noLocation         int
	named              int
	landmarksUnmatched int
}

func build(embeddings []EmbeddingRecord, meta, names, landmarks []Record) (*Catalog, buildStats, error) {
	var stats buildStats
	c := &Catalog{
		pois:     make(map[string]*POI, len(embeddings)+len(meta)),
		embedded: make([]string, 0, len(embeddings)),
	}

	for _, m := range meta {
		if _, seen := c.pois[m.ID]; seen {
			stats.duplicates++
			continue
		}
		if m.Location == nil {
			stats.noLocation++
		}
		c.pois[m.ID] = &POI{ID: m.ID, Category: m.Category, Location: m.Location}
	}
	c.metadata = len(c.pois)
	inMetadata := make(map[string]bool, c.metadata)
	for id := range c.pois {
		inMetadata[id] = true
	}

	for _, e := range embeddings {
		if len(e.Vector) == 0 {
			return nil, stats, &LoadError{Source: "embeddings", Err: fmt.Errorf("empty vector for %q", e.ID)}
		}
		if c.dim == 0 {
			c.dim = len(e.Vector)
		} else if len(e.Vector) != c.dim {
			return nil, stats, &LoadError{Source: "embeddings",
				Err: fmt.Errorf("vector for %q has %d dimensions, expected %d", e.ID, len(e.Vector), c.dim)}
		}
		for i, v := range e.Vector {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, stats, &LoadError{Source: "embeddings",
					Err: fmt.Errorf("vector for %q has non-finite component %d (%v)", e.ID, i, v)}
			}
		}

		p, ok := c.pois[e.ID]
		if !ok {
			p = &POI{ID: e.ID}
			c.pois[e.ID] = p
		}
		if p.Embedding != nil {
			continue
		}
		p.Embedding = e.Vector
		c.embedded = append(c.embedded, e.ID)
	}

	for _, n := range names {
		p, ok := c.pois[n.ID]
		if !ok || n.Name == "" || p.Name != "" {
			continue
		}
		p.Name = n.Name
		stats.named++
	}

	seen := make(map[string]bool, len(landmarks))
	for _, l := range landmarks {
		if !inMetadata[l.ID] {
			stats.landmarksUnmatched++
			continue
		}
		if seen[l.ID] {
			continue
		}
		p := c.pois[l.ID]
		seen[l.ID] = true
		if l.Name != "" {
			p.Name = l.Name
		}
		if l.Category != "" {
			p.Category = l.Category
		}
		if l.Location != nil {
			p.Location = l.Location
		}
		c.landmarks = append(c.landmarks, l.ID)
	}

	for _, p := range c.pois {
		if p.Name == "" {
			p.Name = p.ID
		}
	}

	return c, stats, nil
}

// FromRecords builds a catalog from already-parsed records, applying the same
// merge rules as Load.
func FromRecords(embeddings []EmbeddingRecord, meta, names, landmarks []Record) (*Catalog, error) {
	c, _, err := build(embeddings, meta, names, landmarks)
	return c, err
}
