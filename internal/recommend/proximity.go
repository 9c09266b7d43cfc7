package recommend

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"poirec/internal/catalog"
	"poirec/pkg/logger"
	"poirec/pkg/metrics"
)

// Policy selects which POIs are candidates for proximity recommendations.
type Policy string

const (
	// PolicyKeyword picks POIs whose category mentions a tourist keyword.
	PolicyKeyword Policy = "keyword"
	// PolicyLandmark picks POIs from the curated landmark list.
	PolicyLandmark Policy = "landmark"
)

var DefaultKeywords = []string{"tourist", "museum", "park", "gallery", "zoo", "monument", "memorial", "castle", "temple"}

func (p Policy) Valid() bool {
	return p == PolicyKeyword || p == PolicyLandmark
}

func (p Policy) label() string {
	if p == PolicyLandmark {
		return "Famous landmark"
	}
	return "Tourist spot"
}

type ProximityResult struct {
	POI        catalog.POI
	DistanceKm float64
	Reason     string
}

// Nearby sorts candidates by great-circle distance from origin and returns
// the first k. Candidates without a location are skipped, and so are those
// farther than radiusKm when it is set. Ties keep candidate order. The
// result is never nil.
func Nearby(origin catalog.Location, candidates []catalog.POI, k int, radiusKm *float64) []ProximityResult {
	start := time.Now()
	out := make([]ProximityResult, 0, len(candidates))
	if k < 1 {
		return out
	}

	for _, c := range candidates {
		d, err := distanceBetween(&origin, c.Location)
		if err != nil {
			metrics.CandidatesSkipped.WithLabelValues("missing_location").Inc()
			logger.Debug().Str("poi", c.ID).Err(err).Msg("skipping proximity candidate")
			continue
		}
		if radiusKm != nil && d > *radiusKm {
			metrics.CandidatesSkipped.WithLabelValues("outside_radius").Inc()
			continue
		}
		out = append(out, ProximityResult{POI: c, DistanceKm: d})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})
	if len(out) > k {
		out = out[:k]
	}

	metrics.ObserveQuery("nearby", start, len(out))
	return out
}

// ProximityFilter builds candidate sets from the catalog and runs Nearby
// over them.
type ProximityFilter struct {
	catalog  *catalog.Catalog
	keywords []string
	radiusKm float64
}

// NewProximityFilter uses DefaultKeywords when keywords is empty. A
// radiusKm <= 0 disables the keyword policy radius.
func NewProximityFilter(c *catalog.Catalog, keywords []string, radiusKm float64) *ProximityFilter {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	lower := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lower = append(lower, k)
		}
	}
	return &ProximityFilter{catalog: c, keywords: lower, radiusKm: radiusKm}
}

// KeywordCandidates returns, in catalog order, POIs with an embedding and a
// location whose category contains one of the keywords.
func (f *ProximityFilter) KeywordCandidates() []catalog.POI {
	var out []catalog.POI
	f.catalog.Range(func(p catalog.POI) bool {
		if p.HasLocation() && f.matchesKeyword(p.Category) {
			out = append(out, p)
		}
		return true
	})
	return out
}

func (f *ProximityFilter) matchesKeyword(category string) bool {
	if category == "" {
		return false
	}
	c := strings.ToLower(category)
	for _, k := range f.keywords {
		if strings.Contains(c, k) {
			return true
		}
	}
	return false
}

// LandmarkCandidates returns curated landmarks that have a location, in
// landmark list order.
func (f *ProximityFilter) LandmarkCandidates() []catalog.POI {
	var out []catalog.POI
	for _, id := range f.catalog.Landmarks() {
		if p, ok := f.catalog.Lookup(id); ok && p.HasLocation() {
			out = append(out, p)
		}
	}
	return out
}

// Find runs Nearby over the candidates of policy. The keyword policy is
// bounded by the configured radius; landmarks are not.
func (f *ProximityFilter) Find(policy Policy, origin catalog.Location, k int) []ProximityResult {
	var (
		candidates []catalog.POI
		radius     *float64
	)
	switch policy {
	case PolicyLandmark:
		candidates = f.LandmarkCandidates()
	default:
		candidates = f.KeywordCandidates()
		if f.radiusKm > 0 {
			r := f.radiusKm
			radius = &r
		}
	}

	results := Nearby(origin, candidates, k, radius)
	for i := range results {
		results[i].Reason = fmt.Sprintf("%s (%.2f km away)", policy.label(), results[i].DistanceKm)
	}
	return results
}
