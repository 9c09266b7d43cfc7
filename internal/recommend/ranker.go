package recommend

import (
	"sort"
	"strings"
	"time"

	"poirec/internal/catalog"
	"poirec/pkg/metrics"
)

const (
	ReasonSameCategory = "same category"
	ReasonNearby       = "nearby"
	ReasonEmbedding    = "embedding similarity"

	// NearbyThresholdKm is the strict upper bound for the nearby reason.
	NearbyThresholdKm = 1.0
)

type RankedResult struct {
	POI     catalog.POI
	Score   float64
	Reasons []string
}

// RoundedScore is the score as displayed: three decimal places.
func (r RankedResult) RoundedScore() float64 {
	return round(r.Score, 3)
}

func (r RankedResult) Reason() string {
	return strings.Join(r.Reasons, ", ")
}

// Ranker scores catalog POIs against a query POI by embedding similarity.
type Ranker struct {
	catalog *catalog.Catalog
}

func NewRanker(c *catalog.Catalog) *Ranker {
	return &Ranker{catalog: c}
}

// Rank returns the k POIs most similar to queryID, excluding the query
// itself. Ties keep catalog order. Reasons are attached after ranking and
// never affect the order.
func (r *Ranker) Rank(queryID string, k int) ([]RankedResult, error) {
	if k < 1 {
		return nil, ErrInvalidK
	}
	query, ok := r.catalog.Lookup(queryID)
	if !ok || !query.HasEmbedding() {
		return nil, ErrUnknownPOI
	}
	start := time.Now()

	scored := make([]RankedResult, 0, r.catalog.Len())
	r.catalog.Range(func(p catalog.POI) bool {
		if p.ID != query.ID {
			scored = append(scored, RankedResult{POI: p, Score: CosineSimilarity(query.Embedding, p.Embedding)})
		}
		return true
	})

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > k {
		scored = scored[:k]
	}

	for i := range scored {
		scored[i].Reasons = r.reasons(query, scored[i].POI)
	}

	metrics.ObserveQuery("rank", start, len(scored))
	return scored, nil
}

func isNearby(km float64) bool {
	return km < NearbyThresholdKm
}

func (r *Ranker) reasons(query, candidate catalog.POI) []string {
	var out []string
	if query.Category != "" && query.Category == candidate.Category {
		out = append(out, ReasonSameCategory)
	}
	if d, err := distanceBetween(query.Location, candidate.Location); err == nil && isNearby(d) {
		out = append(out, ReasonNearby)
	}
	if len(out) == 0 {
		out = append(out, ReasonEmbedding)
	}
	return out
}
