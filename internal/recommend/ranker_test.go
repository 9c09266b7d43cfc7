package recommend

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poirec/internal/catalog"
)

func TestRank_ScenarioSameCategoryNearby(t *testing.T) {
	r := NewRanker(scenarioCatalog(t))

	got, err := r.Rank("A", 2)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].POI.ID)
	assert.Equal(t, "C", got[1].POI.ID)
	assert.Equal(t, []string{ReasonSameCategory, ReasonNearby}, got[0].Reasons)
	assert.Equal(t, "same category, nearby", got[0].Reason())
	assert.Equal(t, []string{ReasonEmbedding}, got[1].Reasons)
	assert.Equal(t, 0.994, got[0].RoundedScore())
	assert.Zero(t, got[1].Score)
}

func TestRank_UnknownPOI(t *testing.T) {
	r := NewRanker(scenarioCatalog(t))

	got, err := r.Rank("nope", 3)

	assert.ErrorIs(t, err, ErrUnknownPOI)
	assert.Nil(t, got)
}

func TestRank_MetadataOnlyQueryIsUnknown(t *testing.T) {
	c, err := catalog.FromRecords(
		[]catalog.EmbeddingRecord{{ID: "A", Vector: []float64{1}}},
		[]catalog.Record{{ID: "M", Category: "Park", Location: loc(1, 1)}},
		nil, nil,
	)
	require.NoError(t, err)

	_, err = NewRanker(c).Rank("M", 1)
	assert.ErrorIs(t, err, ErrUnknownPOI)
}

func TestRank_InvalidK(t *testing.T) {
	_, err := NewRanker(scenarioCatalog(t)).Rank("A", 0)
	assert.ErrorIs(t, err, ErrInvalidK)
}

func TestRank_TiesKeepCatalogOrder(t *testing.T) {
	c, err := catalog.FromRecords(
		[]catalog.EmbeddingRecord{
			{ID: "q", Vector: []float64{1, 0}},
			{ID: "t3", Vector: []float64{2, 0}},
			{ID: "t1", Vector: []float64{1, 0}},
			{ID: "zero", Vector: []float64{0, 0}},
			{ID: "t2", Vector: []float64{3, 0}},
		},
		nil, nil, nil,
	)
	require.NoError(t, err)

	got, err := NewRanker(c).Rank("q", 10)
	require.NoError(t, err)

	ids := make([]string, len(got))
	for i, g := range got {
		ids[i] = g.POI.ID
	}
	assert.Equal(t, []string{"t3", "t1", "t2", "zero"}, ids)
	assert.Zero(t, got[3].Score, "zero vectors score 0")
}

func TestRank_AbsentMetadataNeverMatches(t *testing.T) {
	c, err := catalog.FromRecords(
		[]catalog.EmbeddingRecord{{ID: "a", Vector: []float64{1}}, {ID: "b", Vector: []float64{1}}},
		nil, nil, nil,
	)
	require.NoError(t, err)

	got, err := NewRanker(c).Rank("a", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{ReasonEmbedding}, got[0].Reasons, "empty categories and missing locations give no reason")
}

func TestRank_ThresholdIsStrict(t *testing.T) {
	assert.True(t, isNearby(0))
	assert.True(t, isNearby(math.Nextafter(NearbyThresholdKm, 0)))
	assert.False(t, isNearby(NearbyThresholdKm))
}

func TestRank_NearbyAtOneKilometre(t *testing.T) {
	tests := map[string]struct {
		latDelta float64
		want     []string
	}{
		"just inside":  {latDelta: 0.0089, want: []string{ReasonSameCategory, ReasonNearby}},
		"just outside": {latDelta: 0.0091, want: []string{ReasonSameCategory}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c, err := catalog.FromRecords(
				[]catalog.EmbeddingRecord{{ID: "q", Vector: []float64{1, 0}}, {ID: "p", Vector: []float64{1, 0}}},
				[]catalog.Record{
					{ID: "q", Category: "Cafe", Location: &catalog.Location{Lat: 40.0, Lon: -73.0}},
					{ID: "p", Category: "Cafe", Location: &catalog.Location{Lat: 40.0 + tt.latDelta, Lon: -73.0}},
				},
				nil, nil,
			)
			require.NoError(t, err)

			got, err := NewRanker(c).Rank("q", 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got[0].Reasons)
		})
	}
}

func randomCatalog(t *testing.T, rng *rand.Rand, n, dim int) *catalog.Catalog {
	t.Helper()
	emb := make([]catalog.EmbeddingRecord, n)
	for i := range emb {
		v := make([]float64, dim)
		for j := range v {
			v[j] = float64(rng.Intn(5) - 2)
		}
		emb[i] = catalog.EmbeddingRecord{ID: fmt.Sprintf("p%03d", i), Vector: v}
	}
	c, err := catalog.FromRecords(emb, nil, nil, nil)
	require.NoError(t, err)
	return c
}

func TestRank_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 25; trial++ {
		n := 2 + rng.Intn(30)
		c := randomCatalog(t, rng, n, 4)
		r := NewRanker(c)
		ids := c.AllWithEmbedding()
		query := ids[rng.Intn(len(ids))]
		k := 1 + rng.Intn(40)

		got, err := r.Rank(query, k)
		require.NoError(t, err)

		assert.Len(t, got, min(k, n-1))
		for i, g := range got {
			assert.NotEqual(t, query, g.POI.ID)
			if i > 0 {
				assert.GreaterOrEqual(t, got[i-1].Score, g.Score)
			}
		}

		again, err := r.Rank(query, k)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	}
}
