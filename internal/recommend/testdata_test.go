package recommend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"poirec/internal/catalog"
)

func loc(lat, lon float64) *catalog.Location {
	return &catalog.Location{Lat: lat, Lon: lon}
}

// scenarioCatalog is the three-POI catalog used by the ranking examples.
func scenarioCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.FromRecords(
		[]catalog.EmbeddingRecord{
			{ID: "A", Vector: []float64{1, 0}},
			{ID: "B", Vector: []float64{0.9, 0.1}},
			{ID: "C", Vector: []float64{0, 1}},
		},
		[]catalog.Record{
			{ID: "A", Category: "Bar", Location: loc(40.0, -73.0)},
			{ID: "B", Category: "Bar", Location: loc(40.001, -73.001)},
			{ID: "C", Category: "Museum", Location: loc(41.0, -74.0)},
		},
		nil, nil,
	)
	require.NoError(t, err)
	return c
}
