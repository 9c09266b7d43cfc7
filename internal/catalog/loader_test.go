package catalog

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const (
	embeddingsJSON = `{"A": [1, 0], "B": [0.9, 0.1], "C": [0, 1], "D": [0.5, 0.5]}`

	metadataCSV = "userId,venueId,venueCategoryId,venueCategory,latitude,longitude\n" +
		"u1,A,c1,Bar,40.0,-73.0\n" +
		"u2,B,c1,Bar,40.001,-73.001\n" +
		"u3,C,c2,Museum,41.0,-74.0\n" +
		"u4,A,c9,Cafe,10.0,10.0\n" +
		"u5,M,c3,Park,40.7,-73.9\n"

	namesCSV = "venueId,venueName\nA,Alpha Bar\nB,Beta Bar\nC,City Museum\n"
)

func fileSources(t *testing.T, landmarks string) Sources {
	t.Helper()
	dir := t.TempDir()
	src := Sources{
		Embeddings: EmbeddingFile(writeFile(t, dir, "emb.json", embeddingsJSON)),
		Metadata:   MetadataFile(writeFile(t, dir, "meta.csv", metadataCSV)),
		Names:      NamesFile(writeFile(t, dir, "names.csv", namesCSV)),
	}
	if landmarks != "" {
		src.Landmarks = LandmarkFile(writeFile(t, dir, "landmarks.csv", landmarks))
	}
	return src
}

func TestLoad_BuildsCatalog(t *testing.T) {
	c, err := Load(context.Background(), fileSources(t, ""))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C", "D"}, c.AllWithEmbedding())
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, 2, c.Dimension())
	assert.Equal(t, 4, c.MetadataLen())
	assert.Empty(t, c.Landmarks())

	a, ok := c.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, "Alpha Bar", a.Name)
	assert.Equal(t, "Bar", a.Category, "first metadata row wins")
	require.NotNil(t, a.Location)
	assert.Equal(t, Location{Lat: 40.0, Lon: -73.0}, *a.Location)
}

func TestLoad_EmbeddingWithoutMetadata(t *testing.T) {
	c, err := Load(context.Background(), fileSources(t, ""))
	require.NoError(t, err)

	d, ok := c.Lookup("D")
	require.True(t, ok)
	assert.Equal(t, "D", d.Name, "display name falls back to the identifier")
	assert.Equal(t, "Unknown", d.CategoryOrUnknown())
	assert.False(t, d.HasLocation())
	assert.True(t, d.HasEmbedding())
}

func TestLoad_MetadataWithoutEmbedding(t *testing.T) {
	c, err := Load(context.Background(), fileSources(t, ""))
	require.NoError(t, err)

	m, ok := c.Lookup("M")
	require.True(t, ok)
	assert.False(t, m.HasEmbedding())
	assert.NotContains(t, c.AllWithEmbedding(), "M")
}

func TestLoad_LandmarksEnrichMetadata(t *testing.T) {
	landmarks := "famous_poi_id,landmark_name,lat,lon\n" +
		"M,Central Park,40.785,-73.968\n" +
		"Z,Not In Metadata,1,1\n" +
		"D,Embedding Only,2,2\n" +
		"M,Duplicate,0,0\n"

	c, err := Load(context.Background(), fileSources(t, landmarks))
	require.NoError(t, err)

	assert.Equal(t, []string{"M"}, c.Landmarks())
	m, _ := c.Lookup("M")
	assert.Equal(t, "Central Park", m.Name)
	assert.Equal(t, "Park", m.Category)
	assert.Equal(t, Location{Lat: 40.785, Lon: -73.968}, *m.Location)
}

func TestLoad_LandmarkSchemaErrorDegrades(t *testing.T) {
	c, err := Load(context.Background(), fileSources(t, "foo,bar\n1,2\n"))
	require.NoError(t, err)
	assert.Empty(t, c.Landmarks())
}

func TestLoad_MissingLandmarkFileDegrades(t *testing.T) {
	src := fileSources(t, "")
	src.Landmarks = LandmarkFile(filepath.Join(t.TempDir(), "missing.csv"))

	c, err := Load(context.Background(), src)
	require.NoError(t, err)
	assert.Empty(t, c.Landmarks())
}

func TestLoad_RequiredSourceFailures(t *testing.T) {
	tests := map[string]struct {
		mutate     func(t *testing.T, src *Sources)
		wantSchema bool
	}{
		"missing embeddings file": {
			mutate: func(t *testing.T, src *Sources) {
				src.Embeddings = EmbeddingFile(filepath.Join(t.TempDir(), "nope.json"))
			},
		},
		"metadata without coordinates": {
			mutate: func(t *testing.T, src *Sources) {
				src.Metadata = MetadataFile(writeFile(t, t.TempDir(), "m.csv", "venueId,venueCategory\nA,Bar\n"))
			},
			wantSchema: true,
		},
		"names without name column": {
			mutate: func(t *testing.T, src *Sources) {
				src.Names = NamesFile(writeFile(t, t.TempDir(), "n.csv", "venueId,label\nA,x\n"))
			},
			wantSchema: true,
		},
		"embeddings not an object": {
			mutate: func(t *testing.T, src *Sources) {
				src.Embeddings = EmbeddingFile(writeFile(t, t.TempDir(), "e.json", `[1,2,3]`))
			},
		},
		"mixed dimensions": {
			mutate: func(t *testing.T, src *Sources) {
				src.Embeddings = EmbeddingFile(writeFile(t, t.TempDir(), "e.json", `{"A":[1,0],"B":[1,0,0]}`))
			},
		},
		"non-finite csv component": {
			mutate: func(t *testing.T, src *Sources) {
				src.Embeddings = EmbeddingFile(writeFile(t, t.TempDir(), "e.csv",
					"id,v0,v1\nq,1,0\na,0.5,0.5\nbad,NaN,1\nb,1,0.01\nc,0,1\n"))
			},
		},
		"infinite csv component": {
			mutate: func(t *testing.T, src *Sources) {
				src.Embeddings = EmbeddingFile(writeFile(t, t.TempDir(), "e.csv", "id,v0,v1\nq,1,0\nbad,+Inf,1\n"))
			},
		},
		"nil source": {
			mutate: func(t *testing.T, src *Sources) {
				src.Names = nil
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			src := fileSources(t, "")
			tt.mutate(t, &src)

			c, err := Load(context.Background(), src)
			assert.Nil(t, c)

			var le *LoadError
			require.True(t, errors.As(err, &le), "got %v", err)

			var se *SchemaError
			assert.Equal(t, tt.wantSchema, errors.As(err, &se))
		})
	}
}

func TestFromRecords_RejectsNonFiniteVectors(t *testing.T) {
	for name, v := range map[string]float64{"nan": math.NaN(), "+inf": math.Inf(1), "-inf": math.Inf(-1)} {
		t.Run(name, func(t *testing.T) {
			c, err := FromRecords([]EmbeddingRecord{{ID: "q", Vector: []float64{1, 0}}, {ID: "bad", Vector: []float64{v, 1}}}, nil, nil, nil)
			assert.Nil(t, c)

			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, "embeddings", le.Source)
			assert.Contains(t, le.Error(), `"bad"`)
		})
	}
}

func TestFromRecords_Selectable(t *testing.T) {
	c, err := FromRecords(
		[]EmbeddingRecord{{ID: "x", Vector: []float64{1}}, {ID: "y", Vector: []float64{1}}, {ID: "z", Vector: []float64{1}}},
		nil,
		[]Record{{ID: "x", Name: "zoo"}, {ID: "y", Name: "Aquarium"}},
		nil,
	)
	require.NoError(t, err)

	sel := c.Selectable()
	require.Len(t, sel, 3)
	assert.Equal(t, []string{"y", "z", "x"}, []string{sel[0].ID, sel[1].ID, sel[2].ID})
}

func TestCatalog_ReturnedSlicesAreCopies(t *testing.T) {
	c, err := FromRecords([]EmbeddingRecord{{ID: "a", Vector: []float64{1}}}, nil, nil, nil)
	require.NoError(t, err)

	ids := c.AllWithEmbedding()
	ids[0] = "mutated"

	assert.Equal(t, []string{"a"}, c.AllWithEmbedding())
}
