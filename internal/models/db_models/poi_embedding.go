package db_models

import (
	"github.com/pgvector/pgvector-go"
)

// PoiEmbedding is one row of poi_embeddings. The vector column has no fixed
// dimension so the table can hold any fused embedding size.
type PoiEmbedding struct {
	PoiID     string          `gorm:"primaryKey;column:poi_id"`
	Embedding pgvector.Vector `gorm:"type:vector"`
	BaseModel
}

func (PoiEmbedding) TableName() string {
	return "poi_embeddings"
}

// Float64s converts the stored float32 vector for ranking.
func (p PoiEmbedding) Float64s() []float64 {
	src := p.Embedding.Slice()
	out := make([]float64, len(src))
	for i, v := range src {
		out[i] = float64(v)
	}
	return out
}

func NewPoiEmbedding(id string, vector []float64) PoiEmbedding {
	vec := make([]float32, len(vector))
	for i, v := range vector {
		vec[i] = float32(v)
	}
	return PoiEmbedding{PoiID: id, Embedding: pgvector.NewVector(vec)}
}
