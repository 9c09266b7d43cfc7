package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"poirec/internal/catalog"
	"poirec/internal/models/db_models"
)

const saveBatchSize = 500

// IPoiEmbededRepository reads and writes the poi_embeddings table. It is an
// embedding source for the catalog loader.
type IPoiEmbededRepository interface {
	catalog.EmbeddingSource
	SaveEmbeddings(ctx context.Context, records []catalog.EmbeddingRecord) error
}

type PoiEmbededRepository struct {
	db *gorm.DB
}

func NewPoiEmbededRepository(db *gorm.DB) IPoiEmbededRepository {
	return &PoiEmbededRepository{
		db: db,
	}
}

func (p *PoiEmbededRepository) LoadEmbeddings(ctx context.Context) ([]catalog.EmbeddingRecord, error) {
	var rows []db_models.PoiEmbedding

	query := `
        SELECT poi_id, embedding
        FROM poi_embeddings
        ORDER BY poi_id
    `

	if err := p.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("query poi_embeddings: %w", err)
	}

	out := make([]catalog.EmbeddingRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, catalog.EmbeddingRecord{ID: row.PoiID, Vector: row.Float64s()})
	}
	return out, nil
}

// SaveEmbeddings upserts vectors keyed by POI id.
func (p *PoiEmbededRepository) SaveEmbeddings(ctx context.Context, records []catalog.EmbeddingRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]db_models.PoiEmbedding, 0, len(records))
	for _, r := range records {
		rows = append(rows, db_models.NewPoiEmbedding(r.ID, r.Vector))
	}

	return p.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "poi_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"embedding", "updated_at"}),
		}).
		CreateInBatches(rows, saveBatchSize).Error
}
