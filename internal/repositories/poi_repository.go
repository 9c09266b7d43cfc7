package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"poirec/internal/catalog"
	"poirec/internal/models/db_models"
)

// POIRepository reads and writes the pois table. Its records carry names, so
// the loader uses it as both the metadata and the name source.
type POIRepository interface {
	catalog.RecordSource
	SavePOIs(ctx context.Context, records []catalog.Record) error
}

type poiRepository struct {
	db *gorm.DB
}

func NewPOIRepository(db *gorm.DB) POIRepository {
	return &poiRepository{db: db}
}

func (r *poiRepository) LoadRecords(ctx context.Context) ([]catalog.Record, error) {
	var pois []db_models.POI

	err := r.db.WithContext(ctx).
		Raw(`SELECT poi_id, name, category, tags, latitude, longitude FROM pois ORDER BY poi_id`).
		Scan(&pois).Error
	if err != nil {
		return nil, fmt.Errorf("query pois: %w", err)
	}

	out := make([]catalog.Record, 0, len(pois))
	for _, poi := range pois {
		rec := catalog.Record{
			ID:       poi.PoiID,
			Name:     poi.Name,
			Category: poi.DisplayCategory(),
		}
		if poi.Latitude != nil && poi.Longitude != nil {
			loc := catalog.Location{Lat: *poi.Latitude, Lon: *poi.Longitude}
			if loc.Valid() {
				rec.Location = &loc
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// SavePOIs upserts metadata rows keyed by POI id. Tags are left untouched on
// update.
func (r *poiRepository) SavePOIs(ctx context.Context, records []catalog.Record) error {
	if len(records) == 0 {
		return nil
	}
	pois := make([]db_models.POI, 0, len(records))
	for _, rec := range records {
		poi := db_models.POI{PoiID: rec.ID, Name: rec.Name, Category: rec.Category}
		if rec.Location != nil {
			lat, lon := rec.Location.Lat, rec.Location.Lon
			poi.Latitude, poi.Longitude = &lat, &lon
		}
		pois = append(pois, poi)
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "poi_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "category", "latitude", "longitude", "updated_at"}),
		}).
		CreateInBatches(pois, saveBatchSize).Error
}
