package db_models

import (
	"strings"

	"github.com/lib/pq"
)

type POI struct {
	PoiID     string `gorm:"primaryKey;column:poi_id"`
	Name      string
	Category  string
	Tags      pq.StringArray `gorm:"type:text[]"`
	Latitude  *float64
	Longitude *float64
	BaseModel
}

func (POI) TableName() string {
	return "pois"
}

// DisplayCategory falls back to the joined tags when no category is set.
func (p POI) DisplayCategory() string {
	if p.Category != "" {
		return p.Category
	}
	return strings.Join(p.Tags, ", ")
}
