package recommend_fx

import (
	"go.uber.org/fx"

	"poirec/internal/catalog"
	"poirec/internal/config"
	"poirec/internal/recommend"
	"poirec/internal/services"
)

var Module = fx.Provide(
	recommend.NewRanker,
	provideProximityFilter,
	services.NewRecommendationService)

func provideProximityFilter(c *catalog.Catalog, cfg config.RecommendConfig) *recommend.ProximityFilter {
	return recommend.NewProximityFilter(c, cfg.TouristKeywords, cfg.NearbyRadiusKm)
}
