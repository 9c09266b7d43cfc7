package poisfx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"poirec/internal/repositories"
)

var Module = fx.Provide(
	providePoisRepo)

func providePoisRepo(db *gorm.DB) repositories.POIRepository {
	return repositories.NewPOIRepository(db)
}
