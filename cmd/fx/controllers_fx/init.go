package controllers_fx

import (
	"go.uber.org/fx"

	"poirec/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewPOIsController),
	fx.Provide(controllers.NewRecommendationsController),
	fx.Provide(controllers.NewPageController),
	fx.Provide(controllers.NewHealthController))
