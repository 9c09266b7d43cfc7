package controllers

import (
	"github.com/gin-gonic/gin"

	"poirec/internal/services"
	"poirec/pkg/utils"
)

type HealthController struct {
	recommendationService services.RecommendationServiceInterface
}

func NewHealthController(recommendationService services.RecommendationServiceInterface) *HealthController {
	return &HealthController{recommendationService: recommendationService}
}

// Healthz reports catalog sizes, or 503 when nothing is loaded.
func (h *HealthController) Healthz(c *gin.Context) {
	stats, err := h.recommendationService.Stats(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, stats, "ok")
}
