package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"poirec/internal/models/request_models"
	"poirec/internal/services"
	"poirec/pkg/utils"
)

type RecommendationsController struct {
	recommendationService services.RecommendationServiceInterface
}

func NewRecommendationsController(recommendationService services.RecommendationServiceInterface) *RecommendationsController {
	return &RecommendationsController{
		recommendationService: recommendationService,
	}
}

func (r *RecommendationsController) GetRecommendations(c *gin.Context) {
	var req request_models.RecommendRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query: "+err.Error())
		return
	}
	req.POIID = c.Param("id")
	if req.POIID == "" {
		utils.RespondError(c, http.StatusBadRequest, "POI ID is required")
		return
	}

	rec, err := r.recommendationService.Recommend(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, rec, "Recommendations generated successfully")
}
