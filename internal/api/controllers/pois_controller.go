package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"poirec/internal/models/request_models"
	"poirec/internal/services"
	"poirec/pkg/utils"
)

type POIsController struct {
	recommendationService services.RecommendationServiceInterface
}

func NewPOIsController(recommendationService services.RecommendationServiceInterface) *POIsController {
	return &POIsController{
		recommendationService: recommendationService,
	}
}

func (p *POIsController) ListPois(c *gin.Context) {
	var req request_models.ListPOIsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query: "+err.Error())
		return
	}

	pois, err := p.recommendationService.ListPOIs(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, pois, "POIs fetched successfully")
}

func (p *POIsController) GetPoiById(c *gin.Context) {
	poiId := c.Param("id")
	if poiId == "" {
		utils.RespondError(c, http.StatusBadRequest, "POI ID is required")
		return
	}

	poi, err := p.recommendationService.GetPOI(c.Request.Context(), poiId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, poi, "POI fetched successfully")
}
