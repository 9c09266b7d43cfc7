package controllers

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"poirec/internal/models/request_models"
	"poirec/internal/models/response_models"
	"poirec/internal/services"
	"poirec/pkg/utils"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Templates parses the embedded page templates for engine.SetHTMLTemplate.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFiles, "templates/*.html"))
}

type PageController struct {
	recommendationService services.RecommendationServiceInterface
}

func NewPageController(recommendationService services.RecommendationServiceInterface) *PageController {
	return &PageController{recommendationService: recommendationService}
}

type pageData struct {
	POIs        []response_models.POI
	SelectedID  string
	Form        request_models.RecommendRequest
	Result      *response_models.Recommendation
	Error       string
	MarkersJSON template.JS
}

// Index renders the picker, the explanation lists and the map for the POI
// in ?poi=, defaulting to the first selectable POI.
func (p *PageController) Index(c *gin.Context) {
	data := pageData{MarkersJSON: "[]"}

	var req request_models.RecommendRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		data.Error = "Invalid controls: " + err.Error()
		c.HTML(http.StatusBadRequest, "index.html", data)
		return
	}

	pois, err := p.recommendationService.ListPOIs(c.Request.Context(), request_models.ListPOIsRequest{})
	if err != nil {
		code, msg := utils.StatusFor(err)
		data.Error = msg
		c.HTML(code, "index.html", data)
		return
	}
	data.POIs = pois

	req.POIID = c.Query("poi")
	if req.POIID == "" && len(pois) > 0 {
		req.POIID = pois[0].ID
	}
	data.SelectedID = req.POIID
	data.Form = req

	if req.POIID == "" {
		data.Error = services.MsgNoRecommendations
		c.HTML(http.StatusOK, "index.html", data)
		return
	}

	rec, err := p.recommendationService.Recommend(c.Request.Context(), req)
	if err != nil {
		code, msg := utils.StatusFor(err)
		if errors.Is(err, utils.ErrPOINotFound) {
			msg = services.MsgNoRecommendations
		}
		data.Error = msg
		c.HTML(code, "index.html", data)
		return
	}
	data.Result = &rec

	markers, err := json.Marshal(rec.Markers)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	data.MarkersJSON = template.JS(markers)

	c.HTML(http.StatusOK, "index.html", data)
}
