package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"poirec/internal/catalog"
	"poirec/internal/config"
	"poirec/internal/models/request_models"
	"poirec/internal/models/response_models"
	"poirec/internal/recommend"
	"poirec/pkg/logger"
	mem "poirec/pkg/memcache"
	"poirec/pkg/utils"
)

const (
	MsgNoRecommendations = "No recommendations available"
	MsgNoOrigin          = "No location to search from"
	MsgNoneNearby        = "No attractions found nearby"
)

var markerColors = map[string]string{
	response_models.MarkerSelected: "blue",
	response_models.MarkerSimilar:  "green",
	response_models.MarkerNearby:   "orange",
}

type RecommendationServiceInterface interface {
	Recommend(ctx context.Context, req request_models.RecommendRequest) (response_models.Recommendation, error)
	ListPOIs(ctx context.Context, req request_models.ListPOIsRequest) ([]response_models.POI, error)
	GetPOI(ctx context.Context, id string) (response_models.POI, error)
	Stats(ctx context.Context) (response_models.CatalogStats, error)
}

type RecommendationService struct {
	catalog   *catalog.Catalog
	ranker    *recommend.Ranker
	proximity *recommend.ProximityFilter
	cfg       config.RecommendConfig
	landmarks map[string]bool
	ranked    *mem.TTLCache[rankKey, []recommend.RankedResult]
	log       zerolog.Logger
}

type rankKey struct {
	id string
	k  int
}

func NewRecommendationService(
	c *catalog.Catalog,
	ranker *recommend.Ranker,
	proximity *recommend.ProximityFilter,
	cfg config.RecommendConfig,
) RecommendationServiceInterface {
	s := &RecommendationService{
		catalog:   c,
		ranker:    ranker,
		proximity: proximity,
		cfg:       cfg,
		landmarks: map[string]bool{},
		log:       logger.With("recommendation"),
	}
	if cfg.CacheTTL > 0 {
		s.ranked = mem.NewTTLCache[rankKey, []recommend.RankedResult](cfg.CacheTTL, cfg.CacheSize)
	}
	if c != nil {
		for _, id := range c.Landmarks() {
			s.landmarks[id] = true
		}
	}
	return s
}

func (s *RecommendationService) Recommend(ctx context.Context, req request_models.RecommendRequest) (response_models.Recommendation, error) {
	if s.catalog == nil || s.catalog.Len() == 0 {
		return response_models.Recommendation{}, utils.ErrCatalogUnavailable
	}

	selected, ok := s.catalog.Lookup(req.POIID)
	if !ok || !selected.HasEmbedding() {
		return response_models.Recommendation{}, fmt.Errorf("%w: %q", utils.ErrPOINotFound, req.POIID)
	}

	policy := recommend.Policy(s.cfg.DefaultPolicy)
	if req.Policy != "" {
		policy = recommend.Policy(req.Policy)
	}
	if !policy.Valid() {
		return response_models.Recommendation{}, fmt.Errorf("%w: %q", utils.ErrInvalidPolicy, req.Policy)
	}

	origin, err := s.origin(req, selected)
	if err != nil {
		return response_models.Recommendation{}, err
	}

	out := response_models.Recommendation{
		Selected:      s.toPOI(selected),
		TopK:          clamp(req.TopK, s.cfg.DefaultTopK, s.cfg.MaxTopK),
		NearbyK:       clamp(req.NearbyK, s.cfg.DefaultNearbyK, s.cfg.MaxNearbyK),
		NearbyEnabled: s.cfg.NearbyEnabled,
		Policy:        string(policy),
	}
	if req.Nearby != nil {
		out.NearbyEnabled = *req.Nearby
	}
	if origin != nil {
		out.Origin = &response_models.Location{Latitude: origin.Lat, Longitude: origin.Lon}
	}

	ranked, err := s.rank(selected.ID, out.TopK)
	switch {
	case errors.Is(err, recommend.ErrUnknownPOI):
		return response_models.Recommendation{}, fmt.Errorf("%w: %q", utils.ErrPOINotFound, req.POIID)
	case err != nil:
		return response_models.Recommendation{}, fmt.Errorf("rank %q: %w", selected.ID, err)
	}
	out.Similar = make([]response_models.RankedPOI, 0, len(ranked))
	for _, r := range ranked {
		out.Similar = append(out.Similar, response_models.RankedPOI{
			POI:           s.toPOI(r.POI),
			Score:         r.RoundedScore(),
			Reasons:       r.Reasons,
			Reason:        r.Reason(),
			DirectionsURL: s.directions(origin, r.POI.Location),
		})
	}
	if len(out.Similar) == 0 {
		out.SimilarMessage = MsgNoRecommendations
	}

	if out.NearbyEnabled {
		out.Nearby = []response_models.NearbyPOI{}
		if origin == nil {
			out.NearbyMessage = MsgNoOrigin
		} else {
			for _, r := range s.proximity.Find(policy, *origin, out.NearbyK) {
				out.Nearby = append(out.Nearby, response_models.NearbyPOI{
					POI:           s.toPOI(r.POI),
					DistanceKm:    r.DistanceKm,
					Reason:        r.Reason,
					DirectionsURL: s.directions(origin, r.POI.Location),
				})
			}
			if len(out.Nearby) == 0 {
				out.NearbyMessage = MsgNoneNearby
			}
		}
	}

	out.Markers = s.markers(out)

	s.log.Debug().
		Str("poi", selected.ID).
		Int("similar", len(out.Similar)).
		Int("nearby", len(out.Nearby)).
		Str("policy", out.Policy).
		Msg("recommendation served")

	return out, nil
}

// rank memoizes Ranker.Rank per (id, k) when the cache is enabled.
func (s *RecommendationService) rank(id string, k int) ([]recommend.RankedResult, error) {
	if s.ranked == nil {
		return s.ranker.Rank(id, k)
	}
	key := rankKey{id: id, k: k}
	if cached, ok := s.ranked.Get(key); ok {
		return cached, nil
	}
	ranked, err := s.ranker.Rank(id, k)
	if err != nil {
		return nil, err
	}
	s.ranked.Set(key, ranked)
	return ranked, nil
}

// origin resolves where the nearby search starts: an explicit coordinate
// pair from the request, else the selected POI's own location.
func (s *RecommendationService) origin(req request_models.RecommendRequest, selected catalog.POI) (*catalog.Location, error) {
	if req.Lat == nil && req.Lon == nil {
		return selected.Location, nil
	}
	if req.Lat == nil || req.Lon == nil {
		return nil, fmt.Errorf("%w: latitude and longitude must be given together", utils.ErrIncompleteOrigin)
	}
	loc := catalog.Location{Lat: *req.Lat, Lon: *req.Lon}
	if !loc.Valid() {
		return nil, fmt.Errorf("%w: (%g, %g)", utils.ErrInvalidOrigin, loc.Lat, loc.Lon)
	}
	return &loc, nil
}

func (s *RecommendationService) ListPOIs(ctx context.Context, req request_models.ListPOIsRequest) ([]response_models.POI, error) {
	if s.catalog == nil {
		return nil, utils.ErrCatalogUnavailable
	}

	q := strings.ToLower(strings.TrimSpace(req.Query))
	out := []response_models.POI{}
	for _, p := range s.catalog.Selectable() {
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		out = append(out, s.toPOI(p))
		if req.Limit > 0 && len(out) == req.Limit {
			break
		}
	}
	return out, nil
}

func (s *RecommendationService) GetPOI(ctx context.Context, id string) (response_models.POI, error) {
	if s.catalog == nil {
		return response_models.POI{}, utils.ErrCatalogUnavailable
	}
	p, ok := s.catalog.Lookup(id)
	if !ok {
		return response_models.POI{}, fmt.Errorf("%w: %q", utils.ErrPOINotFound, id)
	}
	return s.toPOI(p), nil
}

func (s *RecommendationService) Stats(ctx context.Context) (response_models.CatalogStats, error) {
	if s.catalog == nil || s.catalog.Len() == 0 {
		return response_models.CatalogStats{}, utils.ErrCatalogUnavailable
	}
	return response_models.CatalogStats{
		Embedded:  s.catalog.Len(),
		Metadata:  s.catalog.MetadataLen(),
		Landmarks: len(s.landmarks),
		Dimension: s.catalog.Dimension(),
	}, nil
}

func (s *RecommendationService) toPOI(p catalog.POI) response_models.POI {
	out := response_models.POI{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.CategoryOrUnknown(),
		Landmark: s.landmarks[p.ID],
	}
	if p.HasLocation() {
		lat, lon := p.Location.Lat, p.Location.Lon
		out.Latitude, out.Longitude = &lat, &lon
		out.MapURL = utils.SearchURL(lat, lon)
	}
	return out
}

func (s *RecommendationService) directions(origin, dest *catalog.Location) string {
	if origin == nil || dest == nil {
		return ""
	}
	return utils.DirectionsURL(origin.Lat, origin.Lon, dest.Lat, dest.Lon, s.cfg.TravelMode)
}

// markers places the selected POI, then similar and nearby results. POIs
// without a location get no marker.
func (s *RecommendationService) markers(r response_models.Recommendation) []response_models.Marker {
	out := []response_models.Marker{}
	add := func(p response_models.POI, kind, popup string) {
		if p.Latitude == nil || p.Longitude == nil {
			return
		}
		out = append(out, response_models.Marker{
			ID:        p.ID,
			Name:      p.Name,
			Kind:      kind,
			Color:     markerColors[kind],
			Latitude:  *p.Latitude,
			Longitude: *p.Longitude,
			Popup:     popup,
		})
	}

	add(r.Selected, response_models.MarkerSelected, "Selected: "+r.Selected.Name)
	for _, p := range r.Similar {
		add(p.POI, response_models.MarkerSimilar, fmt.Sprintf("%s (score %.3f): %s", p.Name, p.Score, p.Reason))
	}
	for _, p := range r.Nearby {
		add(p.POI, response_models.MarkerNearby, fmt.Sprintf("%s: %s", p.Name, p.Reason))
	}
	return out
}

// clamp applies the default for zero and caps at limit.
func clamp(v, def, limit int) int {
	if v <= 0 {
		v = def
	}
	if v > limit {
		v = limit
	}
	return v
}
