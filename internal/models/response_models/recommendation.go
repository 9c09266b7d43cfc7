package response_models

const (
	MarkerSelected = "selected"
	MarkerSimilar  = "similar"
	MarkerNearby   = "nearby"
)

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Marker struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Kind      string  `json:"kind"`
	Color     string  `json:"color"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Popup     string  `json:"popup"`
}

// Recommendation is everything the results panel shows for one selection.
// Nearby is nil when the nearby search is switched off and empty when it ran
// without finding anything.
type Recommendation struct {
	Selected       POI         `json:"selected"`
	TopK           int         `json:"top_k"`
	Similar        []RankedPOI `json:"similar"`
	SimilarMessage string      `json:"similar_message,omitempty"`

	NearbyEnabled bool        `json:"nearby_enabled"`
	Policy        string      `json:"policy"`
	NearbyK       int         `json:"nearby_k"`
	Origin        *Location   `json:"origin,omitempty"`
	Nearby        []NearbyPOI `json:"nearby"`
	NearbyMessage string      `json:"nearby_message,omitempty"`

	Markers []Marker `json:"markers"`
}

type CatalogStats struct {
	Embedded  int `json:"embedded"`
	Metadata  int `json:"metadata"`
	Landmarks int `json:"landmarks"`
	Dimension int `json:"dimension"`
}
