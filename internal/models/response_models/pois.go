package response_models

type POI struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Landmark  bool     `json:"landmark,omitempty"`
	MapURL    string   `json:"map_url,omitempty"`
}

// RankedPOI is one similar POI with its explanation.
type RankedPOI struct {
	POI
	Score         float64  `json:"score"`
	Reasons       []string `json:"reasons"`
	Reason        string   `json:"reason"`
	DirectionsURL string   `json:"directions_url,omitempty"`
}

// NearbyPOI is one attraction close to the origin.
type NearbyPOI struct {
	POI
	DistanceKm    float64 `json:"distance_km"`
	Reason        string  `json:"reason"`
	DirectionsURL string  `json:"directions_url,omitempty"`
}
