package request_models

// ListPOIsRequest filters the picker list by a case-insensitive name
// substring.
type ListPOIsRequest struct {
	Query string `form:"q"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// RecommendRequest is one user interaction: a selected POI plus the
// controls of the results panel. Zero values mean "use the default".
type RecommendRequest struct {
	POIID   string   `form:"-"`
	TopK    int      `form:"top_k" binding:"omitempty,min=1,max=10"`
	NearbyK int      `form:"nearby_k" binding:"omitempty,min=1,max=15"`
	Nearby  *bool    `form:"nearby"`
	Policy  string   `form:"policy" binding:"omitempty,oneof=keyword landmark"`
	Lat     *float64 `form:"lat" binding:"omitempty,min=-90,max=90"`
	Lon     *float64 `form:"lon" binding:"omitempty,min=-180,max=180"`
}
