package utils

import (
	"fmt"
	"net/url"
)

const (
	directionsFormat = "https://www.google.com/maps/dir/?api=1&origin=%s&destination=%s&travelmode=%s"
	searchFormat     = "https://www.google.com/maps/search/?api=1&query=%s"
)

// DirectionsURL builds a Google Maps directions link between two points.
func DirectionsURL(originLat, originLon, destLat, destLon float64, travelMode string) string {
	if travelMode == "" {
		travelMode = "walking"
	}
	return fmt.Sprintf(directionsFormat,
		latLon(originLat, originLon), latLon(destLat, destLon), url.QueryEscape(travelMode))
}

// SearchURL builds a Google Maps link centred on a point.
func SearchURL(lat, lon float64) string {
	return fmt.Sprintf(searchFormat, latLon(lat, lon))
}

func latLon(lat, lon float64) string {
	return fmt.Sprintf("%g,%g", lat, lon)
}
