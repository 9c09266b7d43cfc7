package recommend

import (
	"math"

	"poirec/internal/catalog"
)

const earthRadiusKm = 6371.0

// CosineSimilarity returns dot(a,b)/(|a||b|) clamped to [-1, 1]. Vectors of
// different length and zero-norm vectors score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return math.Max(-1, math.Min(1, dot/(math.Sqrt(normA)*math.Sqrt(normB))))
}

// DistanceKm is the great-circle (haversine) distance between two points.
func DistanceKm(a, b catalog.Location) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push h just outside [0, 1] for antipodal points.
	h = math.Max(0, math.Min(1, h))
	return earthRadiusKm * 2 * math.Asin(math.Sqrt(h))
}

// distanceBetween fails with ErrMissingLocation when either side has no
// coordinates.
func distanceBetween(a, b *catalog.Location) (float64, error) {
	if a == nil || b == nil {
		return 0, ErrMissingLocation
	}
	return DistanceKm(*a, *b), nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
