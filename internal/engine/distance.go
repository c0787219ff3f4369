package engine

import (
	"math"

	"github.com/noah-isme/ref-assign-api/internal/models"
)

const (
	earthRadiusKm = 6371

	// UnknownDistanceKm ranks officials without geocoded coordinates last
	// without excluding them from assignment.
	UnknownDistanceKm = 999
)

// Haversine computes the great-circle distance in kilometers between two
// coordinate pairs given in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dlat := (lat2 - lat1) * math.Pi / 180
	dlon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Distance returns the travel cost between an official's home and a game
// venue. Either side missing coordinates yields the sentinel distance.
func Distance(o models.Official, g models.Game) float64 {
	if !o.HasLocation() || !g.HasLocation() {
		return UnknownDistanceKm
	}
	return Haversine(*o.Latitude, *o.Longitude, *g.Latitude, *g.Longitude)
}
