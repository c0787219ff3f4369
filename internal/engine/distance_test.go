package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/ref-assign-api/internal/models"
)

func TestHaversineZeroForIdenticalCoordinates(t *testing.T) {
	assert.Equal(t, 0.0, Haversine(51.05, -114.07, 51.05, -114.07))
}

func TestHaversineSymmetric(t *testing.T) {
	ab := Haversine(51.05, -114.07, 53.55, -113.49)
	ba := Haversine(53.55, -113.49, 51.05, -114.07)

	assert.InDelta(t, ab, ba, 1e-9)
}

func TestHaversineKnownDistance(t *testing.T) {
	// Calgary to Edmonton is roughly 280 km as the crow flies.
	d := Haversine(51.0447, -114.0719, 53.5461, -113.4937)
	assert.InDelta(t, 280, d, 10)
}

func TestDistanceUsesSentinelForMissingCoordinates(t *testing.T) {
	lat, lon := 51.05, -114.07
	located := models.Official{Latitude: &lat, Longitude: &lon}
	unlocated := models.Official{}
	game := models.Game{Latitude: &lat, Longitude: &lon}

	assert.Equal(t, float64(UnknownDistanceKm), Distance(unlocated, game))
	assert.Equal(t, float64(UnknownDistanceKm), Distance(located, models.Game{}))
	assert.Equal(t, 0.0, Distance(located, game))
}
