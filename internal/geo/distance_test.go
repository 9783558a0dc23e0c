package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/webslinger-cto/fieldserve-api/internal/geo"
)

func TestHaversineMeters(t *testing.T) {
	t.Run("identical points", func(t *testing.T) {
		assert.Equal(t, 0.0, geo.HaversineMeters(59.9139, 10.7522, 59.9139, 10.7522))
	})

	t.Run("known city pair", func(t *testing.T) {
		// Oslo to Bergen, roughly 305 km great-circle
		d := geo.HaversineMeters(59.9139, 10.7522, 60.3913, 5.3221)
		assert.InDelta(t, 305000, d, 5000)
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		d := geo.HaversineMeters(0, 0, 1, 0)
		assert.InDelta(t, 111195, d, 100)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := geo.HaversineMeters(40.7128, -74.0060, 34.0522, -118.2437)
		b := geo.HaversineMeters(34.0522, -118.2437, 40.7128, -74.0060)
		assert.InDelta(t, a, b, 0.0001)
	})
}

func TestWithinRadius(t *testing.T) {
	t.Run("inside", func(t *testing.T) {
		within, d := geo.WithinRadius(59.9139, 10.7522, 59.9140, 10.7523, 150)
		assert.True(t, within)
		assert.Less(t, d, 150.0)
	})

	t.Run("outside", func(t *testing.T) {
		within, d := geo.WithinRadius(59.9139, 10.7522, 59.9239, 10.7522, 150)
		assert.False(t, within)
		assert.Greater(t, d, 1000.0)
	})
}
