package crs

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/era5-rechunk/internal/domain"
)

func newConverter(t *testing.T) *Converter {
	t.Helper()
	c, err := NewConverter()
	require.NoError(t, err)
	return c
}

func TestToGeographic_GBBounds(t *testing.T) {
	c := newConverter(t)

	// Grid origin false-shifted point near the Scilly Isles.
	lon, lat, err := c.ToGeographic(91000, 11000)
	require.NoError(t, err)
	assert.InDelta(t, -6.3, lon, 0.2)
	assert.InDelta(t, 49.9, lat, 0.2)

	// Central London.
	lon, lat, err = c.ToGeographic(530000, 180000)
	require.NoError(t, err)
	assert.InDelta(t, -0.12, lon, 0.05)
	assert.InDelta(t, 51.5, lat, 0.05)
}

func TestRoundTrip_SubMeter(t *testing.T) {
	c := newConverter(t)

	points := []struct{ easting, northing float64 }{
		{91000, 11000},   // far south-west
		{530000, 180000}, // London
		{216650, 771250}, // west Highlands
		{655000, 293000}, // East Anglia coast
	}
	for _, p := range points {
		lon, lat, err := c.ToGeographic(p.easting, p.northing)
		require.NoError(t, err)

		e, n, err := c.ToProjected(lon, lat)
		require.NoError(t, err)
		assert.InDelta(t, p.easting, e, 0.5, "easting for (%v, %v)", p.easting, p.northing)
		assert.InDelta(t, p.northing, n, 0.5, "northing for (%v, %v)", p.easting, p.northing)
	}
}

func TestGridRef_RoundTripThroughGeographic(t *testing.T) {
	c := newConverter(t)

	// A point in the SX square (Devon).
	lon, lat, err := c.ToGeographic(257600, 65400)
	require.NoError(t, err)

	ref, err := c.GridRef(lon, lat, 4)
	require.NoError(t, err)
	assert.Equal(t, "SX5765", ref)
}

func TestGridRef_PrecisionLengths(t *testing.T) {
	c := newConverter(t)

	for _, figs := range []int{4, 6, 8, 10} {
		ref, err := c.GridRef(-3.5, 50.7, figs)
		require.NoError(t, err)
		assert.Len(t, ref, 2+figs)
	}
}

func TestGridRef_OutsideRegion(t *testing.T) {
	c := newConverter(t)

	// Far west of the national grid: projected easting is negative.
	_, err := c.GridRef(-12.0, 49.0, 4)
	require.Error(t, err)
	var coordErr *domain.InvalidCoordinateError
	assert.True(t, errors.As(err, &coordErr))
}

func TestGridRef_BadPrecision(t *testing.T) {
	c := newConverter(t)

	for _, figs := range []int{0, 3, 5, 12} {
		_, err := c.GridRef(-3.5, 50.7, figs)
		require.Error(t, err, "figs=%d", figs)
		var coordErr *domain.InvalidCoordinateError
		assert.True(t, errors.As(err, &coordErr))
	}
}

func TestToGeographic_Deterministic(t *testing.T) {
	c := newConverter(t)

	lon1, lat1, err := c.ToGeographic(400000, 400000)
	require.NoError(t, err)
	lon2, lat2, err := c.ToGeographic(400000, 400000)
	require.NoError(t, err)
	assert.True(t, lon1 == lon2 && lat1 == lat2)
	assert.False(t, math.IsNaN(lon1) || math.IsNaN(lat1))
}
