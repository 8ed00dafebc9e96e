package kernel_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodrelay/internal/core/domain/model/kernel"
	"foodrelay/internal/pkg/errs"
)

func TestNewLocation(t *testing.T) {
	tests := []struct {
		name      string
		latitude  float64
		longitude float64
		wantErr   bool
	}{
		{name: "budapest", latitude: 47.4979, longitude: 19.0402},
		{name: "south west corner", latitude: kernel.MinLatitude, longitude: kernel.MinLongitude},
		{name: "north east corner", latitude: kernel.MaxLatitude, longitude: kernel.MaxLongitude},
		{name: "latitude too small", latitude: -90.0001, longitude: 0, wantErr: true},
		{name: "latitude too large", latitude: 90.0001, longitude: 0, wantErr: true},
		{name: "longitude too small", latitude: 0, longitude: -180.5, wantErr: true},
		{name: "longitude too large", latitude: 0, longitude: 180.5, wantErr: true},
		{name: "latitude NaN", latitude: math.NaN(), longitude: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := kernel.NewLocation(tt.latitude, tt.longitude)

			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
				assert.Equal(t, kernel.Location{}, loc)
				return
			}

			require.NoError(t, err)
			require.NoError(t, loc.Validate())
			assert.InDelta(t, tt.latitude, loc.Latitude(), 0)
			assert.InDelta(t, tt.longitude, loc.Longitude(), 0)
		})
	}
}

func TestLocation_Validate(t *testing.T) {
	var zero kernel.Location

	err := zero.Validate()

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.Equal(t, kernel.ErrLocationIsNotConstructed, err)
}

func TestLocation_String(t *testing.T) {
	loc, err := kernel.NewLocation(47.5, 19.05)
	require.NoError(t, err)

	assert.Equal(t, "Location(47.500000,19.050000)", loc.String())
}

func TestLocation_Distance(t *testing.T) {
	deak := mustLocation(t, 47.4979, 19.0540)
	keleti := mustLocation(t, 47.5003, 19.0839)
	vienna := mustLocation(t, 48.2082, 16.3738)

	t.Run("distance to itself is exactly zero", func(t *testing.T) {
		for _, p := range []kernel.Location{deak, keleti, vienna, mustLocation(t, -33.86, 151.21)} {
			d, err := p.Distance(p)
			require.NoError(t, err)
			assert.Zero(t, d)
		}
	})

	t.Run("distance is symmetric", func(t *testing.T) {
		pairs := [][2]kernel.Location{{deak, keleti}, {deak, vienna}, {keleti, vienna}}
		for _, pair := range pairs {
			ab, err := pair[0].Distance(pair[1])
			require.NoError(t, err)
			ba, err := pair[1].Distance(pair[0])
			require.NoError(t, err)
			assert.InDelta(t, ab, ba, 1e-12)
		}
	})

	t.Run("known distances", func(t *testing.T) {
		d, err := deak.Distance(keleti)
		require.NoError(t, err)
		assert.InDelta(t, 2.26, d, 0.05)

		d, err = deak.Distance(vienna)
		require.NoError(t, err)
		assert.InDelta(t, 214, d, 3)
	})

	t.Run("antipodal points stay finite", func(t *testing.T) {
		d, err := mustLocation(t, 0, 0).Distance(mustLocation(t, 0, 180))
		require.NoError(t, err)
		assert.InDelta(t, math.Pi*kernel.EarthRadiusKm, d, 1e-6)
	})

	t.Run("zero value operands are rejected", func(t *testing.T) {
		_, err := deak.Distance(kernel.Location{})
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func mustLocation(t *testing.T, lat, lon float64) kernel.Location {
	t.Helper()
	loc, err := kernel.NewLocation(lat, lon)
	require.NoError(t, err)
	return loc
}
