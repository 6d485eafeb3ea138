package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

func TestFuelCalculator_Required(t *testing.T) {
	calc := NewFuelCalculator(map[shared.VesselType]float64{
		shared.VesselTypeTanker: 0.12,
		shared.VesselTypeCargo:  0.2,
	}, 0.12, 5, 1.1)

	tests := []struct {
		name       string
		vesselType shared.VesselType
		distance   float64
		loaded     bool
		want       int
	}{
		{"empty tanker over 500nm", shared.VesselTypeTanker, 500, false, 60},
		{"loaded tanker over 500nm", shared.VesselTypeTanker, 500, true, 66},
		{"short hop hits the floor", shared.VesselTypeTanker, 10, false, 5},
		{"floor is surcharged when loaded", shared.VesselTypeTanker, 10, true, 6},
		{"per type rate", shared.VesselTypeCargo, 100, false, 20},
		{"unknown type uses default", shared.VesselTypeSupply, 100, false, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.Required(tt.vesselType, tt.distance, tt.loaded))
		})
	}
}

func TestFuelCalculator_SurchargeBelowOneIsIgnored(t *testing.T) {
	calc := NewFuelCalculator(nil, 0.1, 0, 0.5)

	assert.Equal(t, 10, calc.Required(shared.VesselTypeCargo, 100, true))
}
