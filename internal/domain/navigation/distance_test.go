package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testLocation struct {
	name   string
	coords *Coordinates
}

func (l testLocation) Name() string              { return l.name }
func (l testLocation) Coordinates() *Coordinates { return l.coords }

func TestHaversine_OneDegreeOfLongitudeAtEquator(t *testing.T) {
	d := Haversine(Coordinates{Lat: 0, Lon: 0}, Coordinates{Lat: 0, Lon: 1})

	assert.InDelta(t, 60.04, d, 0.01)
}

func TestDistanceCalculator_RoundsToOneDecimal(t *testing.T) {
	calc := NewDistanceCalculator(500, nil)
	a := testLocation{name: "A", coords: &Coordinates{Lat: 0, Lon: 0}}
	b := testLocation{name: "B", coords: &Coordinates{Lat: 0, Lon: 1}}

	assert.Equal(t, 60.0, calc.Between(a, b))
}

func TestDistanceCalculator_FallbackWhenCoordinatesMissing(t *testing.T) {
	calc := NewDistanceCalculator(500, nil)
	a := testLocation{name: "A", coords: &Coordinates{Lat: 10, Lon: 10}}
	b := testLocation{name: "B"}

	assert.Equal(t, 500.0, calc.Between(a, b))
	assert.Equal(t, 500.0, calc.Between(b, a))
}

func TestDistanceCalculator_OverrideAppliesInBothDirections(t *testing.T) {
	calc := NewDistanceCalculator(500, []DistanceOverride{
		{From: "Novorossiysk", To: "St Petersburg", Distance: 3640},
	})
	nov := testLocation{name: "Novorossiysk", coords: &Coordinates{Lat: 44.72, Lon: 37.77}}
	spb := testLocation{name: "St Petersburg", coords: &Coordinates{Lat: 59.93, Lon: 30.36}}

	assert.Equal(t, 3640.0, calc.Between(nov, spb))
	assert.Equal(t, 3640.0, calc.Between(spb, nov))
}

func TestDistanceCalculator_SameLocationIsZero(t *testing.T) {
	calc := NewDistanceCalculator(500, nil)
	a := testLocation{name: "A"}

	assert.Equal(t, 0.0, calc.Between(a, a))
}
