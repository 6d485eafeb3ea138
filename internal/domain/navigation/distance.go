package navigation

import (
	"math"
	"strings"
)

// EarthRadiusNM is the mean earth radius in nautical miles
const EarthRadiusNM = 3440.065

// Coordinates is a point on the globe in decimal degrees
type Coordinates struct {
	Lat float64
	Lon float64
}

// Location is anything that can be measured from: a port, typically
type Location interface {
	Name() string
	Coordinates() *Coordinates
}

// Haversine returns the great-circle distance between a and b in nautical miles
func Haversine(a, b Coordinates) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusNM * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// roundTenth rounds to one decimal place
func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// DistanceOverride pins the distance of one named port pair, in either direction
type DistanceOverride struct {
	From     string
	To       string
	Distance float64
}

// DistanceCalculator measures port-to-port distance.
//
// Lookup order: override table, haversine over coordinates, fallback when either
// side lacks coordinates. Results are rounded to one decimal.
type DistanceCalculator struct {
	overrides map[string]float64
	fallback  float64
}

// NewDistanceCalculator builds a calculator from a fallback distance and an override table
func NewDistanceCalculator(fallback float64, overrides []DistanceOverride) *DistanceCalculator {
	c := &DistanceCalculator{
		overrides: make(map[string]float64, len(overrides)),
		fallback:  fallback,
	}
	for _, o := range overrides {
		c.overrides[pairKey(o.From, o.To)] = o.Distance
	}
	return c
}

// Between returns the distance from one location to another
func (c *DistanceCalculator) Between(from, to Location) float64 {
	if from.Name() == to.Name() {
		return 0
	}
	if d, ok := c.overrides[pairKey(from.Name(), to.Name())]; ok {
		return roundTenth(d)
	}

	a, b := from.Coordinates(), to.Coordinates()
	if a == nil || b == nil {
		return roundTenth(c.fallback)
	}
	return roundTenth(Haversine(*a, *b))
}

// pairKey is order independent so an override applies both ways
func pairKey(a, b string) string {
	a, b = strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}
