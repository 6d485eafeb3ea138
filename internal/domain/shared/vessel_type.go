package shared

import "fmt"

// VesselType fixes which commodity a vessel may carry
type VesselType string

const (
	VesselTypeTanker VesselType = "tanker"
	VesselTypeCargo  VesselType = "cargo"
	VesselTypeSupply VesselType = "supply"
)

var vesselCommodities = map[VesselType]Commodity{
	VesselTypeTanker: CommodityOil,
	VesselTypeCargo:  CommodityMaterials,
	VesselTypeSupply: CommodityProvisions,
}

// AllVesselTypes returns every vessel type in a stable order
func AllVesselTypes() []VesselType {
	return []VesselType{VesselTypeTanker, VesselTypeCargo, VesselTypeSupply}
}

// IsValid checks if the vessel type is known
func (t VesselType) IsValid() bool {
	_, ok := vesselCommodities[t]
	return ok
}

// Commodity returns the only commodity this vessel type can carry
func (t VesselType) Commodity() Commodity {
	return vesselCommodities[t]
}

// Carries reports whether the vessel type can load the commodity
func (t VesselType) Carries(c Commodity) bool {
	return t.IsValid() && vesselCommodities[t] == c
}

func (t VesselType) String() string {
	return string(t)
}

// ParseVesselType parses a string into a VesselType
func ParseVesselType(s string) (VesselType, error) {
	t := VesselType(s)
	if !t.IsValid() {
		return "", NewRuleViolation(CodeInvalidVesselType, fmt.Sprintf("unknown vessel type %q", s))
	}
	return t, nil
}
