package shared

import "fmt"

// Commodity is a tradeable cargo type
type Commodity string

const (
	CommodityOil        Commodity = "oil"
	CommodityMaterials  Commodity = "materials"
	CommodityProvisions Commodity = "provisions"
)

// AllCommodities returns every commodity in a stable order
func AllCommodities() []Commodity {
	return []Commodity{CommodityOil, CommodityMaterials, CommodityProvisions}
}

// IsValid checks if the commodity is known
func (c Commodity) IsValid() bool {
	switch c {
	case CommodityOil, CommodityMaterials, CommodityProvisions:
		return true
	default:
		return false
	}
}

func (c Commodity) String() string {
	return string(c)
}

// ParseCommodity parses a string into a Commodity
func ParseCommodity(s string) (Commodity, error) {
	c := Commodity(s)
	if !c.IsValid() {
		return "", NewValidationError("commodity", fmt.Sprintf("unknown commodity %q", s))
	}
	return c, nil
}

// FuelCommodity is what vessels burn and what refuelling sells
const FuelCommodity = CommodityOil
