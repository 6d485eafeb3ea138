package shared

import "fmt"

// CargoHold is the single cargo slot a vessel carries, together with the
// purchase facts needed to settle it later
type CargoHold struct {
	Commodity            Commodity
	Amount               int
	PurchasePortID       string
	PurchasePricePerUnit int
}

// NewCargoHold creates a cargo slot with validation
func NewCargoHold(commodity Commodity, amount int, purchasePortID string, pricePerUnit int) (*CargoHold, error) {
	if !commodity.IsValid() {
		return nil, fmt.Errorf("unknown commodity %q", commodity)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("cargo amount must be positive")
	}
	if purchasePortID == "" {
		return nil, fmt.Errorf("purchase port cannot be empty")
	}
	if pricePerUnit < 0 {
		return nil, fmt.Errorf("purchase price cannot be negative")
	}

	return &CargoHold{
		Commodity:            commodity,
		Amount:               amount,
		PurchasePortID:       purchasePortID,
		PurchasePricePerUnit: pricePerUnit,
	}, nil
}

// CostBasis is what was paid for the whole slot
func (c *CargoHold) CostBasis() int {
	return c.Amount * c.PurchasePricePerUnit
}

func (c *CargoHold) String() string {
	return fmt.Sprintf("Cargo(%d %s @%d from %s)", c.Amount, c.Commodity, c.PurchasePricePerUnit, c.PurchasePortID)
}
