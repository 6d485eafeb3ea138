package market

import (
	"fmt"
	"math"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// PriceCurve is the demand curve of one commodity.
//
// Stock at or below MinAmount sells at MaxPrice. Above that the price falls
// linearly until stock reaches ReferenceAmount, where it settles at MinPrice.
// CeilingPrice is what a buyer pays for a commodity the port had none of.
type PriceCurve struct {
	ReferenceAmount int
	MinPrice        int
	MaxPrice        int
	MinAmount       int
	CeilingPrice    int
}

// Validate checks the curve is usable
func (c PriceCurve) Validate() error {
	if c.ReferenceAmount <= 0 {
		return fmt.Errorf("reference amount must be positive")
	}
	if c.MinPrice < 0 || c.MaxPrice < c.MinPrice {
		return fmt.Errorf("price range [%d, %d] is invalid", c.MinPrice, c.MaxPrice)
	}
	if c.MinAmount < 0 {
		return fmt.Errorf("min amount cannot be negative")
	}
	return nil
}

// Price returns the unit price at the given stock level
func (c PriceCurve) Price(stock int) int {
	if stock <= c.MinAmount || c.ReferenceAmount <= 0 {
		return c.MaxPrice
	}
	normalized := math.Min(float64(stock)/float64(c.ReferenceAmount), 1)
	spread := float64(c.MaxPrice - c.MinPrice)
	return int(math.Round(float64(c.MinPrice) + spread*(1-normalized)))
}

// Ceiling returns the sale price used when the port held no stock
func (c PriceCurve) Ceiling() int {
	if c.CeilingPrice > 0 {
		return c.CeilingPrice
	}
	return c.MaxPrice
}

// PriceBook holds one curve per commodity
type PriceBook map[shared.Commodity]PriceCurve

// Curve returns the curve for a commodity
func (b PriceBook) Curve(c shared.Commodity) (PriceCurve, error) {
	curve, ok := b[c]
	if !ok {
		return PriceCurve{}, fmt.Errorf("no price curve configured for %s", c)
	}
	return curve, nil
}

// Price returns the unit price of a commodity at the given stock level.
// Commodities without a curve are priced at zero.
func (b PriceBook) Price(c shared.Commodity, stock int) int {
	curve, ok := b[c]
	if !ok {
		return 0
	}
	return curve.Price(stock)
}

// Validate checks every curve
func (b PriceBook) Validate() error {
	for c, curve := range b {
		if err := curve.Validate(); err != nil {
			return fmt.Errorf("%s: %w", c, err)
		}
	}
	return nil
}
