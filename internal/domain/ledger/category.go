package ledger

import (
	"fmt"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// Category groups transaction types for cash flow reporting
type Category string

const (
	CategoryFleetInvestments Category = "FLEET_INVESTMENTS"
	CategoryTradingCosts     Category = "TRADING_COSTS"
	CategoryTradingRevenue   Category = "TRADING_REVENUE"
	CategoryFuelCosts        Category = "FUEL_COSTS"
	CategoryMaintenanceCosts Category = "MAINTENANCE_COSTS"
	CategoryAdjustments      Category = "ADJUSTMENTS"
)

var typeCategories = map[TransactionType]Category{
	TransactionTypePurchaseVessel: CategoryFleetInvestments,
	TransactionTypePurchaseCargo:  CategoryTradingCosts,
	TransactionTypeRefund:         CategoryAdjustments,
	TransactionTypeSellCargo:      CategoryTradingRevenue,
	TransactionTypeRefuel:         CategoryFuelCosts,
	TransactionTypeRepair:         CategoryMaintenanceCosts,
	TransactionTypeTow:            CategoryMaintenanceCosts,
	TransactionTypeUpgrade:        CategoryFleetInvestments,
}

func (c Category) String() string {
	return string(c)
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryFleetInvestments,
		CategoryTradingCosts,
		CategoryTradingRevenue,
		CategoryFuelCosts,
		CategoryMaintenanceCosts,
		CategoryAdjustments:
		return true
	default:
		return false
	}
}

// IsIncome returns true if the category represents income
func (c Category) IsIncome() bool {
	return c == CategoryTradingRevenue
}

// ParseCategory parses a string into a Category
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", shared.NewValidationError("category", fmt.Sprintf("invalid category: %s", s))
	}
	return c, nil
}
