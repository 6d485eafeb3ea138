package economy

import (
	"math"

	"github.com/andrescamacho/searoutes-go/internal/domain/market"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// SettlementPolicy holds the rates that turn a delivered cargo into coins
type SettlementPolicy struct {
	FeeRate            float64 // port fee share of positive profit
	TaxRate            float64 // tax share of profit left after fees
	DistanceBonusPerNM float64 // added to the unit price per nautical mile sailed
	CrewBonusPerLevel  float64 // sale multiplier step per crew level above 1
}

// Sale describes one unload at the moment it is settled
type Sale struct {
	Cargo              *shared.CargoHold
	PostDepositPrice   int
	StockBeforeDeposit int
	CeilingPrice       int
	Distance           float64
	CrewLevel          int
}

// Settlement is the reproducible arithmetic of one unload
type Settlement struct {
	SalePricePerUnit int
	SaleValue        int
	CostBasis        int
	GrossProfit      int
	Fees             int
	Tax              int
	NetProfit        int
	Payout           int
	Distance         float64
	Cargo            shared.CargoHold
	Generation       *market.GenerationResult
}

// CrewBonus is the sale multiplier for a crew level
func (p SettlementPolicy) CrewBonus(level int) float64 {
	if level < 1 {
		level = 1
	}
	return 1 + float64(level-1)*p.CrewBonusPerLevel
}

// UnitPrice picks the ceiling when the port had none of the commodity
// before the deposit, otherwise the post-deposit market price
func (p SettlementPolicy) UnitPrice(s Sale) int {
	if s.StockBeforeDeposit <= 0 {
		return s.CeilingPrice
	}
	return s.PostDepositPrice
}

// Settle computes the margin based payout. Fees and tax only apply to a
// positive profit; a losing trade pays back the sale value and nothing more.
func (p SettlementPolicy) Settle(s Sale) Settlement {
	unit := p.UnitPrice(s)
	perUnit := float64(unit) + s.Distance*p.DistanceBonusPerNM
	saleValue := floorCoins(perUnit * float64(s.Cargo.Amount) * p.CrewBonus(s.CrewLevel))

	costBasis := s.Cargo.CostBasis()
	profit := saleValue - costBasis

	fees, tax := 0, 0
	if profit > 0 {
		fees = floorCoins(float64(profit) * p.FeeRate)
		tax = floorCoins(float64(profit-fees) * p.TaxRate)
	}
	net := profit - fees - tax

	return Settlement{
		SalePricePerUnit: unit,
		SaleValue:        saleValue,
		CostBasis:        costBasis,
		GrossProfit:      profit,
		Fees:             fees,
		Tax:              tax,
		NetProfit:        net,
		Payout:           costBasis + net,
		Distance:         s.Distance,
		Cargo:            *s.Cargo,
	}
}

// floorCoins truncates to whole coins, absorbing float noise such as
// 1.2*250 landing a hair below 300
func floorCoins(v float64) int {
	return int(math.Floor(v + 1e-9))
}
