package steps

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/searoutes-go/internal/domain/market"
	"github.com/andrescamacho/searoutes-go/internal/domain/navigation"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// pricingContext exercises price curves and generation rules without a store
type pricingContext struct {
	curve  market.PriceCurve
	rule   market.GenerationRule
	port   *market.Port
	result *market.GenerationResult
}

func (pc *pricingContext) reset() {
	pc.curve = market.PriceCurve{}
	pc.rule = market.GenerationRule{}
	pc.port = nil
	pc.result = nil
}

func (pc *pricingContext) aPriceCurve(minPrice, maxPrice, reference, floor int) error {
	pc.curve = market.PriceCurve{
		ReferenceAmount: reference,
		MinPrice:        minPrice,
		MaxPrice:        maxPrice,
		MinAmount:       floor,
	}
	return pc.curve.Validate()
}

func (pc *pricingContext) stockShouldSellAt(stock, price int) error {
	if got := pc.curve.Price(stock); got != price {
		return fmt.Errorf("expected %d units to sell at %d, got %d", stock, price, got)
	}
	return nil
}

func (pc *pricingContext) theCurveTable(table *godog.Table) error {
	for _, row := range dataRows(table) {
		stock, err := strconv.Atoi(row.Cells[0].Value)
		if err != nil {
			return err
		}
		price, err := strconv.Atoi(row.Cells[1].Value)
		if err != nil {
			return err
		}
		if err := pc.stockShouldSellAt(stock, price); err != nil {
			return err
		}
	}
	return nil
}

func (pc *pricingContext) aGenerationRule(n1 int, c1 string, n2 int, c2 string, output int, generated string) error {
	inputs := make(map[shared.Commodity]int, 2)
	for name, n := range map[string]int{c1: n1, c2: n2} {
		c, err := shared.ParseCommodity(name)
		if err != nil {
			return err
		}
		inputs[c] = n
	}
	g, err := shared.ParseCommodity(generated)
	if err != nil {
		return err
	}
	pc.rule = market.GenerationRule{Generates: g, Requires: inputs, Output: output}
	return pc.rule.Validate()
}

func (pc *pricingContext) aPortHolding(table *godog.Table) error {
	p, err := market.NewPort("Testport", &navigation.Coordinates{Lat: 0, Lon: 0})
	if err != nil {
		return err
	}
	stock, err := intColumn(table)
	if err != nil {
		return err
	}
	for name, amount := range stock {
		c, err := shared.ParseCommodity(name)
		if err != nil {
			return err
		}
		if err := p.SetStock(c, amount, 0); err != nil {
			return err
		}
	}
	pc.port = p
	return nil
}

func (pc *pricingContext) theRuleIsPlanned() error {
	if pc.port == nil {
		return fmt.Errorf("no port to plan against")
	}
	pc.result = pc.rule.Plan(pc.port)
	return nil
}

func (pc *pricingContext) theGenerationShouldRun(cycles, amount int, commodity string) error {
	if pc.result == nil {
		return fmt.Errorf("expected %d cycles, the generation did not run", cycles)
	}
	if pc.result.Cycles != cycles || pc.result.Amount != amount || pc.result.Generated.String() != commodity {
		return fmt.Errorf("expected %d cycles producing %d %s, got %d cycles producing %d %s",
			cycles, amount, commodity, pc.result.Cycles, pc.result.Amount, pc.result.Generated)
	}
	return nil
}

func (pc *pricingContext) theGenerationShouldUse(amount int, commodity string) error {
	if pc.result == nil {
		return fmt.Errorf("the generation did not run")
	}
	c, err := shared.ParseCommodity(commodity)
	if err != nil {
		return err
	}
	if got := pc.result.Used[c]; got != amount {
		return fmt.Errorf("expected %d %s used, got %d", amount, commodity, got)
	}
	return nil
}

func (pc *pricingContext) theGenerationShouldNotRun() error {
	if pc.result != nil {
		return fmt.Errorf("expected no generation, got %d cycles", pc.result.Cycles)
	}
	return nil
}

// InitializePricingScenario registers the market domain steps
func InitializePricingScenario(sc *godog.ScenarioContext) {
	pc := &pricingContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		pc.reset()
		return ctx, nil
	})

	sc.Step(`^a price curve from (\d+) to (\d+) coins referenced at (\d+) units with a floor of (\d+) units$`, pc.aPriceCurve)
	sc.Step(`^a stock of (\d+) units should sell at (\d+)$`, pc.stockShouldSellAt)
	sc.Step(`^the curve should price:$`, pc.theCurveTable)
	sc.Step(`^a generation rule turning (\d+) (\w+) and (\d+) (\w+) into (\d+) (\w+)$`, pc.aGenerationRule)
	sc.Step(`^a port holding:$`, pc.aPortHolding)
	sc.Step(`^the rule is planned$`, pc.theRuleIsPlanned)
	sc.Step(`^the generation should run (\d+) cycles? producing (\d+) (\w+)$`, pc.theGenerationShouldRun)
	sc.Step(`^the generation should use (\d+) (\w+)$`, pc.theGenerationShouldUse)
	sc.Step(`^the generation should not run$`, pc.theGenerationShouldNotRun)
}
