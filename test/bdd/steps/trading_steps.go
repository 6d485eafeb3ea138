package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	ledgerQueries "github.com/andrescamacho/searoutes-go/internal/application/ledger/queries"
	playerQueries "github.com/andrescamacho/searoutes-go/internal/application/player/queries"
	vesselCommands "github.com/andrescamacho/searoutes-go/internal/application/vessel/commands"
)

func (wc *worldContext) loadCommand(name string, amount int, commodity string) (*vesselCommands.LoadCargoCommand, error) {
	id, err := wc.vessel(name)
	if err != nil {
		return nil, err
	}
	return &vesselCommands.LoadCargoCommand{VesselID: id, Commodity: commodity, Amount: amount}, nil
}

func (wc *worldContext) vesselLoads(name string, amount int, commodity string) error {
	cmd, err := wc.loadCommand(name, amount, commodity)
	if err != nil {
		return err
	}
	_, err = wc.mustSend(cmd)
	return err
}

func (wc *worldContext) vesselTriesToLoad(name string, amount int, commodity string) error {
	cmd, err := wc.loadCommand(name, amount, commodity)
	if err != nil {
		return err
	}
	return wc.send(cmd)
}

func (wc *worldContext) vesselUnloads(name string) error {
	id, err := wc.vessel(name)
	if err != nil {
		return err
	}
	return wc.send(&vesselCommands.UnloadCargoCommand{VesselID: id})
}

func (wc *worldContext) theSettlementShouldBe(table *godog.Table) error {
	resp, ok := wc.lastResp.(*vesselCommands.UnloadCargoResponse)
	if !ok {
		return fmt.Errorf("last response was %T (%v), not a settlement", wc.lastResp, wc.lastErr)
	}
	fields := map[string]int{
		"sale price":    resp.SalePricePerUnit,
		"sale value":    resp.SaleValue,
		"purchase cost": resp.PurchaseCost,
		"gross profit":  resp.GrossProfit,
		"fees":          resp.Fees,
		"tax":           resp.Tax,
		"net profit":    resp.NetProfit,
		"payout":        resp.Reward,
	}
	want, err := intColumn(table)
	if err != nil {
		return err
	}
	for field, value := range want {
		got, known := fields[field]
		if !known {
			return fmt.Errorf("unknown settlement field %q", field)
		}
		if got != value {
			return fmt.Errorf("expected %s %d, got %d", field, value, got)
		}
	}
	return nil
}

func (wc *worldContext) theDepositShouldGenerate(amount int, commodity string) error {
	resp, ok := wc.lastResp.(*vesselCommands.UnloadCargoResponse)
	if !ok {
		return fmt.Errorf("last response was %T, not a settlement", wc.lastResp)
	}
	if resp.Generation == nil {
		return fmt.Errorf("expected %d %s to be generated, nothing was", amount, commodity)
	}
	if resp.Generation.Generated != commodity || resp.Generation.Amount != amount {
		return fmt.Errorf("expected %d %s, got %d %s", amount, commodity, resp.Generation.Amount, resp.Generation.Generated)
	}
	return nil
}

func (wc *worldContext) theDepositShouldGenerateNothing() error {
	resp, ok := wc.lastResp.(*vesselCommands.UnloadCargoResponse)
	if !ok {
		return fmt.Errorf("last response was %T, not a settlement", wc.lastResp)
	}
	if resp.Generation != nil {
		return fmt.Errorf("expected no generation, got %d %s", resp.Generation.Amount, resp.Generation.Generated)
	}
	return nil
}

func (wc *worldContext) theLedgerShouldTotal(username string, table *godog.Table) error {
	id, err := wc.player(username)
	if err != nil {
		return err
	}
	resp, err := wc.mediator.Send(context.Background(), &ledgerQueries.GetTransactionsQuery{PlayerID: id.String(), Limit: 1000})
	if err != nil {
		return err
	}
	totals := make(map[string]int)
	for _, tx := range resp.(*ledgerQueries.GetTransactionsResponse).Transactions {
		totals[tx.Type] += tx.Amount
	}

	want, err := intColumn(table)
	if err != nil {
		return err
	}
	if len(totals) != len(want) {
		return fmt.Errorf("expected ledger totals %v, got %v", want, totals)
	}
	for kind, amount := range want {
		if totals[kind] != amount {
			return fmt.Errorf("expected %s to total %d, got %d", kind, amount, totals[kind])
		}
	}
	return nil
}

func (wc *worldContext) playerShouldHaveEarned(username string, total, weekly int) error {
	id, err := wc.player(username)
	if err != nil {
		return err
	}
	resp, err := wc.mediator.Send(context.Background(), &playerQueries.GetEarningsQuery{PlayerID: id.String()})
	if err != nil {
		return err
	}
	earnings := resp.(*playerQueries.EarningsDTO)
	if earnings.Total != total || earnings.Weekly != weekly {
		return fmt.Errorf("expected earnings %d total and %d this week, got %d and %d",
			total, weekly, earnings.Total, earnings.Weekly)
	}
	return nil
}

func registerTradingSteps(sc *godog.ScenarioContext, wc *worldContext) {
	sc.Step(`^"([^"]*)" loads (\d+) (\w+)$`, wc.vesselLoads)
	sc.Step(`^"([^"]*)" tries to load (\d+) (\w+)$`, wc.vesselTriesToLoad)
	sc.Step(`^"([^"]*)" unloads its cargo$`, wc.vesselUnloads)
	sc.Step(`^the settlement should be:$`, wc.theSettlementShouldBe)
	sc.Step(`^the deposit should generate (\d+) (\w+)$`, wc.theDepositShouldGenerate)
	sc.Step(`^the deposit should generate nothing$`, wc.theDepositShouldGenerateNothing)
	sc.Step(`^the ledger of "([^"]*)" should total:$`, wc.theLedgerShouldTotal)
	sc.Step(`^"([^"]*)" should have earned (\d+) in total and (\d+) this week$`, wc.playerShouldHaveEarned)
}
