package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	vesselCommands "github.com/andrescamacho/searoutes-go/internal/application/vessel/commands"
	vesselQueries "github.com/andrescamacho/searoutes-go/internal/application/vessel/queries"
)

func (wc *worldContext) playerBuysVesselNamed(username, vesselType, name string) error {
	id, err := wc.player(username)
	if err != nil {
		return err
	}
	resp, err := wc.mustSend(&vesselCommands.PurchaseVesselCommand{
		PlayerID:   id.String(),
		VesselType: vesselType,
		Name:       name,
	})
	if err != nil {
		return err
	}
	wc.vessels[name] = resp.(*vesselCommands.PurchaseVesselResponse).VesselID
	return nil
}

func (wc *worldContext) playerTriesToBuyVessel(username, vesselType string) error {
	id, err := wc.player(username)
	if err != nil {
		return err
	}
	return wc.send(&vesselCommands.PurchaseVesselCommand{PlayerID: id.String(), VesselType: vesselType})
}

func (wc *worldContext) thePurchaseShouldCost(price int) error {
	resp, ok := wc.lastResp.(*vesselCommands.PurchaseVesselResponse)
	if !ok {
		return fmt.Errorf("last response was %T, not a purchase", wc.lastResp)
	}
	if resp.Price != price {
		return fmt.Errorf("expected price %d, got %d", price, resp.Price)
	}
	return nil
}

func (wc *worldContext) playerShouldOwnVessels(username string, count int) error {
	id, err := wc.player(username)
	if err != nil {
		return err
	}
	owned, err := wc.repos.Vessels.FindByOwner(context.Background(), id)
	if err != nil {
		return err
	}
	if len(owned) != count {
		return fmt.Errorf("expected %s to own %d vessels, got %d", username, count, len(owned))
	}
	return nil
}

func (wc *worldContext) sendVessel(name, portName string) (*vesselCommands.SendVesselCommand, error) {
	id, err := wc.vessel(name)
	if err != nil {
		return nil, err
	}
	destination, err := wc.portID(portName)
	if err != nil {
		return nil, err
	}
	return &vesselCommands.SendVesselCommand{VesselID: id, DestinationPortID: destination}, nil
}

func (wc *worldContext) vesselSailsTo(name, portName string) error {
	cmd, err := wc.sendVessel(name, portName)
	if err != nil {
		return err
	}
	_, err = wc.mustSend(cmd)
	return err
}

func (wc *worldContext) vesselTriesToSailTo(name, portName string) error {
	cmd, err := wc.sendVessel(name, portName)
	if err != nil {
		return err
	}
	return wc.send(cmd)
}

func (wc *worldContext) theVoyageShouldBurnFuel(fuel int) error {
	resp, ok := wc.lastResp.(*vesselCommands.SendVesselResponse)
	if !ok {
		return fmt.Errorf("last response was %T, not a voyage", wc.lastResp)
	}
	if resp.FuelCost != fuel {
		return fmt.Errorf("expected the voyage to burn %d fuel, got %d", fuel, resp.FuelCost)
	}
	return nil
}

// viewVessel reads through the query side, which applies due arrivals
func (wc *worldContext) viewVessel(name string) (*vesselQueries.VesselDTO, error) {
	id, err := wc.vessel(name)
	if err != nil {
		return nil, err
	}
	resp, err := wc.mustSend(&vesselQueries.GetVesselQuery{VesselID: id})
	if err != nil {
		return nil, err
	}
	return resp.(*vesselQueries.VesselDTO), nil
}

func (wc *worldContext) vesselShouldBeDockedAt(name, portName string) error {
	dto, err := wc.viewVessel(name)
	if err != nil {
		return err
	}
	if dto.IsTraveling {
		return fmt.Errorf("%s is still at sea bound for %s", name, dto.DestinationPortID)
	}
	if dto.CurrentPortID != wc.portIDs[portName] {
		return fmt.Errorf("expected %s docked at %s, got port %s", name, portName, dto.CurrentPortID)
	}
	return nil
}

func (wc *worldContext) vesselShouldBeAtSeaBoundFor(name, portName string) error {
	dto, err := wc.viewVessel(name)
	if err != nil {
		return err
	}
	if !dto.IsTraveling {
		return fmt.Errorf("expected %s at sea, it is docked at %s", name, dto.CurrentPortID)
	}
	if dto.DestinationPortID != wc.portIDs[portName] {
		return fmt.Errorf("expected %s bound for %s, got %s", name, portName, dto.DestinationPortID)
	}
	return nil
}

func (wc *worldContext) storedVesselShouldStillBeAtSea(name string) error {
	id, err := wc.vessel(name)
	if err != nil {
		return err
	}
	v, err := wc.repos.Vessels.FindByID(context.Background(), id)
	if err != nil {
		return err
	}
	if !v.IsTraveling() {
		return fmt.Errorf("expected the stored %s to still be traveling", name)
	}
	return nil
}

func (wc *worldContext) vesselShouldHaveFuel(name string, fuel int) error {
	dto, err := wc.viewVessel(name)
	if err != nil {
		return err
	}
	if dto.Fuel != fuel {
		return fmt.Errorf("expected %s to have %d fuel, got %d", name, fuel, dto.Fuel)
	}
	return nil
}

func (wc *worldContext) vesselShouldHaveHealth(name string, health int) error {
	dto, err := wc.viewVessel(name)
	if err != nil {
		return err
	}
	if dto.Health != health {
		return fmt.Errorf("expected %s to have %d health, got %d", name, health, dto.Health)
	}
	return nil
}

func (wc *worldContext) theTravelSweepRuns() error {
	_, err := wc.mustSend(&vesselCommands.SweepDueTravelsCommand{})
	return err
}

func (wc *worldContext) theSweepShouldHaveCompleted(table *godog.Table) error {
	resp, ok := wc.lastResp.(*vesselCommands.SweepDueTravelsResponse)
	if !ok {
		return fmt.Errorf("last response was %T, not a sweep", wc.lastResp)
	}
	want := make(map[string]bool)
	for _, row := range dataRows(table) {
		id, err := wc.vessel(row.Cells[0].Value)
		if err != nil {
			return err
		}
		want[id] = true
	}
	if len(resp.VesselIDs) != len(want) {
		return fmt.Errorf("expected %d arrivals, got %d", len(want), len(resp.VesselIDs))
	}
	for _, id := range resp.VesselIDs {
		if !want[id] {
			return fmt.Errorf("vessel %s arrived unexpectedly", id)
		}
	}
	return nil
}

func (wc *worldContext) theSweepShouldHaveCompletedNothing() error {
	resp, ok := wc.lastResp.(*vesselCommands.SweepDueTravelsResponse)
	if !ok {
		return fmt.Errorf("last response was %T, not a sweep", wc.lastResp)
	}
	if resp.Completed != 0 {
		return fmt.Errorf("expected no arrivals, got %v", resp.VesselIDs)
	}
	return nil
}

func (wc *worldContext) vesselIsTowed(name string) error {
	id, err := wc.vessel(name)
	if err != nil {
		return err
	}
	_, err = wc.mustSend(&vesselCommands.TowVesselCommand{VesselID: id})
	return err
}

func (wc *worldContext) theTowFeeShouldBe(fee int) error {
	resp, ok := wc.lastResp.(*vesselCommands.TowVesselResponse)
	if !ok {
		return fmt.Errorf("last response was %T, not a tow", wc.lastResp)
	}
	if resp.Fee != fee {
		return fmt.Errorf("expected a tow fee of %d, got %d", fee, resp.Fee)
	}
	return nil
}

func (wc *worldContext) vesselRefuels(name string, amount int) error {
	id, err := wc.vessel(name)
	if err != nil {
		return err
	}
	return wc.send(&vesselCommands.RefuelVesselCommand{VesselID: id, Amount: amount})
}

func (wc *worldContext) vesselIsRepaired(name string) error {
	id, err := wc.vessel(name)
	if err != nil {
		return err
	}
	return wc.send(&vesselCommands.RepairVesselCommand{VesselID: id})
}

func registerVoyageSteps(sc *godog.ScenarioContext, wc *worldContext) {
	sc.Step(`^"([^"]*)" buys a (\w+) vessel named "([^"]*)"$`, wc.playerBuysVesselNamed)
	sc.Step(`^"([^"]*)" tries to buy a (\w+) vessel$`, wc.playerTriesToBuyVessel)
	sc.Step(`^the purchase should cost (\d+)$`, wc.thePurchaseShouldCost)
	sc.Step(`^"([^"]*)" should own (\d+) vessels?$`, wc.playerShouldOwnVessels)

	sc.Step(`^"([^"]*)" sails to "([^"]*)"$`, wc.vesselSailsTo)
	sc.Step(`^"([^"]*)" tries to sail to "([^"]*)"$`, wc.vesselTriesToSailTo)
	sc.Step(`^the voyage should burn (\d+) fuel$`, wc.theVoyageShouldBurnFuel)
	sc.Step(`^"([^"]*)" should be docked at "([^"]*)"$`, wc.vesselShouldBeDockedAt)
	sc.Step(`^"([^"]*)" should be at sea bound for "([^"]*)"$`, wc.vesselShouldBeAtSeaBoundFor)
	sc.Step(`^the stored "([^"]*)" should still be at sea$`, wc.storedVesselShouldStillBeAtSea)
	sc.Step(`^"([^"]*)" should have (\d+) fuel$`, wc.vesselShouldHaveFuel)
	sc.Step(`^"([^"]*)" should have (\d+) health$`, wc.vesselShouldHaveHealth)

	sc.Step(`^the travel sweep runs$`, wc.theTravelSweepRuns)
	sc.Step(`^the sweep should have completed:$`, wc.theSweepShouldHaveCompleted)
	sc.Step(`^the sweep should have completed nothing$`, wc.theSweepShouldHaveCompletedNothing)

	sc.Step(`^"([^"]*)" is towed$`, wc.vesselIsTowed)
	sc.Step(`^the tow fee should be (\d+)$`, wc.theTowFeeShouldBe)
	sc.Step(`^"([^"]*)" refuels (\d+) units$`, wc.vesselRefuels)
	sc.Step(`^"([^"]*)" is repaired$`, wc.vesselIsRepaired)
}
