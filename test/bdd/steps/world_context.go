package steps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/searoutes-go/internal/application/common"
	playerCommands "github.com/andrescamacho/searoutes-go/internal/application/player/commands"
	"github.com/andrescamacho/searoutes-go/internal/application/setup"
	appVessel "github.com/andrescamacho/searoutes-go/internal/application/vessel"
	"github.com/andrescamacho/searoutes-go/internal/domain/market"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/config"
	"github.com/andrescamacho/searoutes-go/test/helpers"
)

// worldContext is the state shared by every game scenario. The world is
// built lazily so Background steps can still change the configuration.
type worldContext struct {
	cfg      *config.Config
	repos    *helpers.TestRepositories
	rules    *appVessel.GameRules
	clock    *shared.MockClock
	mediator common.Mediator
	built    bool

	portIDs map[string]string
	players map[string]shared.PlayerID
	vessels map[string]string

	lastResp common.Response
	lastErr  error

	httpServer *httpState
}

func (wc *worldContext) reset() error {
	if err := helpers.TruncateAll(helpers.SharedTestDB); err != nil {
		return err
	}
	wc.cfg = config.Default()
	wc.repos = nil
	wc.rules = nil
	wc.clock = shared.NewMockClock(helpers.WorldStart)
	wc.mediator = nil
	wc.built = false
	wc.portIDs = make(map[string]string)
	wc.players = make(map[string]shared.PlayerID)
	wc.vessels = make(map[string]string)
	wc.lastResp = nil
	wc.lastErr = nil
	wc.httpServer = nil
	return nil
}

func (wc *worldContext) ensureWorld() error {
	if wc.built {
		return nil
	}

	world, err := config.LoadWorld("")
	if err != nil {
		return fmt.Errorf("failed to load world: %w", err)
	}
	rules, err := wc.cfg.GameRules(world)
	if err != nil {
		return fmt.Errorf("failed to build rules: %w", err)
	}
	ports, err := world.BuildPorts(rules.Prices)
	if err != nil {
		return fmt.Errorf("failed to build ports: %w", err)
	}

	wc.repos = helpers.NewTestRepositories(helpers.SharedTestDB, nil)
	if _, err := setup.SeedPorts(context.Background(), wc.repos.Ports, ports); err != nil {
		return fmt.Errorf("failed to seed ports: %w", err)
	}
	for _, p := range ports {
		wc.portIDs[p.Name()] = p.ID()
	}

	registry := setup.NewHandlerRegistry(wc.repos.Bundle(), rules, wc.cfg.Game.Initial.Coins, wc.clock)
	m, err := registry.CreateConfiguredMediator()
	if err != nil {
		return fmt.Errorf("failed to build mediator: %w", err)
	}

	wc.rules = rules
	wc.mediator = m
	wc.built = true
	return nil
}

// send dispatches a request and remembers the outcome for later assertions
func (wc *worldContext) send(request common.Request) error {
	if err := wc.ensureWorld(); err != nil {
		return err
	}
	wc.lastResp, wc.lastErr = wc.mediator.Send(context.Background(), request)
	return nil
}

// mustSend dispatches a request that the scenario expects to succeed
func (wc *worldContext) mustSend(request common.Request) (common.Response, error) {
	if err := wc.send(request); err != nil {
		return nil, err
	}
	if wc.lastErr != nil {
		return nil, fmt.Errorf("%T failed: %w", request, wc.lastErr)
	}
	return wc.lastResp, nil
}

func (wc *worldContext) portID(name string) (string, error) {
	if err := wc.ensureWorld(); err != nil {
		return "", err
	}
	id, ok := wc.portIDs[name]
	if !ok {
		// Unknown names are passed through so lookups can fail in the handler
		return name, nil
	}
	return id, nil
}

func (wc *worldContext) port(name string) (*market.Port, error) {
	if err := wc.ensureWorld(); err != nil {
		return nil, err
	}
	return wc.repos.Ports.FindByName(context.Background(), name)
}

func (wc *worldContext) player(username string) (shared.PlayerID, error) {
	id, ok := wc.players[username]
	if !ok {
		return shared.PlayerID{}, fmt.Errorf("unknown player %q", username)
	}
	return id, nil
}

func (wc *worldContext) vessel(name string) (string, error) {
	id, ok := wc.vessels[name]
	if !ok {
		return "", fmt.Errorf("unknown vessel %q", name)
	}
	return id, nil
}

// Background

func (wc *worldContext) playersStartWithCoins(coins int) error {
	wc.cfg.Game.Initial.Coins = coins
	return nil
}

func (wc *worldContext) vesselsCarryFuel(fuel, capacity int) error {
	wc.cfg.Game.Initial.Fuel = fuel
	wc.cfg.Game.Initial.MaxFuel = capacity
	return nil
}

func (wc *worldContext) vesselsStartWithHealth(health int) error {
	wc.cfg.Game.Initial.Health = health
	return nil
}

func (wc *worldContext) aPlayer(username string) error {
	resp, err := wc.mustSend(&playerCommands.RegisterPlayerCommand{Username: username})
	if err != nil {
		return err
	}
	id, err := shared.NewPlayerID(resp.(*playerCommands.RegisterPlayerResponse).PlayerID)
	if err != nil {
		return err
	}
	wc.players[username] = id
	return nil
}

func (wc *worldContext) aPlayerTriesToRegister(username string) error {
	return wc.send(&playerCommands.RegisterPlayerCommand{Username: username})
}

func (wc *worldContext) portHolds(portName string, amount int, commodity string) error {
	c, err := shared.ParseCommodity(commodity)
	if err != nil {
		return err
	}
	id, err := wc.portID(portName)
	if err != nil {
		return err
	}
	curve, err := wc.rules.Prices.Curve(c)
	if err != nil {
		return err
	}
	return wc.repos.Ports.UpsertStock(context.Background(), id, c, amount, curve.Price(amount))
}

func (wc *worldContext) secondsPass(seconds int) error {
	wc.clock.Advance(time.Duration(seconds) * time.Second)
	return nil
}

// Outcome assertions

func (wc *worldContext) theRequestShouldSucceed() error {
	if wc.lastErr != nil {
		return fmt.Errorf("expected success, got %v", wc.lastErr)
	}
	return nil
}

func (wc *worldContext) theRequestShouldFailWithCode(code string) error {
	if wc.lastErr == nil {
		return fmt.Errorf("expected %s, but the request succeeded", code)
	}
	if got := shared.CodeOf(wc.lastErr); got != code {
		return fmt.Errorf("expected code %s, got %s (%v)", code, got, wc.lastErr)
	}
	return nil
}

func (wc *worldContext) theShortfallShouldBe(required, available int) error {
	insufficient, ok := asInsufficient(wc.lastErr)
	if !ok {
		return fmt.Errorf("expected an insufficient resource error, got %v", wc.lastErr)
	}
	if insufficient.Required != required || insufficient.Available != available {
		return fmt.Errorf("expected %d required and %d available, got %d and %d",
			required, available, insufficient.Required, insufficient.Available)
	}
	return nil
}

func (wc *worldContext) playerShouldHaveCoins(username string, coins int) error {
	id, err := wc.player(username)
	if err != nil {
		return err
	}
	p, err := wc.repos.Players.FindByID(context.Background(), id)
	if err != nil {
		return err
	}
	if p.Coins() != coins {
		return fmt.Errorf("expected %s to have %d coins, got %d", username, coins, p.Coins())
	}
	return nil
}

func (wc *worldContext) portShouldHold(portName string, amount int, commodity string) error {
	c, err := shared.ParseCommodity(commodity)
	if err != nil {
		return err
	}
	p, err := wc.port(portName)
	if err != nil {
		return err
	}
	if got := p.Stock(c).Amount; got != amount {
		return fmt.Errorf("expected %s to hold %d %s, got %d", portName, amount, commodity, got)
	}
	return nil
}

func (wc *worldContext) portShouldPrice(portName, commodity string, price int) error {
	c, err := shared.ParseCommodity(commodity)
	if err != nil {
		return err
	}
	p, err := wc.port(portName)
	if err != nil {
		return err
	}
	if got := p.Stock(c).Price; got != price {
		return fmt.Errorf("expected %s to price %s at %d, got %d", portName, commodity, price, got)
	}
	return nil
}

func asInsufficient(err error) (*shared.InsufficientResourceError, bool) {
	var insufficient *shared.InsufficientResourceError
	ok := errors.As(err, &insufficient)
	return insufficient, ok
}

// InitializeWorldScenario registers the game steps shared by the
// application and adapter features
func InitializeWorldScenario(sc *godog.ScenarioContext) {
	wc := &worldContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		return ctx, wc.reset()
	})

	sc.Step(`^players start with (\d+) coins$`, wc.playersStartWithCoins)
	sc.Step(`^vessels start with (\d+) of (\d+) fuel$`, wc.vesselsCarryFuel)
	sc.Step(`^vessels start with (\d+) health$`, wc.vesselsStartWithHealth)
	sc.Step(`^a player "([^"]*)"$`, wc.aPlayer)
	sc.Step(`^someone tries to register as "([^"]*)"$`, wc.aPlayerTriesToRegister)
	sc.Step(`^"([^"]*)" holds (\d+) (\w+)$`, wc.portHolds)
	sc.Step(`^(\d+) seconds pass$`, wc.secondsPass)

	sc.Step(`^the request should succeed$`, wc.theRequestShouldSucceed)
	sc.Step(`^the request should fail with code "([^"]*)"$`, wc.theRequestShouldFailWithCode)
	sc.Step(`^the shortfall should be (\d+) required and (\d+) available$`, wc.theShortfallShouldBe)
	sc.Step(`^"([^"]*)" should have (\d+) coins$`, wc.playerShouldHaveCoins)
	sc.Step(`^"([^"]*)" should hold (\d+) (\w+)$`, wc.portShouldHold)
	sc.Step(`^"([^"]*)" should price (\w+) at (\d+)$`, wc.portShouldPrice)

	registerVoyageSteps(sc, wc)
	registerTradingSteps(sc, wc)
	registerHTTPSteps(sc, wc)
}
