package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/andrescamacho/searoutes-go/internal/application/common"
	ledgerQueries "github.com/andrescamacho/searoutes-go/internal/application/ledger/queries"
	playerCommands "github.com/andrescamacho/searoutes-go/internal/application/player/commands"
	"github.com/andrescamacho/searoutes-go/internal/application/setup"
	appVessel "github.com/andrescamacho/searoutes-go/internal/application/vessel"
	vesselCommands "github.com/andrescamacho/searoutes-go/internal/application/vessel/commands"
	"github.com/andrescamacho/searoutes-go/internal/domain/market"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/config"
)

// WorldStart is the mock clock's starting instant in every test world
var WorldStart = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

// TestWorld is a seeded world backed by an in-memory database
type TestWorld struct {
	Repos    *TestRepositories
	Rules    *appVessel.GameRules
	Clock    *shared.MockClock
	Mediator common.Mediator
	Config   *config.Config

	ports map[string]*market.Port
}

// WorldOption adjusts a world before the mediator is built
type WorldOption func(*worldSetup)

type worldSetup struct {
	cfg   *config.Config
	repos setup.Repositories
}

// WithConfig mutates the default configuration before the rules are built
func WithConfig(fn func(cfg *config.Config)) WorldOption {
	return func(s *worldSetup) { fn(s.cfg) }
}

// WithRepositories swaps repositories, typically for failure injection
func WithRepositories(fn func(repos *setup.Repositories)) WorldOption {
	return func(s *worldSetup) { fn(&s.repos) }
}

// NewTestWorld seeds the built-in ports and registers every handler
func NewTestWorld(t *testing.T, opts ...WorldOption) *TestWorld {
	t.Helper()

	repos := NewTestRepositories(NewTestDB(t), nil)
	s := &worldSetup{cfg: config.Default(), repos: repos.Bundle()}
	for _, opt := range opts {
		opt(s)
	}

	world, err := config.LoadWorld("")
	if err != nil {
		t.Fatalf("failed to load world: %v", err)
	}
	rules, err := s.cfg.GameRules(world)
	if err != nil {
		t.Fatalf("failed to build rules: %v", err)
	}

	ports, err := world.BuildPorts(rules.Prices)
	if err != nil {
		t.Fatalf("failed to build ports: %v", err)
	}
	if _, err := setup.SeedPorts(context.Background(), repos.Ports, ports); err != nil {
		t.Fatalf("failed to seed ports: %v", err)
	}

	clock := shared.NewMockClock(WorldStart)
	registry := setup.NewHandlerRegistry(s.repos, rules, s.cfg.Game.Initial.Coins, clock)
	m, err := registry.CreateConfiguredMediator()
	if err != nil {
		t.Fatalf("failed to build mediator: %v", err)
	}

	w := &TestWorld{
		Repos:    repos,
		Rules:    rules,
		Clock:    clock,
		Mediator: m,
		Config:   s.cfg,
		ports:    make(map[string]*market.Port, len(ports)),
	}
	for _, p := range ports {
		w.ports[p.Name()] = p
	}
	return w
}

// Port reloads a seeded port by name
func (w *TestWorld) Port(t *testing.T, name string) *market.Port {
	t.Helper()
	p, err := w.Repos.Ports.FindByName(context.Background(), name)
	if err != nil {
		t.Fatalf("port %s: %v", name, err)
	}
	return p
}

// PortID returns the id of a seeded port
func (w *TestWorld) PortID(t *testing.T, name string) string {
	t.Helper()
	p, ok := w.ports[name]
	if !ok {
		t.Fatalf("unknown port %s", name)
	}
	return p.ID()
}

// Coins returns a player's current balance
func (w *TestWorld) Coins(t *testing.T, playerID shared.PlayerID) int {
	t.Helper()
	p, err := w.Repos.Players.FindByID(context.Background(), playerID)
	if err != nil {
		t.Fatalf("player %s: %v", playerID, err)
	}
	return p.Coins()
}

// SetStock overwrites one stock entry and reprices it from the curve
func (w *TestWorld) SetStock(t *testing.T, portName string, commodity shared.Commodity, amount int) {
	t.Helper()
	curve, err := w.Rules.Prices.Curve(commodity)
	if err != nil {
		t.Fatalf("curve %s: %v", commodity, err)
	}
	if err := w.Repos.Ports.UpsertStock(context.Background(), w.PortID(t, portName), commodity, amount, curve.Price(amount)); err != nil {
		t.Fatalf("set stock: %v", err)
	}
}

// RegisterPlayer registers a player through the mediator
func (w *TestWorld) RegisterPlayer(t *testing.T, username string) shared.PlayerID {
	t.Helper()
	resp, err := w.Mediator.Send(context.Background(), &playerCommands.RegisterPlayerCommand{Username: username})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	id, err := shared.NewPlayerID(resp.(*playerCommands.RegisterPlayerResponse).PlayerID)
	if err != nil {
		t.Fatalf("player id: %v", err)
	}
	return id
}

// BuyVessel purchases a vessel of the given type for a player
func (w *TestWorld) BuyVessel(t *testing.T, playerID shared.PlayerID, vesselType shared.VesselType) *vesselCommands.PurchaseVesselResponse {
	t.Helper()
	resp, err := w.Mediator.Send(context.Background(), &vesselCommands.PurchaseVesselCommand{
		PlayerID:   playerID.String(),
		VesselType: vesselType.String(),
	})
	if err != nil {
		t.Fatalf("buy %s: %v", vesselType, err)
	}
	return resp.(*vesselCommands.PurchaseVesselResponse)
}

// Send dispatches a request and fails the test on error
func (w *TestWorld) Send(t *testing.T, request common.Request) common.Response {
	t.Helper()
	resp, err := w.Mediator.Send(context.Background(), request)
	if err != nil {
		t.Fatalf("%T: %v", request, err)
	}
	return resp
}

// RoomyConfig gives players and vessels enough coins and fuel for the long
// routes of the built-in world
func RoomyConfig(cfg *config.Config) {
	cfg.Game.Initial.Coins = 10000
	cfg.Game.Initial.MaxFuel = 1000
	cfg.Game.Initial.Fuel = 1000
}

// LedgerTotals sums a player's ledger amounts per transaction type
func (w *TestWorld) LedgerTotals(t *testing.T, playerID shared.PlayerID) map[string]int {
	t.Helper()
	resp := w.Send(t, &ledgerQueries.GetTransactionsQuery{PlayerID: playerID.String(), Limit: 1000}).(*ledgerQueries.GetTransactionsResponse)
	totals := make(map[string]int)
	for _, tx := range resp.Transactions {
		totals[tx.Type] += tx.Amount
	}
	return totals
}
