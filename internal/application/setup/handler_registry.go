package setup

import (
	"reflect"

	ledgerCommands "github.com/andrescamacho/searoutes-go/internal/application/ledger/commands"
	ledgerQueries "github.com/andrescamacho/searoutes-go/internal/application/ledger/queries"
	"github.com/andrescamacho/searoutes-go/internal/application/mediator"
	playerCommands "github.com/andrescamacho/searoutes-go/internal/application/player/commands"
	playerQueries "github.com/andrescamacho/searoutes-go/internal/application/player/queries"
	portQueries "github.com/andrescamacho/searoutes-go/internal/application/port/queries"
	appVessel "github.com/andrescamacho/searoutes-go/internal/application/vessel"
	vesselCommands "github.com/andrescamacho/searoutes-go/internal/application/vessel/commands"
	vesselQueries "github.com/andrescamacho/searoutes-go/internal/application/vessel/queries"
	"github.com/andrescamacho/searoutes-go/internal/domain/ledger"
	"github.com/andrescamacho/searoutes-go/internal/domain/market"
	"github.com/andrescamacho/searoutes-go/internal/domain/player"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/internal/domain/vessel"
)

// Repositories groups every store the handlers read or write
type Repositories struct {
	Vessels      vessel.VesselRepository
	Ports        market.PortRepository
	Players      player.PlayerRepository
	Earnings     player.EarningsRepository
	Transactions ledger.TransactionRepository
}

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	repos        Repositories
	rules        *appVessel.GameRules
	initialCoins int
	clock        shared.Clock
}

// NewHandlerRegistry creates a new handler registry with required dependencies
func NewHandlerRegistry(repos Repositories, rules *appVessel.GameRules, initialCoins int, clock shared.Clock) *HandlerRegistry {
	// Default to real clock if not provided
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &HandlerRegistry{
		repos:        repos,
		rules:        rules,
		initialCoins: initialCoins,
		clock:        clock,
	}
}

type registration struct {
	request interface{}
	handler mediator.RequestHandler
}

func register(m mediator.Mediator, regs []registration) error {
	for _, reg := range regs {
		if err := m.Register(reflect.TypeOf(reg.request), reg.handler); err != nil {
			return err
		}
	}
	return nil
}

// RegisterLedgerHandlers registers the ledger command and query handlers.
// Vessel handlers record every coin movement through RecordTransactionCommand,
// so this must be registered wherever they are.
func (r *HandlerRegistry) RegisterLedgerHandlers(m mediator.Mediator) error {
	return register(m, []registration{
		{&ledgerCommands.RecordTransactionCommand{}, ledgerCommands.NewRecordTransactionHandler(r.repos.Transactions, r.clock)},
		{&ledgerQueries.GetTransactionsQuery{}, ledgerQueries.NewGetTransactionsHandler(r.repos.Transactions)},
	})
}

// RegisterPlayerHandlers registers registration, lookup, earnings and rating
func (r *HandlerRegistry) RegisterPlayerHandlers(m mediator.Mediator) error {
	return register(m, []registration{
		{&playerCommands.RegisterPlayerCommand{}, playerCommands.NewRegisterPlayerHandler(r.repos.Players, r.initialCoins, r.clock)},
		{&playerQueries.GetPlayerQuery{}, playerQueries.NewGetPlayerHandler(r.repos.Players)},
		{&playerQueries.GetEarningsQuery{}, playerQueries.NewGetEarningsHandler(r.repos.Earnings, r.clock)},
		{&playerQueries.GetRatingQuery{}, playerQueries.NewGetRatingHandler(r.repos.Earnings, r.clock)},
	})
}

// RegisterPortHandlers registers the read-only port queries
func (r *HandlerRegistry) RegisterPortHandlers(m mediator.Mediator) error {
	return register(m, []registration{
		{&portQueries.ListPortsQuery{}, portQueries.NewListPortsHandler(r.repos.Ports)},
		{&portQueries.GetPortQuery{}, portQueries.NewGetPortHandler(r.repos.Ports)},
		{&portQueries.PortDistanceQuery{}, portQueries.NewPortDistanceHandler(r.repos.Ports, r.rules.Planner)},
		{&portQueries.GenerationRulesQuery{}, portQueries.NewGenerationRulesHandler(r.rules.Recipes)},
	})
}

// RegisterVesselHandlers registers the vessel state machine commands and the
// vessel queries. Every handler shares one completer so lazy arrival is
// applied the same way everywhere.
func (r *HandlerRegistry) RegisterVesselHandlers(m mediator.Mediator) error {
	completer := appVessel.NewTravelCompleter(r.repos.Vessels, r.clock)
	treasury := appVessel.NewTreasury(r.repos.Players, m)

	return register(m, []registration{
		{&vesselCommands.SendVesselCommand{}, vesselCommands.NewSendVesselHandler(r.repos.Vessels, r.repos.Ports, completer, r.rules, r.clock)},
		{&vesselCommands.CompleteTravelCommand{}, vesselCommands.NewCompleteTravelHandler(completer)},
		{&vesselCommands.LoadCargoCommand{}, vesselCommands.NewLoadCargoHandler(r.repos.Vessels, r.repos.Ports, treasury, completer, r.rules, r.clock)},
		{&vesselCommands.UnloadCargoCommand{}, vesselCommands.NewUnloadCargoHandler(r.repos.Vessels, r.repos.Ports, r.repos.Earnings, treasury, completer, r.rules, r.clock)},
		{&vesselCommands.RepairVesselCommand{}, vesselCommands.NewRepairVesselHandler(r.repos.Vessels, treasury, completer, r.rules, r.clock)},
		{&vesselCommands.RefuelVesselCommand{}, vesselCommands.NewRefuelVesselHandler(r.repos.Vessels, r.repos.Ports, treasury, completer, r.rules, r.clock)},
		{&vesselCommands.TowVesselCommand{}, vesselCommands.NewTowVesselHandler(r.repos.Vessels, r.repos.Ports, treasury, completer, r.rules, r.clock)},
		{&vesselCommands.UpgradeVesselCommand{}, vesselCommands.NewUpgradeVesselHandler(r.repos.Vessels, treasury, completer, r.rules, r.clock)},
		{&vesselCommands.PurchaseVesselCommand{}, vesselCommands.NewPurchaseVesselHandler(r.repos.Vessels, r.repos.Players, r.repos.Ports, treasury, r.rules, r.clock)},
		{&vesselCommands.SweepDueTravelsCommand{}, vesselCommands.NewSweepDueTravelsHandler(r.repos.Vessels, completer, r.clock)},

		{&vesselQueries.GetVesselQuery{}, vesselQueries.NewGetVesselHandler(completer)},
		{&vesselQueries.ListVesselsQuery{}, vesselQueries.NewListVesselsHandler(r.repos.Vessels, completer)},
		{&vesselQueries.TripPreviewQuery{}, vesselQueries.NewTripPreviewHandler(r.repos.Ports, completer, r.rules, r.clock)},
		{&vesselQueries.RefuelInfoQuery{}, vesselQueries.NewRefuelInfoHandler(r.repos.Ports, completer, r.rules)},
		{&vesselQueries.RepairInfoQuery{}, vesselQueries.NewRepairInfoHandler(completer, r.rules)},
		{&vesselQueries.TowInfoQuery{}, vesselQueries.NewTowInfoHandler(r.repos.Ports, completer, r.rules)},
		{&vesselQueries.VesselPriceQuery{}, vesselQueries.NewVesselPriceHandler(r.repos.Vessels, r.rules)},
	})
}

// CreateConfiguredMediator creates a mediator with every handler registered.
// Middlewares are installed in order, the first one outermost.
func (r *HandlerRegistry) CreateConfiguredMediator(middlewares ...mediator.Middleware) (mediator.Mediator, error) {
	m := mediator.NewMediator()
	for _, mw := range middlewares {
		m.RegisterMiddleware(mw)
	}

	registrations := []func(mediator.Mediator) error{
		r.RegisterLedgerHandlers,
		r.RegisterPlayerHandlers,
		r.RegisterPortHandlers,
		r.RegisterVesselHandlers,
	}
	for _, fn := range registrations {
		if err := fn(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}
