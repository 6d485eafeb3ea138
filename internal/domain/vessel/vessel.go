package vessel

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/searoutes-go/internal/domain/navigation"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// Travel is the in-progress voyage of a vessel. A vessel either has all of
// these fields or none of them.
type Travel struct {
	DestinationPortID string
	StartedAt         time.Time
	EndsAt            time.Time
}

// Stats are lifetime counters
type Stats struct {
	DistanceTraveled float64
	TripsCompleted   int
	TotalProfit      int
	TotalCosts       int
}

const (
	MinCrewLevel = 1
	MaxCrewLevel = 10
)

// CargoLimits bounds a single load
type CargoLimits struct {
	Min int
	Max int
}

// Contains reports whether amount is a legal load size
func (l CargoLimits) Contains(amount int) bool {
	return amount >= l.Min && amount <= l.Max
}

// Vessel is a player-owned transport unit.
//
// Travel state machine:
//   - Idle@Port -> StartVoyage() -> Traveling(destination, endsAt)
//   - Traveling -> CompleteTravel() -> Idle@destination
//
// Cargo is orthogonal to travel: a vessel can sail loaded or empty.
//
// Invariants:
//   - fuel and health stay within [0, max]
//   - travel fields are set or cleared together
//   - at most one cargo slot
type Vessel struct {
	id            string
	ownerID       shared.PlayerID
	name          string
	vesselType    shared.VesselType
	currentPortID string
	fuel          *shared.Fuel
	health        *shared.Health
	crewLevel     int
	cargo         *shared.CargoHold
	travel        *Travel
	stats         Stats
	createdAt     time.Time
	updatedAt     time.Time
}

// NewVessel creates a freshly purchased vessel idle at a port
func NewVessel(
	ownerID shared.PlayerID,
	name string,
	vesselType shared.VesselType,
	portID string,
	fuel *shared.Fuel,
	health *shared.Health,
	crewLevel int,
	now time.Time,
) (*Vessel, error) {
	return ReconstructVessel(uuid.NewString(), ownerID, name, vesselType, portID, fuel, health, crewLevel, nil, nil, Stats{}, now, now)
}

// ReconstructVessel rebuilds a vessel from persistence
func ReconstructVessel(
	id string,
	ownerID shared.PlayerID,
	name string,
	vesselType shared.VesselType,
	portID string,
	fuel *shared.Fuel,
	health *shared.Health,
	crewLevel int,
	cargo *shared.CargoHold,
	travel *Travel,
	stats Stats,
	createdAt time.Time,
	updatedAt time.Time,
) (*Vessel, error) {
	v := &Vessel{
		id:            id,
		ownerID:       ownerID,
		name:          name,
		vesselType:    vesselType,
		currentPortID: portID,
		fuel:          fuel,
		health:        health,
		crewLevel:     crewLevel,
		cargo:         cargo,
		travel:        travel,
		stats:         stats,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}

	if err := v.validate(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Vessel) validate() error {
	if v.id == "" {
		return shared.NewValidationError("id", "vessel id cannot be empty")
	}
	if v.ownerID.IsZero() {
		return shared.NewValidationError("owner_id", "vessel must have an owner")
	}
	if !v.vesselType.IsValid() {
		return shared.NewRuleViolation(shared.CodeInvalidVesselType, fmt.Sprintf("unknown vessel type %q", v.vesselType))
	}
	if v.currentPortID == "" {
		return shared.NewValidationError("current_port_id", "vessel must be at a port")
	}
	if v.fuel == nil {
		return shared.NewValidationError("fuel", "fuel cannot be nil")
	}
	if v.health == nil {
		return shared.NewValidationError("health", "health cannot be nil")
	}
	if v.crewLevel < MinCrewLevel || v.crewLevel > MaxCrewLevel {
		return shared.NewValidationError("crew_level", fmt.Sprintf("crew level must be between %d and %d", MinCrewLevel, MaxCrewLevel))
	}
	if v.cargo != nil && !v.vesselType.Carries(v.cargo.Commodity) {
		return shared.NewValidationError("cargo", fmt.Sprintf("%s cannot carry %s", v.vesselType, v.cargo.Commodity))
	}
	if v.travel != nil && (v.travel.DestinationPortID == "" || v.travel.EndsAt.IsZero() || v.travel.StartedAt.IsZero()) {
		return shared.NewValidationError("travel", "travel fields must be set together")
	}
	return nil
}

// Getters

func (v *Vessel) ID() string {
	return v.id
}

func (v *Vessel) OwnerID() shared.PlayerID {
	return v.ownerID
}

func (v *Vessel) Name() string {
	return v.name
}

func (v *Vessel) Type() shared.VesselType {
	return v.vesselType
}

func (v *Vessel) CurrentPortID() string {
	return v.currentPortID
}

func (v *Vessel) Fuel() *shared.Fuel {
	return v.fuel
}

func (v *Vessel) Health() *shared.Health {
	return v.health
}

func (v *Vessel) CrewLevel() int {
	return v.crewLevel
}

func (v *Vessel) Cargo() *shared.CargoHold {
	return v.cargo
}

func (v *Vessel) Travel() *Travel {
	return v.travel
}

func (v *Vessel) Stats() Stats {
	return v.stats
}

func (v *Vessel) CreatedAt() time.Time {
	return v.createdAt
}

func (v *Vessel) UpdatedAt() time.Time {
	return v.updatedAt
}

// Touch stamps the last modification time
func (v *Vessel) Touch(now time.Time) {
	v.updatedAt = now
}

func (v *Vessel) IsLoaded() bool {
	return v.cargo != nil
}

func (v *Vessel) IsTraveling() bool {
	return v.travel != nil
}

// IsArrivalDue is the single arrival rule: traveling and travel end <= now
func (v *Vessel) IsArrivalDue(now time.Time) bool {
	return v.travel != nil && !v.travel.EndsAt.After(now)
}

// EnsureDocked fails when the vessel is at sea
func (v *Vessel) EnsureDocked() error {
	if v.IsTraveling() {
		return shared.NewRuleViolation(shared.CodeVesselTraveling, fmt.Sprintf("vessel %s is traveling", v.name))
	}
	return nil
}

// Travel transitions

// StartVoyage debits fuel and stamps the travel fields
func (v *Vessel) StartVoyage(destinationPortID string, plan navigation.TripPlan, now time.Time) error {
	if v.IsTraveling() {
		return shared.NewRuleViolation(shared.CodeAlreadyTraveling, fmt.Sprintf("vessel %s is already traveling", v.name))
	}
	if destinationPortID == v.currentPortID {
		return shared.NewRuleViolation(shared.CodeSameDestination, "vessel is already at this port")
	}
	if !v.fuel.CanAfford(plan.FuelCost) {
		return shared.NewInsufficientFuelError(plan.FuelCost, v.fuel.Current)
	}

	fuel, err := v.fuel.Consume(plan.FuelCost)
	if err != nil {
		return err
	}

	v.fuel = fuel
	v.travel = &Travel{
		DestinationPortID: destinationPortID,
		StartedAt:         now,
		EndsAt:            now.Add(plan.Duration),
	}
	v.stats.DistanceTraveled += plan.Distance
	v.stats.TripsCompleted++
	v.updatedAt = now
	return nil
}

// CompleteTravel moves a traveling vessel to its destination. Returns false
// without changes when the vessel is already idle, so redundant calls from the
// sweeper and from a direct check are harmless.
func (v *Vessel) CompleteTravel(now time.Time) bool {
	if v.travel == nil {
		return false
	}
	v.currentPortID = v.travel.DestinationPortID
	v.travel = nil
	v.updatedAt = now
	return true
}

// Cargo transitions

// ValidateLoad checks everything about a load the vessel itself can decide
func (v *Vessel) ValidateLoad(commodity shared.Commodity, amount int, limits CargoLimits) error {
	if err := v.EnsureDocked(); err != nil {
		return err
	}
	if v.IsLoaded() {
		return shared.NewRuleViolation(shared.CodeCargoAlreadyLoaded, "vessel already carries cargo")
	}
	if !limits.Contains(amount) {
		return shared.NewRuleViolation(shared.CodeInvalidAmount,
			fmt.Sprintf("cargo amount must be between %d and %d", limits.Min, limits.Max))
	}
	if !v.vesselType.Carries(commodity) {
		return shared.NewRuleViolation(shared.CodeCommodityMismatch,
			fmt.Sprintf("a %s can only carry %s", v.vesselType, v.vesselType.Commodity()))
	}
	return nil
}

// LoadCargo fills the cargo slot
func (v *Vessel) LoadCargo(hold *shared.CargoHold, limits CargoLimits, now time.Time) error {
	if err := v.ValidateLoad(hold.Commodity, hold.Amount, limits); err != nil {
		return err
	}
	v.cargo = hold
	v.stats.TotalCosts += hold.CostBasis()
	v.updatedAt = now
	return nil
}

// ValidateUnload enforces the anti-arbitrage rule: cargo cannot be sold at
// the port it was bought from
func (v *Vessel) ValidateUnload() error {
	if v.cargo == nil {
		return shared.NewRuleViolation(shared.CodeCargoEmpty, "vessel has no cargo")
	}
	if err := v.EnsureDocked(); err != nil {
		return err
	}
	if v.cargo.PurchasePortID == v.currentPortID {
		return shared.NewRuleViolation(shared.CodeSamePortSale,
			"cargo cannot be sold at the port where it was bought")
	}
	return nil
}

// ClearCargo empties the slot and books the realised profit
func (v *Vessel) ClearCargo(profit int, now time.Time) *shared.CargoHold {
	hold := v.cargo
	v.cargo = nil
	v.stats.TotalProfit += profit
	v.updatedAt = now
	return hold
}

// Maintenance transitions

// RepairAmount resolves how many health points a repair request covers.
// A nil request means a full repair.
func (v *Vessel) RepairAmount(requested *int) (int, error) {
	if err := v.EnsureDocked(); err != nil {
		return 0, err
	}
	if v.health.IsFull() {
		return 0, shared.NewRuleViolation(shared.CodeAlreadyFullHealth, "vessel is already at full health")
	}
	missing := v.health.Missing()
	if requested == nil {
		return missing, nil
	}
	if *requested <= 0 {
		return 0, shared.NewRuleViolation(shared.CodeInvalidAmount, "repair amount must be positive")
	}
	if *requested > missing {
		return missing, nil
	}
	return *requested, nil
}

// Repair raises health and books the cost
func (v *Vessel) Repair(amount, cost int, now time.Time) {
	v.health = v.health.Restore(amount)
	v.stats.TotalCosts += cost
	v.updatedAt = now
}

// RefuelAmount caps a refuel request at the remaining tank capacity
func (v *Vessel) RefuelAmount(requested int) (int, error) {
	if err := v.EnsureDocked(); err != nil {
		return 0, err
	}
	if requested <= 0 {
		return 0, shared.NewRuleViolation(shared.CodeInvalidAmount, "refuel amount must be positive")
	}
	if v.fuel.IsFull() {
		return 0, shared.NewRuleViolation(shared.CodeTankFull, "fuel tank is already full")
	}
	if missing := v.fuel.Missing(); requested > missing {
		return missing, nil
	}
	return requested, nil
}

// Refuel adds fuel and books the cost
func (v *Vessel) Refuel(amount, cost int, now time.Time) error {
	fuel, err := v.fuel.Add(amount)
	if err != nil {
		return err
	}
	v.fuel = fuel
	v.stats.TotalCosts += cost
	v.updatedAt = now
	return nil
}

// ValidateTow checks a tow to the given port is possible
func (v *Vessel) ValidateTow(portID string) error {
	if err := v.EnsureDocked(); err != nil {
		return err
	}
	if v.currentPortID == portID {
		return shared.NewRuleViolation(shared.CodeAlreadyAtPort, "vessel is already at the tow destination")
	}
	return nil
}

// TowTo relocates the vessel instantly and drains its tank
func (v *Vessel) TowTo(portID string, fee int, now time.Time) error {
	if err := v.ValidateTow(portID); err != nil {
		return err
	}
	v.currentPortID = portID
	v.fuel = v.fuel.Empty()
	v.stats.TotalCosts += fee
	v.updatedAt = now
	return nil
}

// TowForRepair relocates the vessel instantly to a repair yard. Unlike an
// emergency tow the tank is left as it is.
func (v *Vessel) TowForRepair(portID string, fee int, now time.Time) error {
	if err := v.ValidateTow(portID); err != nil {
		return err
	}
	v.currentPortID = portID
	v.stats.TotalCosts += fee
	v.updatedAt = now
	return nil
}

// ValidateCrewUpgrade checks the crew can be trained one more level
func (v *Vessel) ValidateCrewUpgrade() error {
	if err := v.EnsureDocked(); err != nil {
		return err
	}
	if v.crewLevel >= MaxCrewLevel {
		return shared.NewRuleViolation(shared.CodeMaxCrewLevel, fmt.Sprintf("crew is already at level %d", MaxCrewLevel))
	}
	return nil
}

// UpgradeCrew raises the crew level by one and books the cost
func (v *Vessel) UpgradeCrew(cost int, now time.Time) error {
	if err := v.ValidateCrewUpgrade(); err != nil {
		return err
	}
	v.crewLevel++
	v.stats.TotalCosts += cost
	v.updatedAt = now
	return nil
}

func (v *Vessel) String() string {
	status := "idle@" + v.currentPortID
	if v.travel != nil {
		status = "traveling->" + v.travel.DestinationPortID
	}
	return fmt.Sprintf("Vessel(%s, %s, %s, %s)", v.name, v.vesselType, status, v.fuel)
}
