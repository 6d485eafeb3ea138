package market

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/andrescamacho/searoutes-go/internal/domain/navigation"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// StockEntry is the amount and current unit price of one commodity at a port
type StockEntry struct {
	Commodity shared.Commodity
	Amount    int
	Price     int
}

// Port is a location with per-commodity stock and dynamically priced trade.
//
// Invariants:
//   - name is non-empty and unique across the world
//   - every stock amount is >= 0
//   - every price is re-derived from the amount after a mutation; only
//     SetStock accepts an explicit price
type Port struct {
	id          string
	name        string
	coordinates *navigation.Coordinates
	stock       map[shared.Commodity]StockEntry
}

// NewPort creates a new port with a fresh id and no stock
func NewPort(name string, coordinates *navigation.Coordinates) (*Port, error) {
	return ReconstructPort(uuid.NewString(), name, coordinates, nil)
}

// ReconstructPort rebuilds a port from persistence
func ReconstructPort(id, name string, coordinates *navigation.Coordinates, stock []StockEntry) (*Port, error) {
	if id == "" {
		return nil, shared.NewValidationError("id", "port id cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("name", "port name cannot be empty")
	}

	p := &Port{
		id:          id,
		name:        name,
		coordinates: coordinates,
		stock:       make(map[shared.Commodity]StockEntry, len(stock)),
	}
	for _, entry := range stock {
		if entry.Amount < 0 || entry.Price < 0 {
			return nil, shared.NewValidationError("stock", fmt.Sprintf("%s stock cannot be negative", entry.Commodity))
		}
		p.stock[entry.Commodity] = entry
	}
	return p, nil
}

func (p *Port) ID() string {
	return p.id
}

func (p *Port) Name() string {
	return p.name
}

func (p *Port) Coordinates() *navigation.Coordinates {
	return p.coordinates
}

// Stock returns the entry for a commodity; a missing commodity is a zero entry
func (p *Port) Stock(c shared.Commodity) StockEntry {
	if entry, ok := p.stock[c]; ok {
		return entry
	}
	return StockEntry{Commodity: c}
}

// HasCommodity reports whether the port has ever carried the commodity
func (p *Port) HasCommodity(c shared.Commodity) bool {
	_, ok := p.stock[c]
	return ok
}

// Stocks returns every entry ordered by commodity
func (p *Port) Stocks() []StockEntry {
	entries := make([]StockEntry, 0, len(p.stock))
	for _, entry := range p.stock {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Commodity < entries[j].Commodity
	})
	return entries
}

// SetStock is the creation path: amount and price are stored as given
func (p *Port) SetStock(c shared.Commodity, amount, price int) error {
	if amount < 0 || price < 0 {
		return shared.NewValidationError("stock", "amount and price cannot be negative")
	}
	p.stock[c] = StockEntry{Commodity: c, Amount: amount, Price: price}
	return nil
}

// Deposit adds stock and reprices
func (p *Port) Deposit(c shared.Commodity, amount int, prices PriceBook) (StockEntry, error) {
	if amount <= 0 {
		return StockEntry{}, shared.NewRuleViolation(shared.CodeInvalidAmount, "deposit amount must be positive")
	}
	return p.adjust(c, amount, prices)
}

// Withdraw removes stock and reprices
func (p *Port) Withdraw(c shared.Commodity, amount int, prices PriceBook) (StockEntry, error) {
	if amount <= 0 {
		return StockEntry{}, shared.NewRuleViolation(shared.CodeInvalidAmount, "withdraw amount must be positive")
	}
	return p.adjust(c, -amount, prices)
}

// Apply performs several signed adjustments all-or-nothing
func (p *Port) Apply(deltas map[shared.Commodity]int, prices PriceBook) error {
	for c, delta := range deltas {
		current := p.Stock(c)
		if current.Amount+delta < 0 {
			return shared.NewInsufficientStockError(c, -delta, current.Amount)
		}
	}
	for c, delta := range deltas {
		if _, err := p.adjust(c, delta, prices); err != nil {
			return err
		}
	}
	return nil
}

func (p *Port) adjust(c shared.Commodity, delta int, prices PriceBook) (StockEntry, error) {
	current := p.Stock(c)
	next := current.Amount + delta
	if next < 0 {
		return StockEntry{}, shared.NewInsufficientStockError(c, -delta, current.Amount)
	}
	entry := StockEntry{Commodity: c, Amount: next, Price: prices.Price(c, next)}
	p.stock[c] = entry
	return entry, nil
}

func (p *Port) String() string {
	return fmt.Sprintf("Port(%s, %s)", p.name, p.id)
}
