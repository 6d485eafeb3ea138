package market

import (
	"fmt"
	"sort"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// GenerationRule is a port's recipe: inputs consumed per cycle and the
// commodity produced
type GenerationRule struct {
	Generates shared.Commodity
	Requires  map[shared.Commodity]int
	Output    int
}

// GenerationResult reports what one generation pass did
type GenerationResult struct {
	Generated shared.Commodity
	Amount    int
	Used      map[shared.Commodity]int
	Cycles    int
}

// Validate checks the rule can run
func (r GenerationRule) Validate() error {
	if !r.Generates.IsValid() {
		return fmt.Errorf("unknown generated commodity %q", r.Generates)
	}
	if r.Output <= 0 {
		return fmt.Errorf("output must be positive")
	}
	if len(r.Requires) == 0 {
		return fmt.Errorf("rule needs at least one input")
	}
	for c, n := range r.Requires {
		if !c.IsValid() {
			return fmt.Errorf("unknown input commodity %q", c)
		}
		if n <= 0 {
			return fmt.Errorf("input %s must be positive", c)
		}
	}
	return nil
}

// RequiresCommodity reports whether c is one of the inputs
func (r GenerationRule) RequiresCommodity(c shared.Commodity) bool {
	_, ok := r.Requires[c]
	return ok
}

// Cycles returns how many complete recipe runs the on-hand stock affords
func (r GenerationRule) Cycles(onHand func(shared.Commodity) int) int {
	cycles := -1
	for c, need := range r.Requires {
		n := onHand(c) / need
		if cycles < 0 || n < cycles {
			cycles = n
		}
	}
	if cycles < 0 {
		return 0
	}
	return cycles
}

// Plan computes the generation a port can run right now, or nil
func (r GenerationRule) Plan(port *Port) *GenerationResult {
	cycles := r.Cycles(func(c shared.Commodity) int {
		return port.Stock(c).Amount
	})
	if cycles < 1 {
		return nil
	}

	used := make(map[shared.Commodity]int, len(r.Requires))
	for c, need := range r.Requires {
		used[c] = need * cycles
	}
	return &GenerationResult{
		Generated: r.Generates,
		Amount:    r.Output * cycles,
		Used:      used,
		Cycles:    cycles,
	}
}

// Deltas converts the result into signed stock adjustments
func (g *GenerationResult) Deltas() map[shared.Commodity]int {
	deltas := make(map[shared.Commodity]int, len(g.Used)+1)
	for c, n := range g.Used {
		deltas[c] -= n
	}
	deltas[g.Generated] += g.Amount
	return deltas
}

// RuleBook maps port names to their recipe
type RuleBook struct {
	byPort map[string]GenerationRule
}

// NewRuleBook validates and indexes rules by port name
func NewRuleBook(rules map[string]GenerationRule) (*RuleBook, error) {
	book := &RuleBook{byPort: make(map[string]GenerationRule, len(rules))}
	for port, rule := range rules {
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("generation rule for %s: %w", port, err)
		}
		book.byPort[port] = rule
	}
	return book, nil
}

// ForPort returns the rule of a port
func (b *RuleBook) ForPort(portName string) (GenerationRule, bool) {
	rule, ok := b.byPort[portName]
	return rule, ok
}

// Produces reports whether the named port generates c. Only a port's
// generated output can be loaded there.
func (b *RuleBook) Produces(portName string, c shared.Commodity) bool {
	rule, ok := b.byPort[portName]
	return ok && rule.Generates == c
}

// ProducerOf returns the name of the first port (by name) generating c
func (b *RuleBook) ProducerOf(c shared.Commodity) (string, bool) {
	for _, name := range b.PortNames() {
		if b.byPort[name].Generates == c {
			return name, true
		}
	}
	return "", false
}

// PortNames returns every port that has a rule, sorted
func (b *RuleBook) PortNames() []string {
	names := make([]string, 0, len(b.byPort))
	for name := range b.byPort {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rules returns a copy of the rule table
func (b *RuleBook) Rules() map[string]GenerationRule {
	out := make(map[string]GenerationRule, len(b.byPort))
	for k, v := range b.byPort {
		out[k] = v
	}
	return out
}
