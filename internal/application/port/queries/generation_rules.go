package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/searoutes-go/internal/application/common"
	"github.com/andrescamacho/searoutes-go/internal/domain/market"
)

// GenerationRulesQuery lists every port recipe
type GenerationRulesQuery struct{}

// GenerationRuleDTO describes what a port makes from delivered inputs
type GenerationRuleDTO struct {
	Port      string         `json:"port"`
	Generates string         `json:"generates"`
	Requires  map[string]int `json:"requires"`
	Output    int            `json:"output"`
}

// GenerationRulesResponse lists recipes ordered by port name
type GenerationRulesResponse struct {
	Rules []*GenerationRuleDTO `json:"rules"`
}

// GenerationRulesHandler handles the GenerationRules query
type GenerationRulesHandler struct {
	rules *market.RuleBook
}

// NewGenerationRulesHandler creates a new GenerationRulesHandler
func NewGenerationRulesHandler(rules *market.RuleBook) *GenerationRulesHandler {
	return &GenerationRulesHandler{rules: rules}
}

// Handle executes the GenerationRules query
func (h *GenerationRulesHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*GenerationRulesQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *GenerationRulesQuery")
	}

	resp := &GenerationRulesResponse{Rules: make([]*GenerationRuleDTO, 0)}
	for _, name := range h.rules.PortNames() {
		rule, _ := h.rules.ForPort(name)
		requires := make(map[string]int, len(rule.Requires))
		for c, n := range rule.Requires {
			requires[c.String()] = n
		}
		resp.Rules = append(resp.Rules, &GenerationRuleDTO{
			Port:      name,
			Generates: rule.Generates.String(),
			Requires:  requires,
			Output:    rule.Output,
		})
	}
	return resp, nil
}
