package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

func oilRule() GenerationRule {
	return GenerationRule{
		Generates: shared.CommodityOil,
		Requires: map[shared.Commodity]int{
			shared.CommodityMaterials:  1,
			shared.CommodityProvisions: 1,
		},
		Output: 3,
	}
}

func depositAndGenerate(t *testing.T, port *Port, rule GenerationRule, c shared.Commodity, amount int) *GenerationResult {
	t.Helper()
	_, err := port.Deposit(c, amount, testBook())
	require.NoError(t, err)

	result := rule.Plan(port)
	if result != nil {
		require.NoError(t, port.Apply(result.Deltas(), testBook()))
	}
	return result
}

func TestGeneration_FiveCyclesEitherOrder(t *testing.T) {
	orders := [][]shared.Commodity{
		{shared.CommodityMaterials, shared.CommodityProvisions},
		{shared.CommodityProvisions, shared.CommodityMaterials},
	}

	for _, order := range orders {
		port, _ := NewPort("Vladivostok", nil)

		first := depositAndGenerate(t, port, oilRule(), order[0], 5)
		assert.Nil(t, first, "a single input cannot complete a cycle")
		assert.Equal(t, 5, port.Stock(order[0]).Amount, "stock is banked")

		second := depositAndGenerate(t, port, oilRule(), order[1], 5)
		require.NotNil(t, second)
		assert.Equal(t, 5, second.Cycles)
		assert.Equal(t, shared.CommodityOil, second.Generated)
		assert.Equal(t, 15, second.Amount)
		assert.Equal(t, map[shared.Commodity]int{
			shared.CommodityMaterials:  5,
			shared.CommodityProvisions: 5,
		}, second.Used)

		assert.Equal(t, 15, port.Stock(shared.CommodityOil).Amount)
		assert.Equal(t, 0, port.Stock(shared.CommodityMaterials).Amount)
		assert.Equal(t, 0, port.Stock(shared.CommodityProvisions).Amount)
	}
}

func TestGeneration_CyclesLimitedByScarcestInput(t *testing.T) {
	rule := GenerationRule{
		Generates: shared.CommodityMaterials,
		Requires: map[shared.Commodity]int{
			shared.CommodityOil:        2,
			shared.CommodityProvisions: 1,
		},
		Output: 3,
	}
	port, _ := NewPort("St Petersburg", nil)
	_, _ = port.Deposit(shared.CommodityOil, 7, testBook())
	_, _ = port.Deposit(shared.CommodityProvisions, 10, testBook())

	result := rule.Plan(port)

	require.NotNil(t, result)
	assert.Equal(t, 3, result.Cycles)
	assert.Equal(t, 9, result.Amount)
	assert.Equal(t, 6, result.Used[shared.CommodityOil])
	assert.Equal(t, 3, result.Used[shared.CommodityProvisions])
}

func TestGenerationResult_DeltasNetOut(t *testing.T) {
	result := &GenerationResult{
		Generated: shared.CommodityOil,
		Amount:    3,
		Used:      map[shared.Commodity]int{shared.CommodityMaterials: 1},
	}

	assert.Equal(t, map[shared.Commodity]int{
		shared.CommodityMaterials: -1,
		shared.CommodityOil:       3,
	}, result.Deltas())
}

func TestRuleBook(t *testing.T) {
	book, err := NewRuleBook(map[string]GenerationRule{
		"Vladivostok": oilRule(),
		"Novorossiysk": {
			Generates: shared.CommodityProvisions,
			Requires:  map[shared.Commodity]int{shared.CommodityMaterials: 1, shared.CommodityOil: 1},
			Output:    3,
		},
	})
	require.NoError(t, err)

	assert.True(t, book.Produces("Vladivostok", shared.CommodityOil))
	assert.False(t, book.Produces("Vladivostok", shared.CommodityMaterials))
	assert.False(t, book.Produces("Atlantis", shared.CommodityOil))

	producer, ok := book.ProducerOf(shared.CommodityProvisions)
	assert.True(t, ok)
	assert.Equal(t, "Novorossiysk", producer)

	_, ok = book.ProducerOf(shared.CommodityMaterials)
	assert.False(t, ok)
}

func TestNewRuleBook_RejectsInvalidRule(t *testing.T) {
	_, err := NewRuleBook(map[string]GenerationRule{
		"Nowhere": {Generates: shared.CommodityOil, Output: 0},
	})

	assert.Error(t, err)
}
