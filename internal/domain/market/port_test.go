package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

func testBook() PriceBook {
	return PriceBook{
		shared.CommodityOil:        testCurve(),
		shared.CommodityMaterials:  {ReferenceAmount: 1000, MinPrice: 12, MaxPrice: 52, MinAmount: 10},
		shared.CommodityProvisions: {ReferenceAmount: 1000, MinPrice: 6, MaxPrice: 30, MinAmount: 10},
	}
}

func TestPort_DepositReprices(t *testing.T) {
	port, err := NewPort("Vladivostok", nil)
	require.NoError(t, err)

	entry, err := port.Deposit(shared.CommodityOil, 500, testBook())

	require.NoError(t, err)
	assert.Equal(t, 500, entry.Amount)
	assert.Equal(t, 30, entry.Price)
	assert.Equal(t, entry, port.Stock(shared.CommodityOil))
}

func TestPort_WithdrawInsufficientStock(t *testing.T) {
	port, _ := NewPort("Vladivostok", nil)
	_, _ = port.Deposit(shared.CommodityOil, 5, testBook())

	_, err := port.Withdraw(shared.CommodityOil, 6, testBook())

	var insufficient *shared.InsufficientResourceError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 6, insufficient.Required)
	assert.Equal(t, 5, insufficient.Available)
	assert.Equal(t, 5, port.Stock(shared.CommodityOil).Amount, "failed withdraw leaves stock untouched")
}

func TestPort_SetStockKeepsExplicitPrice(t *testing.T) {
	port, _ := NewPort("Vladivostok", nil)

	require.NoError(t, port.SetStock(shared.CommodityOil, 500, 99))

	assert.Equal(t, 99, port.Stock(shared.CommodityOil).Price)
}

func TestPort_ApplyIsAllOrNothing(t *testing.T) {
	port, _ := NewPort("Vladivostok", nil)
	_, _ = port.Deposit(shared.CommodityMaterials, 3, testBook())

	err := port.Apply(map[shared.Commodity]int{
		shared.CommodityMaterials:  -2,
		shared.CommodityProvisions: -1,
	}, testBook())

	require.Error(t, err)
	assert.Equal(t, 3, port.Stock(shared.CommodityMaterials).Amount)
	assert.False(t, port.HasCommodity(shared.CommodityProvisions))
}

func TestReconstructPort_RejectsNegativeStock(t *testing.T) {
	_, err := ReconstructPort("id", "name", nil, []StockEntry{{Commodity: shared.CommodityOil, Amount: -1}})

	assert.Error(t, err)
}
