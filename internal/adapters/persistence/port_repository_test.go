package persistence_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/searoutes-go/internal/adapters/persistence"
	"github.com/andrescamacho/searoutes-go/internal/domain/market"
	"github.com/andrescamacho/searoutes-go/internal/domain/navigation"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/test/helpers"
)

var testPrices = market.PriceBook{
	shared.CommodityOil:        {ReferenceAmount: 200, MinPrice: 8, MaxPrice: 30, MinAmount: 10, CeilingPrice: 40},
	shared.CommodityMaterials:  {ReferenceAmount: 200, MinPrice: 10, MaxPrice: 35, MinAmount: 10, CeilingPrice: 45},
	shared.CommodityProvisions: {ReferenceAmount: 200, MinPrice: 6, MaxPrice: 25, MinAmount: 10, CeilingPrice: 32},
}

func savePort(t *testing.T, repo *persistence.GormPortRepository, name string, oil int) *market.Port {
	t.Helper()
	p, err := market.NewPort(name, &navigation.Coordinates{Lat: 43.1, Lon: 131.9})
	require.NoError(t, err)
	require.NoError(t, p.SetStock(shared.CommodityOil, oil, testPrices.Price(shared.CommodityOil, oil)))
	require.NoError(t, repo.Save(context.Background(), p))
	return p
}

func TestPortRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewGormPortRepository(helpers.NewTestDB(t), nil)
	p := savePort(t, repo, "Vladivostok", 150)

	byID, err := repo.FindByID(ctx, p.ID())
	require.NoError(t, err)
	byName, err := repo.FindByName(ctx, "Vladivostok")
	require.NoError(t, err)

	assert.Equal(t, p.ID(), byName.ID())
	assert.Equal(t, 150, byID.Stock(shared.CommodityOil).Amount)
	require.NotNil(t, byID.Coordinates())
	assert.InDelta(t, 43.1, byID.Coordinates().Lat, 1e-9)
}

func TestPortRepository_FindAllOrderedByName(t *testing.T) {
	repo := persistence.NewGormPortRepository(helpers.NewTestDB(t), nil)
	savePort(t, repo, "Saint Petersburg", 0)
	savePort(t, repo, "Novorossiysk", 0)

	ports, err := repo.FindAll(context.Background())
	require.NoError(t, err)

	require.Len(t, ports, 2)
	assert.Equal(t, "Novorossiysk", ports[0].Name())
	assert.Equal(t, "Saint Petersburg", ports[1].Name())
}

func TestPortRepository_UpsertStock(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewGormPortRepository(helpers.NewTestDB(t), nil)
	p := savePort(t, repo, "Vladivostok", 150)

	require.NoError(t, repo.UpsertStock(ctx, p.ID(), shared.CommodityMaterials, 7, 33))
	require.NoError(t, repo.UpsertStock(ctx, p.ID(), shared.CommodityOil, 5, 30))

	found, err := repo.FindByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, market.StockEntry{Commodity: shared.CommodityMaterials, Amount: 7, Price: 33}, found.Stock(shared.CommodityMaterials))
	assert.Equal(t, 5, found.Stock(shared.CommodityOil).Amount)
}

func TestPortRepository_AdjustStockReprices(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewGormPortRepository(helpers.NewTestDB(t), nil)
	p := savePort(t, repo, "Vladivostok", 150)

	entries, err := repo.AdjustStock(ctx, p.ID(), map[shared.Commodity]int{
		shared.CommodityOil:        -50,
		shared.CommodityProvisions: 20,
	}, testPrices)
	require.NoError(t, err)

	assert.Equal(t, 100, entries[shared.CommodityOil].Amount)
	assert.Equal(t, testPrices.Price(shared.CommodityOil, 100), entries[shared.CommodityOil].Price)
	assert.Equal(t, 20, entries[shared.CommodityProvisions].Amount)

	found, err := repo.FindByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, entries[shared.CommodityOil], found.Stock(shared.CommodityOil))
}

func TestPortRepository_AdjustStockIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewGormPortRepository(helpers.NewTestDB(t), nil)
	p := savePort(t, repo, "Vladivostok", 10)

	_, err := repo.AdjustStock(ctx, p.ID(), map[shared.Commodity]int{
		shared.CommodityMaterials: 5,
		shared.CommodityOil:       -11,
	}, testPrices)
	assert.Equal(t, shared.CodeInsufficientStock, shared.CodeOf(err))

	found, err := repo.FindByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, 10, found.Stock(shared.CommodityOil).Amount)
	assert.False(t, found.HasCommodity(shared.CommodityMaterials))
}

func TestPortRepository_AdjustStockUnknownPort(t *testing.T) {
	repo := persistence.NewGormPortRepository(helpers.NewTestDB(t), nil)

	_, err := repo.AdjustStock(context.Background(), "nowhere", map[shared.Commodity]int{shared.CommodityOil: 1}, testPrices)

	assert.True(t, shared.IsNotFound(err))
}

func TestPortRepository_ConcurrentWithdrawalsNeverOversell(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewGormPortRepository(helpers.NewTestDB(t), nil)
	p := savePort(t, repo, "Vladivostok", 100)

	var wg sync.WaitGroup
	var mu sync.Mutex
	sold := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.AdjustStock(ctx, p.ID(), map[shared.Commodity]int{shared.CommodityOil: -30}, testPrices); err == nil {
				mu.Lock()
				sold += 30
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	found, err := repo.FindByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, 90, sold)
	assert.Equal(t, 10, found.Stock(shared.CommodityOil).Amount)
}
