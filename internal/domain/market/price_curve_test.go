package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

func testCurve() PriceCurve {
	return PriceCurve{ReferenceAmount: 1000, MinPrice: 10, MaxPrice: 50, MinAmount: 10, CeilingPrice: 60}
}

func TestPriceCurve_Bounds(t *testing.T) {
	curve := testCurve()

	assert.Equal(t, 50, curve.Price(0))
	assert.Equal(t, 50, curve.Price(10), "stock at the min amount sells at max price")
	assert.Equal(t, 10, curve.Price(1000))
	assert.Equal(t, 10, curve.Price(5000))
}

func TestPriceCurve_LinearInterpolation(t *testing.T) {
	curve := testCurve()

	// 10 + 40 * (1 - 0.5)
	assert.Equal(t, 30, curve.Price(500))
	// 10 + 40 * (1 - 0.25)
	assert.Equal(t, 40, curve.Price(250))
}

func TestPriceCurve_MonotonicallyNonIncreasing(t *testing.T) {
	for _, curve := range []PriceCurve{
		testCurve(),
		{ReferenceAmount: 300, MinPrice: 1, MaxPrice: 7, MinAmount: 0},
		{ReferenceAmount: 1, MinPrice: 5, MaxPrice: 5, MinAmount: 0},
	} {
		prev := curve.Price(0)
		assert.Equal(t, curve.MaxPrice, prev)
		for stock := 1; stock <= curve.ReferenceAmount*2; stock++ {
			p := curve.Price(stock)
			require.LessOrEqual(t, p, prev, "price rose at stock %d", stock)
			prev = p
		}
		assert.Equal(t, curve.MinPrice, prev)
	}
}

func TestPriceCurve_Ceiling(t *testing.T) {
	assert.Equal(t, 60, testCurve().Ceiling())

	noCeiling := testCurve()
	noCeiling.CeilingPrice = 0
	assert.Equal(t, 50, noCeiling.Ceiling())
}

func TestPriceCurve_Validate(t *testing.T) {
	assert.NoError(t, testCurve().Validate())
	assert.Error(t, PriceCurve{ReferenceAmount: 0, MaxPrice: 1}.Validate())
	assert.Error(t, PriceCurve{ReferenceAmount: 10, MinPrice: 5, MaxPrice: 1}.Validate())
}

func TestPriceBook_UnknownCommodityIsFree(t *testing.T) {
	book := PriceBook{shared.CommodityOil: testCurve()}

	assert.Equal(t, 50, book.Price(shared.CommodityOil, 0))
	assert.Equal(t, 0, book.Price(shared.CommodityMaterials, 0))

	_, err := book.Curve(shared.CommodityMaterials)
	assert.Error(t, err)
}
