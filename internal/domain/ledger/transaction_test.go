package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

func TestNewTransaction_DerivesBalanceBefore(t *testing.T) {
	tx, err := NewTransaction(shared.GeneratePlayerID(), time.Now(), TransactionTypePurchaseCargo, -200, 800, "10 oil", nil, "v-1")

	require.NoError(t, err)
	assert.Equal(t, 1000, tx.BalanceBefore())
	assert.Equal(t, 800, tx.BalanceAfter())
	assert.Equal(t, CategoryTradingCosts, tx.Category())
	assert.False(t, tx.IsIncome())
}

func TestNewTransaction_Rejections(t *testing.T) {
	player := shared.GeneratePlayerID()

	_, err := NewTransaction(player, time.Now(), TransactionTypeSellCargo, 0, 100, "", nil, "")
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))

	_, err = NewTransaction(player, time.Now(), TransactionType("BRIBE"), 10, 100, "", nil, "")
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))

	_, err = NewTransaction(shared.PlayerID{}, time.Now(), TransactionTypeSellCargo, 10, 100, "", nil, "")
	assert.Error(t, err)
}

func TestValidate_BalanceInvariant(t *testing.T) {
	tx := ReconstructTransaction(NewTransactionID(), shared.GeneratePlayerID(), time.Now(),
		TransactionTypeRefuel, CategoryFuelCosts, -50, 100, 60, "", nil, "")

	err := tx.Validate()

	assert.Equal(t, shared.KindInvariant, shared.KindOf(err))
}

func TestEveryTypeHasCategory(t *testing.T) {
	for _, tt := range AllTransactionTypes() {
		c, err := tt.Category()
		require.NoError(t, err, tt)
		assert.True(t, c.IsValid())
	}
}
