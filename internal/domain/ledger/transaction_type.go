package ledger

import (
	"fmt"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// TransactionType is the kind of coin movement being recorded
type TransactionType string

const (
	TransactionTypePurchaseVessel TransactionType = "PURCHASE_VESSEL"
	TransactionTypePurchaseCargo  TransactionType = "PURCHASE_CARGO"
	TransactionTypeSellCargo      TransactionType = "SELL_CARGO"
	TransactionTypeRefuel         TransactionType = "REFUEL"
	TransactionTypeRepair         TransactionType = "REPAIR"
	TransactionTypeTow            TransactionType = "TOW"
	TransactionTypeUpgrade        TransactionType = "UPGRADE"

	// TransactionTypeRefund reverses a debit whose follow-up step failed
	TransactionTypeRefund TransactionType = "REFUND"
)

// AllTransactionTypes returns all valid transaction types
func AllTransactionTypes() []TransactionType {
	return []TransactionType{
		TransactionTypePurchaseVessel,
		TransactionTypePurchaseCargo,
		TransactionTypeSellCargo,
		TransactionTypeRefuel,
		TransactionTypeRepair,
		TransactionTypeTow,
		TransactionTypeUpgrade,
		TransactionTypeRefund,
	}
}

func (t TransactionType) String() string {
	return string(t)
}

func (t TransactionType) IsValid() bool {
	_, ok := typeCategories[t]
	return ok
}

// Category maps the transaction type to its reporting category
func (t TransactionType) Category() (Category, error) {
	category, ok := typeCategories[t]
	if !ok {
		return "", fmt.Errorf("unknown transaction type: %s", t)
	}
	return category, nil
}

// ParseTransactionType parses a string into a TransactionType
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.IsValid() {
		return "", shared.NewValidationError("type", fmt.Sprintf("invalid transaction type: %s", s))
	}
	return t, nil
}
