package ledger

import (
	"fmt"
	"time"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// Transaction is an immutable record of one coin movement.
// Invariant: balanceAfter == balanceBefore + amount.
type Transaction struct {
	id              TransactionID
	playerID        shared.PlayerID
	timestamp       time.Time
	transactionType TransactionType
	category        Category
	amount          int // positive for income, negative for expenses
	balanceBefore   int
	balanceAfter    int
	description     string
	metadata        map[string]interface{}
	vesselID        string
}

// NewTransaction records a movement whose balance after is already known
func NewTransaction(
	playerID shared.PlayerID,
	timestamp time.Time,
	transactionType TransactionType,
	amount int,
	balanceAfter int,
	description string,
	metadata map[string]interface{},
	vesselID string,
) (*Transaction, error) {
	if playerID.IsZero() {
		return nil, shared.NewValidationError("player_id", "player_id cannot be empty")
	}
	category, err := transactionType.Category()
	if err != nil {
		return nil, shared.NewValidationError("transaction_type", err.Error())
	}

	t := &Transaction{
		id:              NewTransactionID(),
		playerID:        playerID,
		timestamp:       timestamp,
		transactionType: transactionType,
		category:        category,
		amount:          amount,
		balanceBefore:   balanceAfter - amount,
		balanceAfter:    balanceAfter,
		description:     description,
		metadata:        metadata,
		vesselID:        vesselID,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// ReconstructTransaction rebuilds a stored transaction without re-deriving anything
func ReconstructTransaction(
	id TransactionID,
	playerID shared.PlayerID,
	timestamp time.Time,
	transactionType TransactionType,
	category Category,
	amount, balanceBefore, balanceAfter int,
	description string,
	metadata map[string]interface{},
	vesselID string,
) *Transaction {
	return &Transaction{
		id:              id,
		playerID:        playerID,
		timestamp:       timestamp,
		transactionType: transactionType,
		category:        category,
		amount:          amount,
		balanceBefore:   balanceBefore,
		balanceAfter:    balanceAfter,
		description:     description,
		metadata:        metadata,
		vesselID:        vesselID,
	}
}

// Validate checks the transaction invariants
func (t *Transaction) Validate() error {
	if t.amount == 0 {
		return shared.NewValidationError("amount", "amount cannot be zero")
	}
	if t.balanceAfter < 0 {
		return shared.NewInvariantViolation(
			fmt.Sprintf("balance after %s cannot be negative: %d", t.transactionType, t.balanceAfter), nil)
	}
	if expected := t.balanceBefore + t.amount; t.balanceAfter != expected {
		return shared.NewInvariantViolation(
			fmt.Sprintf("balance invariant violated: %d + %d should equal %d, got %d",
				t.balanceBefore, t.amount, expected, t.balanceAfter), nil)
	}
	return nil
}

func (t *Transaction) ID() TransactionID {
	return t.id
}

func (t *Transaction) PlayerID() shared.PlayerID {
	return t.playerID
}

func (t *Transaction) Timestamp() time.Time {
	return t.timestamp
}

func (t *Transaction) Type() TransactionType {
	return t.transactionType
}

func (t *Transaction) Category() Category {
	return t.category
}

func (t *Transaction) Amount() int {
	return t.amount
}

func (t *Transaction) BalanceBefore() int {
	return t.balanceBefore
}

func (t *Transaction) BalanceAfter() int {
	return t.balanceAfter
}

func (t *Transaction) Description() string {
	return t.description
}

// Metadata returns a copy
func (t *Transaction) Metadata() map[string]interface{} {
	if t.metadata == nil {
		return nil
	}
	out := make(map[string]interface{}, len(t.metadata))
	for k, v := range t.metadata {
		out[k] = v
	}
	return out
}

func (t *Transaction) VesselID() string {
	return t.vesselID
}

func (t *Transaction) IsIncome() bool {
	return t.amount > 0
}

func (t *Transaction) String() string {
	return fmt.Sprintf("Transaction[%s, type=%s, amount=%d, balance=%d->%d]",
		t.id, t.transactionType, t.amount, t.balanceBefore, t.balanceAfter)
}
