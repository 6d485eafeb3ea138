package ledger

import (
	"fmt"

	"github.com/google/uuid"
)

// TransactionID identifies one ledger entry
type TransactionID struct {
	value string
}

func NewTransactionID() TransactionID {
	return TransactionID{value: uuid.NewString()}
}

// ParseTransactionID validates a stored or user supplied id
func ParseTransactionID(id string) (TransactionID, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TransactionID{}, fmt.Errorf("invalid transaction_id %q: %w", id, err)
	}
	return TransactionID{value: id}, nil
}

func (t TransactionID) String() string {
	return t.value
}

func (t TransactionID) IsZero() bool {
	return t.value == ""
}
