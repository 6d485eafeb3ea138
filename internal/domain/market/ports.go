package market

import (
	"context"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// PortRepository defines port and stock persistence operations
type PortRepository interface {
	FindByID(ctx context.Context, id string) (*Port, error)
	FindByName(ctx context.Context, name string) (*Port, error)
	// FindAll returns every port ordered by name
	FindAll(ctx context.Context) ([]*Port, error)

	// Save creates or replaces a port and its stock (world seeding)
	Save(ctx context.Context, port *Port) error

	// UpsertStock writes one stock entry as given, creating it if missing
	UpsertStock(ctx context.Context, portID string, commodity shared.Commodity, amount, price int) error

	// AdjustStock applies signed deltas atomically and reprices each touched
	// entry. Fails with an InsufficientStockError when any amount would go
	// negative, in which case nothing is written.
	AdjustStock(ctx context.Context, portID string, deltas map[shared.Commodity]int, prices PriceBook) (map[shared.Commodity]StockEntry, error)
}
