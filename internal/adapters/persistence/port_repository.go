package persistence

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/searoutes-go/internal/domain/market"
	"github.com/andrescamacho/searoutes-go/internal/domain/navigation"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/database"
)

// maxStockSwapAttempts bounds how often AdjustStock re-reads after losing a race
const maxStockSwapAttempts = 8

// errStockContention marks a lost compare-and-swap on a stock row
var errStockContention = errors.New("stock changed concurrently")

// GormPortRepository implements PortRepository using GORM
type GormPortRepository struct {
	db    *gorm.DB
	retry *database.Retrier
}

// NewGormPortRepository creates a new GORM port repository
func NewGormPortRepository(db *gorm.DB, retry *database.Retrier) *GormPortRepository {
	if retry == nil {
		retry = database.NewNoopRetrier()
	}
	return &GormPortRepository{db: db, retry: retry}
}

// FindByID retrieves a port with its stock
func (r *GormPortRepository) FindByID(ctx context.Context, id string) (*market.Port, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByName retrieves a port with its stock by its unique name
func (r *GormPortRepository) FindByName(ctx context.Context, name string) (*market.Port, error) {
	return r.findOne(ctx, "name = ?", name)
}

func (r *GormPortRepository) findOne(ctx context.Context, where string, arg string) (*market.Port, error) {
	return database.Retry(ctx, r.retry, "find_port", func(ctx context.Context) (*market.Port, error) {
		var model PortModel
		err := r.db.WithContext(ctx).Preload("Stock").Where(where, arg).First(&model).Error
		if err != nil {
			return nil, mapNotFound(err, "port", arg)
		}
		return modelToPort(&model)
	})
}

// FindAll returns every port ordered by name
func (r *GormPortRepository) FindAll(ctx context.Context) ([]*market.Port, error) {
	return database.Retry(ctx, r.retry, "list_ports", func(ctx context.Context) ([]*market.Port, error) {
		var models []PortModel
		if err := r.db.WithContext(ctx).Preload("Stock").Order("name ASC").Find(&models).Error; err != nil {
			return nil, fmt.Errorf("failed to list ports: %w", err)
		}

		ports := make([]*market.Port, 0, len(models))
		for i := range models {
			p, err := modelToPort(&models[i])
			if err != nil {
				return nil, err
			}
			ports = append(ports, p)
		}
		return ports, nil
	})
}

// Save creates or replaces a port and every stock entry it holds
func (r *GormPortRepository) Save(ctx context.Context, port *market.Port) error {
	model := portToModel(port)
	return r.retry.Do(ctx, "save_port", func(ctx context.Context) error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			err := tx.Omit("Stock").
				Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
				Create(model).Error
			if isUniqueViolation(err) {
				return shared.NewConflictError(shared.CodeDuplicateEntry, fmt.Sprintf("port %q already exists", port.Name()))
			}
			if err != nil {
				return fmt.Errorf("failed to save port: %w", err)
			}
			for i := range model.Stock {
				if err := upsertStock(tx, &model.Stock[i]); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// UpsertStock writes one stock entry as given
func (r *GormPortRepository) UpsertStock(ctx context.Context, portID string, commodity shared.Commodity, amount, price int) error {
	if amount < 0 || price < 0 {
		return shared.NewValidationError("stock", "amount and price cannot be negative")
	}
	row := &PortStockModel{PortID: portID, Commodity: commodity.String(), Amount: amount, Price: price}
	return r.retry.Do(ctx, "upsert_stock", func(ctx context.Context) error {
		return upsertStock(r.db.WithContext(ctx), row)
	})
}

func upsertStock(tx *gorm.DB, row *PortStockModel) error {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "port_id"}, {Name: "commodity"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "price"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert %s stock: %w", row.Commodity, err)
	}
	return nil
}

// AdjustStock applies every delta inside one transaction. Each row is
// updated only if its amount is still the one read, so a concurrent writer
// makes the whole batch re-read and try again instead of being overwritten.
func (r *GormPortRepository) AdjustStock(ctx context.Context, portID string, deltas map[shared.Commodity]int, prices market.PriceBook) (map[shared.Commodity]market.StockEntry, error) {
	return database.Retry(ctx, r.retry, "adjust_stock", func(ctx context.Context) (map[shared.Commodity]market.StockEntry, error) {
		for attempt := 1; attempt <= maxStockSwapAttempts; attempt++ {
			entries, err := r.swapStock(ctx, portID, deltas, prices)
			if errors.Is(err, errStockContention) {
				continue
			}
			return entries, err
		}
		return nil, shared.NewTransientError(errStockContention, maxStockSwapAttempts)
	})
}

func (r *GormPortRepository) swapStock(ctx context.Context, portID string, deltas map[shared.Commodity]int, prices market.PriceBook) (map[shared.Commodity]market.StockEntry, error) {
	// Fixed order keeps two batches touching the same rows from deadlocking
	commodities := make([]shared.Commodity, 0, len(deltas))
	for c := range deltas {
		commodities = append(commodities, c)
	}
	sort.Slice(commodities, func(i, j int) bool { return commodities[i] < commodities[j] })

	result := make(map[shared.Commodity]market.StockEntry, len(deltas))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&PortModel{}).Where("id = ?", portID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.NewNotFoundError("port", portID)
		}

		for _, c := range commodities {
			delta := deltas[c]

			var row PortStockModel
			err := tx.Where("port_id = ? AND commodity = ?", portID, c.String()).First(&row).Error
			missing := errors.Is(err, gorm.ErrRecordNotFound)
			if err != nil && !missing {
				return err
			}

			next := row.Amount + delta
			if next < 0 {
				return shared.NewInsufficientStockError(c, -delta, row.Amount)
			}
			entry := market.StockEntry{Commodity: c, Amount: next, Price: prices.Price(c, next)}

			if missing {
				err := tx.Create(&PortStockModel{PortID: portID, Commodity: c.String(), Amount: next, Price: entry.Price}).Error
				if isUniqueViolation(err) {
					return errStockContention
				}
				if err != nil {
					return err
				}
			} else {
				update := tx.Model(&PortStockModel{}).
					Where("port_id = ? AND commodity = ? AND amount = ?", portID, c.String(), row.Amount).
					Updates(map[string]interface{}{"amount": next, "price": entry.Price})
				if update.Error != nil {
					return update.Error
				}
				if update.RowsAffected == 0 {
					return errStockContention
				}
			}
			result[c] = entry
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func portToModel(p *market.Port) *PortModel {
	model := &PortModel{ID: p.ID(), Name: p.Name()}
	if coords := p.Coordinates(); coords != nil {
		lat, lon := coords.Lat, coords.Lon
		model.Lat, model.Lon = &lat, &lon
	}
	for _, entry := range p.Stocks() {
		model.Stock = append(model.Stock, PortStockModel{
			PortID:    p.ID(),
			Commodity: entry.Commodity.String(),
			Amount:    entry.Amount,
			Price:     entry.Price,
		})
	}
	return model
}

func modelToPort(model *PortModel) (*market.Port, error) {
	var coords *navigation.Coordinates
	if model.Lat != nil && model.Lon != nil {
		coords = &navigation.Coordinates{Lat: *model.Lat, Lon: *model.Lon}
	}

	stock := make([]market.StockEntry, 0, len(model.Stock))
	for _, row := range model.Stock {
		commodity, err := shared.ParseCommodity(row.Commodity)
		if err != nil {
			return nil, fmt.Errorf("invalid commodity in database: %w", err)
		}
		stock = append(stock, market.StockEntry{Commodity: commodity, Amount: row.Amount, Price: row.Price})
	}
	return market.ReconstructPort(model.ID, model.Name, coords, stock)
}
