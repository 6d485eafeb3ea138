package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/searoutes-go/internal/domain/market"
	"github.com/andrescamacho/searoutes-go/internal/domain/player"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/internal/domain/vessel"
)

// FailingVesselRepository wraps a real repository and fails Save on demand
type FailingVesselRepository struct {
	vessel.VesselRepository

	mu      sync.Mutex
	saveErr error
}

// NewFailingVesselRepository wraps inner; saves pass through until FailSaves
func NewFailingVesselRepository(inner vessel.VesselRepository) *FailingVesselRepository {
	return &FailingVesselRepository{VesselRepository: inner}
}

// FailSaves makes every following Save return err. Nil restores saving.
func (r *FailingVesselRepository) FailSaves(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveErr = err
}

func (r *FailingVesselRepository) Save(ctx context.Context, v *vessel.Vessel) error {
	r.mu.Lock()
	err := r.saveErr
	r.mu.Unlock()
	if err != nil {
		return err
	}
	return r.VesselRepository.Save(ctx, v)
}

// FailingPortRepository wraps a real repository and fails stock adjustments
// on demand
type FailingPortRepository struct {
	market.PortRepository

	mu        sync.Mutex
	adjustErr error
	skip      int
}

// NewFailingPortRepository wraps inner; adjustments pass through until FailAdjust
func NewFailingPortRepository(inner market.PortRepository) *FailingPortRepository {
	return &FailingPortRepository{PortRepository: inner}
}

// FailAdjust lets the next skip adjustments through, then fails every
// following one with err. Nil restores adjusting.
func (r *FailingPortRepository) FailAdjust(err error, skip int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adjustErr = err
	r.skip = skip
}

func (r *FailingPortRepository) AdjustStock(ctx context.Context, portID string, deltas map[shared.Commodity]int, prices market.PriceBook) (map[shared.Commodity]market.StockEntry, error) {
	r.mu.Lock()
	err := r.adjustErr
	if err != nil && r.skip > 0 {
		r.skip--
		err = nil
	}
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.PortRepository.AdjustStock(ctx, portID, deltas, prices)
}

// FailingPlayerRepository wraps a real repository and fails coin credits
// on demand
type FailingPlayerRepository struct {
	player.PlayerRepository

	mu        sync.Mutex
	creditErr error
}

// NewFailingPlayerRepository wraps inner; credits pass through until FailCredits
func NewFailingPlayerRepository(inner player.PlayerRepository) *FailingPlayerRepository {
	return &FailingPlayerRepository{PlayerRepository: inner}
}

// FailCredits makes every following CreditCoins return err. Nil restores crediting.
func (r *FailingPlayerRepository) FailCredits(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creditErr = err
}

func (r *FailingPlayerRepository) CreditCoins(ctx context.Context, id shared.PlayerID, amount int) (int, error) {
	r.mu.Lock()
	err := r.creditErr
	r.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return r.PlayerRepository.CreditCoins(ctx, id, amount)
}
