package setup

import (
	"context"
	"fmt"

	"github.com/andrescamacho/searoutes-go/internal/application/common"
	"github.com/andrescamacho/searoutes-go/internal/domain/market"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// SeedResult reports what a seed run changed
type SeedResult struct {
	Created []string
	Skipped []string
}

// SeedPorts stores every port whose name is not taken yet. Existing ports
// keep their stock, so seeding an already running world is a no-op.
func SeedPorts(ctx context.Context, repo market.PortRepository, ports []*market.Port) (*SeedResult, error) {
	logger := common.LoggerFromContext(ctx)
	result := &SeedResult{}

	for _, port := range ports {
		_, err := repo.FindByName(ctx, port.Name())
		if err == nil {
			result.Skipped = append(result.Skipped, port.Name())
			continue
		}
		if !shared.IsNotFound(err) {
			return result, fmt.Errorf("failed to look up port %s: %w", port.Name(), err)
		}

		if err := repo.Save(ctx, port); err != nil {
			return result, fmt.Errorf("failed to seed port %s: %w", port.Name(), err)
		}
		result.Created = append(result.Created, port.Name())
	}

	logger.Log(common.LevelInfo, "World seeded", map[string]interface{}{
		"created": len(result.Created),
		"skipped": len(result.Skipped),
	})
	return result, nil
}
