package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/searoutes-go/internal/application/player/commands"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/test/helpers"
)

func TestRegisterPlayer(t *testing.T) {
	w := helpers.NewTestWorld(t)
	ctx := context.Background()

	resp, err := w.Mediator.Send(ctx, &commands.RegisterPlayerCommand{Username: "  alice "})
	require.NoError(t, err)

	registered := resp.(*commands.RegisterPlayerResponse)
	assert.Equal(t, "alice", registered.Username)
	assert.Equal(t, 1000, registered.Coins)
	assert.True(t, helpers.WorldStart.Equal(registered.CreatedAt))

	_, err = w.Mediator.Send(ctx, &commands.RegisterPlayerCommand{Username: "alice"})
	assert.Equal(t, shared.CodeDuplicateEntry, shared.CodeOf(err))
	assert.Equal(t, shared.KindConflict, shared.KindOf(err))

	_, err = w.Mediator.Send(ctx, &commands.RegisterPlayerCommand{Username: "   "})
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
}
