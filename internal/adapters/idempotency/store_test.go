package idempotency

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

func newTestStore(t *testing.T, maxEntries int) (*Store, *shared.MockClock) {
	t.Helper()
	clock := shared.NewMockClock(time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC))
	store, err := NewStore(time.Minute, maxEntries, clock)
	require.NoError(t, err)
	return store, clock
}

func TestStore_FreshThenInProgressThenReplay(t *testing.T) {
	store, _ := newTestStore(t, 10)

	outcome, _ := store.Begin("k")
	assert.Equal(t, Fresh, outcome)

	outcome, _ = store.Begin("k")
	assert.Equal(t, InProgress, outcome)

	store.Complete("k", Response{StatusCode: 200, Header: http.Header{"Content-Type": {"application/json"}}, Body: []byte(`{"success":true}`)})

	outcome, resp := store.Begin("k")
	assert.Equal(t, Replay, outcome)
	require.NotNil(t, resp)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, `{"success":true}`, string(resp.Body))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestStore_ReleaseAllowsRetry(t *testing.T) {
	store, _ := newTestStore(t, 10)

	store.Begin("k")
	store.Release("k")

	outcome, _ := store.Begin("k")
	assert.Equal(t, Fresh, outcome)
}

func TestStore_EntriesExpire(t *testing.T) {
	store, clock := newTestStore(t, 10)
	store.Begin("k")
	store.Complete("k", Response{StatusCode: 201})

	clock.Advance(59 * time.Second)
	outcome, _ := store.Begin("k")
	assert.Equal(t, Replay, outcome)

	clock.Advance(2 * time.Second)
	outcome, _ = store.Begin("k")
	assert.Equal(t, Fresh, outcome)
}

func TestStore_CapacityEvictsOldest(t *testing.T) {
	store, clock := newTestStore(t, 2)

	store.Begin("a")
	clock.Advance(time.Second)
	store.Begin("b")
	clock.Advance(time.Second)
	store.Begin("c")

	assert.Equal(t, 2, store.Len())
	outcome, _ := store.Begin("a")
	assert.Equal(t, Fresh, outcome, "a was evicted")
}

func TestStore_ReplayReturnsCopy(t *testing.T) {
	store, _ := newTestStore(t, 10)
	store.Begin("k")
	store.Complete("k", Response{StatusCode: 200, Body: []byte("abc")})

	_, first := store.Begin("k")
	first.Body[0] = 'x'
	_, second := store.Begin("k")

	assert.Equal(t, "abc", string(second.Body))
}

func TestKey_DependsOnBody(t *testing.T) {
	a := Key("POST", "/api/vessels/v-1/load", "key-1", []byte(`{"amount":10}`))
	b := Key("POST", "/api/vessels/v-1/load", "key-1", []byte(`{"amount":11}`))
	c := Key("POST", "/api/vessels/v-2/load", "key-1", []byte(`{"amount":10}`))

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, a, Key("POST", "/api/vessels/v-1/load", "key-1", []byte(`{"amount":10}`)))
}

func TestNewStore_RejectsBadSettings(t *testing.T) {
	_, err := NewStore(0, 10, nil)
	assert.Error(t, err)
	_, err = NewStore(time.Minute, 0, nil)
	assert.Error(t, err)
}
