package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nabin216/ZotPot/internal/pkg/money"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSessionStore(client, time.Hour), mr
}

func TestSessionStore_SaveAndLoad(t *testing.T) {
	store, mr := newTestSessionStore(t)
	ctx := context.Background()

	state, _ := Reduce(Empty(), Hydrate{Items: []Item{
		{ID: "a", Name: "Pizza", Price: money.New(9.99), Quantity: 3},
	}})
	require.NoError(t, store.Save(ctx, "device-1", state))

	assert.True(t, mr.Exists("cart:session:device-1"))
	assert.Equal(t, time.Hour, mr.TTL("cart:session:device-1"))

	session, ok, err := store.Load(ctx, "device-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "device-1", session.SessionID)
	require.Len(t, session.Items, 1)
	assert.Equal(t, "9.99", session.Items[0].Price.String())
	assert.Equal(t, 3, session.Items[0].Quantity)
}

func TestSessionStore_MissingAndExpired(t *testing.T) {
	store, mr := newTestSessionStore(t)
	ctx := context.Background()

	_, ok, err := store.Load(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(ctx, "device-1", Empty()))
	mr.FastForward(2 * time.Hour)

	_, ok, err = store.Load(ctx, "device-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStore_Delete(t *testing.T) {
	store, mr := newTestSessionStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "device-1", Empty()))
	require.NoError(t, store.Delete(ctx, "device-1"))
	assert.False(t, mr.Exists("cart:session:device-1"))
}

func TestSessionStore_RequiresSessionID(t *testing.T) {
	store, _ := newTestSessionStore(t)

	_, _, err := store.Load(context.Background(), "")
	assert.Error(t, err)
	assert.Error(t, store.Save(context.Background(), "", Empty()))
}
