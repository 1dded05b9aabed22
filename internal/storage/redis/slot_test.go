package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Fras28/dynnamo-cart/pkg/errors"
)

func setupTestRedis(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestSlot_SaveAndLoad(t *testing.T) {
	client, _ := setupTestRedis(t)
	slot := NewSlot(client, "sess-1", time.Hour)

	require.NoError(t, slot.Save(context.Background(), []byte(`{"lines":[]}`)))

	data, err := slot.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"lines":[]}`), data)
}

func TestSlot_LoadMissing(t *testing.T) {
	client, _ := setupTestRedis(t)
	slot := NewSlot(client, "sess-absent", time.Hour)

	_, err := slot.Load(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSlot_KeyIsSessionScoped(t *testing.T) {
	client, mr := setupTestRedis(t)
	slot := NewSlot(client, "sess-1", time.Hour)

	require.NoError(t, slot.Save(context.Background(), []byte("x")))
	assert.True(t, mr.Exists("cart-storage:sess-1"))
}

func TestSlot_SaveSetsTTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	slot := NewSlot(client, "sess-1", 2*time.Hour)

	require.NoError(t, slot.Save(context.Background(), []byte("x")))
	assert.Equal(t, 2*time.Hour, mr.TTL("cart-storage:sess-1"))
}

func TestSlot_TTLExpiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	slot := NewSlot(client, "sess-1", time.Hour)

	require.NoError(t, slot.Save(context.Background(), []byte("x")))
	mr.FastForward(2 * time.Hour)

	_, err := slot.Load(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSlot_Delete(t *testing.T) {
	client, _ := setupTestRedis(t)
	slot := NewSlot(client, "sess-1", time.Hour)

	require.NoError(t, slot.Save(context.Background(), []byte("x")))
	require.NoError(t, slot.Delete(context.Background()))

	_, err := slot.Load(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSlot_DeleteMissingIsNoop(t *testing.T) {
	client, _ := setupTestRedis(t)
	slot := NewSlot(client, "sess-ghost", time.Hour)

	assert.NoError(t, slot.Delete(context.Background()))
}

func TestFactory_DistinctSessions(t *testing.T) {
	client, _ := setupTestRedis(t)
	factory := NewFactory(client, time.Hour)

	a := factory("sess-a")
	b := factory("sess-b")

	require.NoError(t, a.Save(context.Background(), []byte("alpha")))
	require.NoError(t, b.Save(context.Background(), []byte("beta")))

	dataA, err := a.Load(context.Background())
	require.NoError(t, err)
	dataB, err := b.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []byte("alpha"), dataA)
	assert.Equal(t, []byte("beta"), dataB)
}
