package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/tubefilter/internal/models"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newTestRedis(t)
	runStoreContract(t, NewRedisStore(client, "tubefilter:config"))
}

func TestRedisStore_RetriesOnConcurrentWrite(t *testing.T) {
	_, client := newTestRedis(t)
	s := NewRedisStore(client, "tubefilter:config")
	ctx := context.Background()

	calls := 0
	cfg, err := s.Update(ctx, func(cfg *models.FilterConfiguration) (bool, error) {
		calls++
		if calls == 1 {
			// another instance writes between our WATCH and EXEC
			other := DefaultConfiguration()
			other.BlockedKeywords = []string{"theirs"}
			require.NoError(t, s.Save(ctx, other))
		}
		cfg.BlockedKeywords = append(cfg.BlockedKeywords, "ours")
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []string{"theirs", "ours"}, cfg.BlockedKeywords)
}

func TestNewRedisStore_DefaultRetries(t *testing.T) {
	_, client := newTestRedis(t)
	assert.Equal(t, 10, NewRedisStore(client, "tubefilter:config").maxRetries)
}

func TestRedisStore_GivesUpAfterRetries(t *testing.T) {
	_, client := newTestRedis(t)
	s := NewRedisStore(client, "tubefilter:config")
	s.maxRetries = 3
	ctx := context.Background()

	calls := 0
	_, err := s.Update(ctx, func(cfg *models.FilterConfiguration) (bool, error) {
		calls++
		require.NoError(t, s.Save(ctx, DefaultConfiguration()))
		cfg.Enabled = false
		return true, nil
	})
	require.Error(t, err)
	assert.True(t, IsPersistence(err))
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 3, calls)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	mr, client := newTestRedis(t)
	require.NoError(t, mr.Set("tubefilter:config", "not json"))

	_, err := NewRedisStore(client, "tubefilter:config").Load(context.Background())
	require.Error(t, err)
	assert.True(t, IsPersistence(err))
}

func TestRedisStore_Unreachable(t *testing.T) {
	mr, client := newTestRedis(t)
	mr.Close()

	s := NewRedisStore(client, "tubefilter:config")
	_, err := s.Load(context.Background())
	assert.True(t, IsPersistence(err))

	_, err = s.Update(context.Background(), func(*models.FilterConfiguration) (bool, error) { return true, nil })
	assert.True(t, IsPersistence(err))
}
