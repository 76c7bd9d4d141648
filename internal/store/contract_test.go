package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/tubefilter/internal/models"
)

// runStoreContract checks the behaviour every backend must share. s must be empty.
func runStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("load empty returns defaults", func(t *testing.T) {
		cfg, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfiguration(), cfg)
	})

	t.Run("mutate error is returned and nothing is written", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := s.Update(ctx, func(cfg *models.FilterConfiguration) (bool, error) {
			cfg.Enabled = false
			return true, boom
		})
		assert.ErrorIs(t, err, boom)
		assert.False(t, IsPersistence(err))

		cfg, err := s.Load(ctx)
		require.NoError(t, err)
		assert.True(t, cfg.Enabled)
	})

	t.Run("save then load round trips", func(t *testing.T) {
		want := DefaultConfiguration()
		want.DefaultDeny = false
		want.AllowedCategories = []models.CategoryID{models.CategoryKids}
		want.BlockedKeywords = []string{"spam"}
		want.MaxResults = 7
		require.NoError(t, s.Save(ctx, want))

		got, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("update returns the persisted result", func(t *testing.T) {
		got, err := s.Update(ctx, func(cfg *models.FilterConfiguration) (bool, error) {
			cfg.BlockedKeywords = append(cfg.BlockedKeywords, "scam")
			return true, nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"spam", "scam"}, got.BlockedKeywords)

		loaded, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, got, loaded)
	})

	t.Run("loaded value is not shared", func(t *testing.T) {
		a, err := s.Load(ctx)
		require.NoError(t, err)
		a.BlockedKeywords[0] = "mutated"

		b, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "spam", b.BlockedKeywords[0])
	})

	t.Run("concurrent updates are serialized", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, DefaultConfiguration()))

		const n = 8
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := s.Update(ctx, func(cfg *models.FilterConfiguration) (bool, error) {
					cfg.BlockedKeywords = append(cfg.BlockedKeywords, fmt.Sprintf("kw%d", i))
					return true, nil
				})
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		cfg, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, cfg.BlockedKeywords, n)
	})
}
