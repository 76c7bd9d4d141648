package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/tubefilter/internal/models"
)

func openTestSQLite(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_Contract(t *testing.T) {
	runStoreContract(t, openTestSQLite(t, filepath.Join(t.TempDir(), "tubefilter.db")))
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "tubefilter.db")
	ctx := context.Background()

	s, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	_, err = s.Update(ctx, func(cfg *models.FilterConfiguration) (bool, error) {
		cfg.AllowedCategories = []models.CategoryID{models.CategoryHistory}
		return true, nil
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened := openTestSQLite(t, path)
	cfg, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.CategoryID{models.CategoryHistory}, cfg.AllowedCategories)
}

func TestSQLiteStore_UnchangedUpdateWritesNothing(t *testing.T) {
	s := openTestSQLite(t, filepath.Join(t.TempDir(), "tubefilter.db"))
	ctx := context.Background()

	_, err := s.Update(ctx, func(*models.FilterConfiguration) (bool, error) { return false, nil })
	require.NoError(t, err)

	var n int
	require.NoError(t, s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM filter_config").Scan(&n))
	assert.Equal(t, 0, n)
}
