package metadata

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/questlog/internal/client/client"
	"github.com/dmitrijs2005/questlog/internal/common"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*SQLiteRepository, *sql.DB) {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db), db
}

func TestGet_MissingKey(t *testing.T) {
	r, _ := newRepo(t)

	v, ok, err := r.Get(context.Background(), common.OnboardingFlagKey)
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, v)
}

func TestSet_ThenGet_Overwrites(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, common.OnboardingFlagKey, "false"))
	require.NoError(t, r.Set(ctx, common.OnboardingFlagKey, "true"))

	v, ok, err := r.Get(ctx, common.OnboardingFlagKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "true", v)
}

func TestDelete_IsIdempotent(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", "v"))
	require.NoError(t, r.Delete(ctx, "k"))
	require.NoError(t, r.Delete(ctx, "k"))

	_, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestKeysAndClear(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "b", "2"))
	require.NoError(t, r.Set(ctx, "a", "1"))

	keys, err := r.Keys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, keys)

	require.NoError(t, r.Clear(ctx))
	keys, err = r.Keys(ctx)
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestErrorsAreWrapped(t *testing.T) {
	r, db := newRepo(t)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, _, err := r.Get(ctx, "k")
	require.ErrorContains(t, err, `read "k"`)
	require.ErrorContains(t, r.Set(ctx, "k", "v"), `write "k"`)
	require.ErrorContains(t, r.Delete(ctx, "k"), `remove "k"`)
	_, err = r.Keys(ctx)
	require.ErrorContains(t, err, "list keys")
	require.ErrorContains(t, r.Clear(ctx), "clear store")
}
