package recipes

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-recipes/internal/db"
)

// newPostgresStore connects to RECIPES_TEST_DATABASE_URL, applies the
// migrations and empties the recipes tables.
func newPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	url := os.Getenv("RECIPES_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("RECIPES_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, db.Config{URL: url, MaxConns: 4, RetryAttempts: 1, RetryInterval: time.Second})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(ctx, pool, slog.New(slog.NewTextHandler(io.Discard, nil))))
	_, err = pool.Exec(ctx, `TRUNCATE recipes, recipe_meal_times RESTART IDENTITY`)
	require.NoError(t, err)
	return NewPostgresStore(pool)
}

func TestPostgresStoreCRUD(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()

	types, err := store.RecipeTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, len(DefaultRecipeTypes))
	mealTimes, err := store.MealTimes(ctx)
	require.NoError(t, err)
	require.Len(t, mealTimes, len(DefaultMealTimes))

	created, err := store.Create(ctx, Recipe{
		Name:         "<b>Soup</b>",
		RecipeTypeID: &types[0].ID,
		MealTimeIDs:  []int64{mealTimes[3].ID, mealTimes[2].ID},
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Soup", got.Name.String())
	assert.Equal(t, []int64{mealTimes[2].ID, mealTimes[3].ID}, got.MealTimeIDs)
	assert.Nil(t, got.IsDietFriendly)
	assert.True(t, got.Instructions.IsZero())

	got.MealTimeIDs = nil
	got.IsDietFriendly = ptr(true)
	_, err = store.Update(ctx, got)
	require.NoError(t, err)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []int64{}, list[0].MealTimeIDs)
	require.NotNil(t, list[0].IsDietFriendly)

	_, err = store.Create(ctx, Recipe{Name: "Bad", RecipeTypeID: ptr(int64(9999))})
	assert.ErrorIs(t, err, ErrInvalidReference)

	require.NoError(t, store.Delete(ctx, created.ID))
	_, err = store.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, created.ID), ErrNotFound)
	_, err = store.Update(ctx, Recipe{ID: created.ID, Name: "Ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}
