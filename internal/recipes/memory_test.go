package recipes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSeeds(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	types, err := store.RecipeTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, len(DefaultRecipeTypes))
	assert.Equal(t, RecipeType{ID: 1, Name: "Entree"}, types[0])

	mealTimes, err := store.MealTimes(ctx)
	require.NoError(t, err)
	assert.Equal(t, MealTime{ID: 4, Name: "Dinner"}, mealTimes[3])
}

func TestMemoryStoreCRUD(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, Recipe{
		Name:         "<b>Soup</b>",
		Instructions: "Boil\r\nServe",
		RecipeTypeID: ptr(int64(1)),
		MealTimeIDs:  []int64{4, 3, 4},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Soup", created.Name.String())
	assert.Equal(t, []int64{3, 4}, created.MealTimeIDs)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	got.Name = "Stew"
	got.IsDietFriendly = ptr(true)
	updated, err := store.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "Stew", updated.Name.String())
	require.NotNil(t, updated.IsDietFriendly)
	assert.True(t, *updated.IsDietFriendly)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, store.Delete(ctx, created.ID))
	_, err = store.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, created.ID), ErrNotFound)
	_, err = store.Update(ctx, Recipe{ID: 99, Name: "Ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreRejectsUnknownReferences(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Create(ctx, Recipe{Name: "Soup", RecipeTypeID: ptr(int64(42))})
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, err = store.Create(ctx, Recipe{Name: "Soup", MealTimeIDs: []int64{9}})
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, Recipe{Name: "Soup", MealTimeIDs: []int64{1}})
	require.NoError(t, err)
	created.MealTimeIDs[0] = 2

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, got.MealTimeIDs)
}
