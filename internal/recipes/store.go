package recipes

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a recipe id does not exist.
	ErrNotFound = errors.New("recipes: not found")
	// ErrInvalidReference is returned when a recipe points at an unknown
	// recipe type or meal time.
	ErrInvalidReference = errors.New("recipes: invalid reference")
)

// Store persists recipes and exposes the lookup tables the recipe form
// draws its choices from.
type Store interface {
	List(ctx context.Context) ([]Recipe, error)
	Get(ctx context.Context, id int64) (Recipe, error)
	Create(ctx context.Context, recipe Recipe) (Recipe, error)
	Update(ctx context.Context, recipe Recipe) (Recipe, error)
	Delete(ctx context.Context, id int64) error
	RecipeTypes(ctx context.Context) ([]RecipeType, error)
	MealTimes(ctx context.Context) ([]MealTime, error)
}
