// Package recipes holds the recipe domain: records, stores, the recipe form
// and the HTTP handlers that drive it.
package recipes

import (
	"slices"

	"github.com/goliatone/go-recipes/pkg/plaintext"
)

// NameMaxLength bounds Recipe.Name.
const NameMaxLength = 100

// RecipeType classifies a recipe (Entree, Drink, ...).
type RecipeType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MealTime is a time of day a recipe suits.
type MealTime struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Recipe is a stored recipe. Text fields hold plain text only.
type Recipe struct {
	ID             int64          `json:"id"`
	Name           plaintext.Line `json:"name"`
	Instructions   plaintext.Text `json:"instructions"`
	Ingredients    plaintext.Text `json:"ingredients"`
	RecipeTypeID   *int64         `json:"recipeTypeId"`
	MealTimeIDs    []int64        `json:"mealTimeIds"`
	IsDietFriendly *bool          `json:"isDietFriendly"`
}

// String returns the recipe name.
func (r Recipe) String() string {
	return r.Name.String()
}

func (r Recipe) clone() Recipe {
	out := r
	if r.RecipeTypeID != nil {
		id := *r.RecipeTypeID
		out.RecipeTypeID = &id
	}
	if r.IsDietFriendly != nil {
		v := *r.IsDietFriendly
		out.IsDietFriendly = &v
	}
	out.MealTimeIDs = slices.Clone(r.MealTimeIDs)
	if out.MealTimeIDs == nil {
		out.MealTimeIDs = []int64{}
	}
	return out
}

// DefaultRecipeTypes are seeded by the initial migration and the memory store.
var DefaultRecipeTypes = []string{"Entree", "Drink", "Desert", "Snack", "Appetizer"}

// DefaultMealTimes are seeded by the initial migration and the memory store.
var DefaultMealTimes = []string{"Breakfast", "Brunch", "Lunch", "Dinner"}

// normalizeRecipe stores text fields in their sanitized form and meal time
// ids sorted without duplicates.
func normalizeRecipe(recipe Recipe) Recipe {
	out := recipe.clone()
	out.Name = plaintext.Line(recipe.Name.String())
	out.Instructions = plaintext.Text(recipe.Instructions.String())
	out.Ingredients = plaintext.Text(recipe.Ingredients.String())
	slices.Sort(out.MealTimeIDs)
	out.MealTimeIDs = slices.Compact(out.MealTimeIDs)
	return out
}
