package recipes

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-recipes/pkg/forms"
	"github.com/goliatone/go-recipes/pkg/plaintext"
	"github.com/goliatone/go-recipes/pkg/uischema"
)

// FormName identifies the recipe form in uischema documents.
const FormName = "recipe"

// Recipe form field names.
const (
	FieldName           = "name"
	FieldInstructions   = "instructions"
	FieldIngredients    = "ingredients"
	FieldRecipeType     = "recipe_type"
	FieldMealTimes      = "meal_times"
	FieldIsDietFriendly = "is_diet_friendly"
)

// NewForm builds the recipe form. Recipe type and meal time choices are
// loaded from store each time the form is bound. When overrides is non-nil
// its entries for the recipe form are applied.
func NewForm(store Store, overrides *uischema.Store) (*forms.Form, error) {
	if store == nil {
		return nil, errors.New("recipes: form: store required")
	}
	form, err := forms.New(FormName,
		forms.Field{Name: FieldName, Kind: forms.KindChar, Required: true, MaxLength: NameMaxLength},
		forms.Field{Name: FieldInstructions, Kind: forms.KindText},
		forms.Field{Name: FieldIngredients, Kind: forms.KindText},
		forms.Field{Name: FieldRecipeType, Kind: forms.KindModelChoice, Source: recipeTypeChoices(store)},
		forms.Field{Name: FieldMealTimes, Kind: forms.KindModelMultipleChoice, Source: mealTimeChoices(store)},
		forms.Field{Name: FieldIsDietFriendly, Kind: forms.KindNullBoolean},
	)
	if err != nil {
		return nil, fmt.Errorf("recipes: form: %w", err)
	}
	form, err = overrides.Apply(form)
	if err != nil {
		return nil, fmt.Errorf("recipes: form: %w", err)
	}
	return form, nil
}

func recipeTypeChoices(store Store) forms.ChoiceSource {
	return forms.ChoiceSourceFunc(func(ctx context.Context) ([]forms.Choice, error) {
		types, err := store.RecipeTypes(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]forms.Choice, 0, len(types))
		for _, t := range types {
			out = append(out, forms.Choice{Value: forms.ModelChoiceValue{ID: t.ID, Instance: t}, Label: t.Name})
		}
		return out, nil
	})
}

func mealTimeChoices(store Store) forms.ChoiceSource {
	return forms.ChoiceSourceFunc(func(ctx context.Context) ([]forms.Choice, error) {
		mealTimes, err := store.MealTimes(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]forms.Choice, 0, len(mealTimes))
		for _, m := range mealTimes {
			out = append(out, forms.Choice{Value: forms.ModelChoiceValue{ID: m.ID, Instance: m}, Label: m.Name})
		}
		return out, nil
	})
}

// InitialFromRecipe maps a stored recipe onto form initial values.
func InitialFromRecipe(recipe Recipe) map[string]any {
	initial := map[string]any{
		FieldName:           recipe.Name.String(),
		FieldInstructions:   recipe.Instructions.String(),
		FieldIngredients:    recipe.Ingredients.String(),
		FieldMealTimes:      append([]int64{}, recipe.MealTimeIDs...),
		FieldIsDietFriendly: recipe.IsDietFriendly,
	}
	if recipe.RecipeTypeID != nil {
		initial[FieldRecipeType] = *recipe.RecipeTypeID
	}
	return initial
}

// ApplyCleaned copies the cleaned values of a valid form onto recipe.
func ApplyCleaned(recipe Recipe, cleaned map[string]any) Recipe {
	out := recipe.clone()
	out.Name = plaintext.NewLine(cleaned[FieldName])
	out.Instructions = plaintext.NewText(cleaned[FieldInstructions])
	out.Ingredients = plaintext.NewText(cleaned[FieldIngredients])

	out.RecipeTypeID = nil
	if id, ok := cleaned[FieldRecipeType].(int64); ok {
		out.RecipeTypeID = &id
	}

	out.MealTimeIDs = []int64{}
	if ids, ok := cleaned[FieldMealTimes].([]any); ok {
		for _, raw := range ids {
			if id, ok := raw.(int64); ok {
				out.MealTimeIDs = append(out.MealTimeIDs, id)
			}
		}
	}

	out.IsDietFriendly = nil
	if v, ok := cleaned[FieldIsDietFriendly].(bool); ok {
		out.IsDietFriendly = &v
	}
	return out
}
