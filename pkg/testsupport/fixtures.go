package testsupport

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"testing"

	"github.com/goliatone/go-recipes/pkg/forms"
)

// RecipeTypeChoices mirrors the seeded recipe types.
func RecipeTypeChoices() []forms.Choice {
	names := []string{"Entree", "Drink", "Desert", "Snack", "Appetizer"}
	out := make([]forms.Choice, len(names))
	for i, name := range names {
		out[i] = forms.Choice{Value: forms.ModelChoiceValue{ID: int64(i + 1), Instance: name}, Label: name}
	}
	return out
}

// DietChoices is a small option list with a wrapped and a plain identifier.
func DietChoices() []forms.Choice {
	return []forms.Choice{
		{Value: forms.ModelChoiceValue{ID: int64(3), Instance: "Keto"}, Label: "Keto"},
		{Value: int64(5), Label: "Vegan"},
	}
}

// RecipeForm returns a recipe form definition backed by static choices.
func RecipeForm(t *testing.T) *forms.Form {
	t.Helper()
	form, err := forms.New("recipe",
		forms.Field{Name: "name", Kind: forms.KindChar, Required: true, MaxLength: 100},
		forms.Field{Name: "instructions", Kind: forms.KindText},
		forms.Field{Name: "ingredients", Kind: forms.KindText, HelpText: "One ingredient per line."},
		forms.Field{Name: "recipe_type", Kind: forms.KindModelChoice, Choices: RecipeTypeChoices()},
		forms.Field{Name: "diets", Kind: forms.KindModelMultipleChoice, Choices: DietChoices()},
		forms.Field{Name: "is_diet_friendly", Kind: forms.KindNullBoolean},
	)
	if err != nil {
		t.Fatalf("recipe form: %v", err)
	}
	return form
}

// BindRecipe binds data to the recipe form fixture.
func BindRecipe(t *testing.T, data url.Values) *forms.BoundForm {
	t.Helper()
	bound, err := forms.Bind(Context(), RecipeForm(t), data, nil)
	if err != nil {
		t.Fatalf("bind recipe form: %v", err)
	}
	return bound
}

// UnboundRecipe prepares the recipe form fixture with initial values.
func UnboundRecipe(t *testing.T, initial map[string]any) *forms.BoundForm {
	t.Helper()
	bound, err := forms.Unbound(Context(), RecipeForm(t), initial)
	if err != nil {
		t.Fatalf("unbound recipe form: %v", err)
	}
	return bound
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
