package recipes

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-recipes/pkg/forms"
)

func TestNewHandlerValidatesConfig(t *testing.T) {
	_, err := NewHandler(HandlerConfig{})
	assert.Error(t, err)
}

func TestListPage(t *testing.T) {
	f := newFixture(t)
	f.seed(t, Recipe{Name: "Soup", RecipeTypeID: ptr(int64(1)), MealTimeIDs: []int64{3, 4}, IsDietFriendly: ptr(true)})
	f.seed(t, Recipe{Name: "Tea"})

	rec := f.do(t, http.MethodGet, "/recipes/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, PageList, f.pages.last.name)
	assert.Equal(t, TitleList, f.pages.last.data["title"])

	rows, ok := f.pages.last.data["recipes"].([]recipeRow)
	require.True(t, ok)
	require.Len(t, rows, 2)
	assert.Equal(t, recipeRow{ID: 1, Name: "Soup", RecipeType: "Entree", MealTimes: []string{"Lunch", "Dinner"}, DietFriendly: "Yes"}, rows[0])
	assert.Equal(t, recipeRow{ID: 2, Name: "Tea", MealTimes: []string{}, DietFriendly: "Unknown"}, rows[1])
}

func TestCreateFormRendersHybridFields(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/recipes/create/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, PageForm, f.pages.last.name)
	assert.Equal(t, TitleCreate, f.pages.last.data["title"])

	body := rec.Body.String()
	assert.Contains(t, body, `action="/recipes/create/"`)
	assert.Contains(t, body, `<text-input`)
	assert.Contains(t, body, `<radio-group-input`)
	assert.Contains(t, body, `model-value="unknown"`)
	assert.Contains(t, body, `&quot;name&quot;:&quot;Entree&quot;`)
}

func TestCreateInvalidSubmissionRerendersWithErrors(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/recipes/create/", url.Values{FieldName: {""}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `:errors='[&quot;`+forms.MsgRequired+`&quot;]'`)

	list, err := f.store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateStoresRecipeAndRedirects(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/recipes/create/", url.Values{
		FieldName:           {"<script>x</script>Pasta"},
		FieldRecipeType:     {"1"},
		FieldMealTimes:      {"3"},
		FieldIsDietFriendly: {"unknown"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, ListPath, rec.Header().Get("Location"))

	list, err := f.store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Pasta", list[0].Name.String())
	assert.Nil(t, list[0].IsDietFriendly)
	assert.Equal(t, []int64{3}, list[0].MealTimeIDs)

	next, _ := http.NewRequest(http.MethodGet, ListPath, nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	messages := f.flash.Pop(httpRecorder(), next)
	require.Len(t, messages, 1)
	assert.Equal(t, MsgSaved, messages[0].Text)
}

func TestUpdateRecipe(t *testing.T) {
	f := newFixture(t)
	recipe := f.seed(t, Recipe{Name: "Soup", IsDietFriendly: ptr(false)})

	rec := f.do(t, http.MethodGet, "/recipes/1/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, TitleUpdate, f.pages.last.data["title"])
	assert.Contains(t, rec.Body.String(), `:model-value='&quot;Soup&quot;'`)
	assert.Contains(t, rec.Body.String(), `model-value="false"`)

	rec = f.do(t, http.MethodPost, "/recipes/1/", url.Values{
		FieldName:           {"Stew"},
		FieldIsDietFriendly: {"true"},
	})
	require.Equal(t, http.StatusFound, rec.Code)

	got, err := f.store.Get(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Stew", got.Name.String())
	require.NotNil(t, got.IsDietFriendly)
	assert.True(t, *got.IsDietFriendly)
}

func TestUnknownRecipeIsNotFound(t *testing.T) {
	f := newFixture(t)

	for _, target := range []string{"/recipes/42/", "/recipes/42/delete/", "/recipes/nope/"} {
		rec := f.do(t, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Equal(t, PageNotFound, f.pages.last.name, target)
	}
}

func TestDeleteRecipe(t *testing.T) {
	f := newFixture(t)
	recipe := f.seed(t, Recipe{Name: "Soup"})

	rec := f.do(t, http.MethodGet, "/recipes/1/delete/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, PageConfirmDelete, f.pages.last.name)
	assert.Equal(t, TitleDelete, f.pages.last.data["title"])

	rec = f.do(t, http.MethodPost, "/recipes/1/delete/", url.Values{})
	require.Equal(t, http.StatusFound, rec.Code)

	_, err := f.store.Get(context.Background(), recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

type failingStore struct {
	*MemoryStore
}

func (failingStore) List(context.Context) ([]Recipe, error) {
	return nil, assert.AnError
}

func TestStoreFailureRendersServerError(t *testing.T) {
	f := newFixture(t)
	handler, err := NewHandler(HandlerConfig{
		Store:    failingStore{f.store},
		Form:     f.form,
		Renderer: mustAdapter(t),
		Pages:    f.pages,
		Flash:    f.flash,
	})
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/recipes/", nil)
	rec := httpRecorder()
	handler.list(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, PageServerError, f.pages.last.name)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}
