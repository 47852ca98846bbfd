package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-recipes/internal/logging"
	"github.com/goliatone/go-recipes/pkg/forms"
)

// APIVersion is reported in the OpenAPI document.
const APIVersion = "1.0.0"

// API serves read-only JSON views of the recipe store.
type API struct {
	store  Store
	doc    *openapi3.T
	logger *slog.Logger
}

// NewAPI builds the OpenAPI document for form and validates it.
func NewAPI(ctx context.Context, store Store, form *forms.Form, logger *slog.Logger) (*API, error) {
	if store == nil {
		return nil, errors.New("recipes: api: store required")
	}
	doc, err := OpenAPIDocument(ctx, form)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &API{store: store, doc: doc, logger: logger}, nil
}

// Routes mounts the API under /api.
func (a *API) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/openapi.json", a.openAPI)
		r.Get("/recipes", a.list)
		r.Get("/recipes/{pk:[0-9]+}", a.get)
	})
}

func (a *API) openAPI(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, r, http.StatusOK, a.doc)
}

func (a *API) list(w http.ResponseWriter, r *http.Request) {
	recipes, err := a.store.List(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, r, http.StatusOK, recipes)
}

func (a *API) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "pk"), 10, 64)
	if err != nil {
		a.writeError(w, r, fmt.Errorf("recipe %q: %w", chi.URLParam(r, "pk"), ErrNotFound))
		return
	}
	recipe, err := a.store.Get(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, r, http.StatusOK, recipe)
}

type apiError struct {
	Error string `json:"error"`
}

func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotFound) {
		a.writeJSON(w, r, http.StatusNotFound, apiError{Error: "not found"})
		return
	}
	a.logger.ErrorContext(r.Context(), "recipes api failed", slog.String("path", r.URL.Path), logging.Error(err))
	a.writeJSON(w, r, http.StatusInternalServerError, apiError{Error: http.StatusText(http.StatusInternalServerError)})
}

func (a *API) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.WarnContext(r.Context(), "write json response", logging.Error(err))
	}
}

// OpenAPIDocument describes the JSON API. The recipe form's cleaned payload
// is published as the RecipeForm component.
func OpenAPIDocument(ctx context.Context, form *forms.Form) (*openapi3.T, error) {
	if form == nil {
		return nil, errors.New("recipes: openapi: form required")
	}

	recipeSchema := recipeSchema()
	errorSchema := openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema())
	errorSchema.Required = []string{"error"}

	recipeRef := openapi3.NewSchemaRef("#/components/schemas/Recipe", recipeSchema)
	errorRef := openapi3.NewSchemaRef("#/components/schemas/Error", errorSchema)

	listOp := openapi3.NewOperation()
	listOp.OperationID = "listRecipes"
	listOp.Summary = "List recipes"
	listSchema := openapi3.NewArraySchema()
	listSchema.Items = recipeRef
	listOp.AddResponse(http.StatusOK, openapi3.NewResponse().
		WithDescription("Recipes ordered by id").
		WithJSONSchema(listSchema))

	getOp := openapi3.NewOperation()
	getOp.OperationID = "getRecipe"
	getOp.Summary = "Get a recipe"
	getOp.AddParameter(openapi3.NewPathParameter("pk").WithSchema(openapi3.NewInt64Schema()))
	getOp.AddResponse(http.StatusOK, openapi3.NewResponse().
		WithDescription("The recipe").
		WithJSONSchemaRef(recipeRef))
	getOp.AddResponse(http.StatusNotFound, openapi3.NewResponse().
		WithDescription("Unknown recipe").
		WithJSONSchemaRef(errorRef))

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   "Recipes API",
			Version: APIVersion,
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/api/recipes", &openapi3.PathItem{Get: listOp}),
			openapi3.WithPath("/api/recipes/{pk}", &openapi3.PathItem{Get: getOp}),
		),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				"Recipe":     openapi3.NewSchemaRef("", recipeSchema),
				"RecipeForm": openapi3.NewSchemaRef("", forms.Schema(form)),
				"Error":      openapi3.NewSchemaRef("", errorSchema),
			},
		},
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("recipes: openapi: %w", err)
	}
	return doc, nil
}

func recipeSchema() *openapi3.Schema {
	schema := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewInt64Schema()).
		WithProperty("name", openapi3.NewStringSchema().WithMaxLength(NameMaxLength)).
		WithProperty("instructions", openapi3.NewStringSchema()).
		WithProperty("ingredients", openapi3.NewStringSchema()).
		WithProperty("recipeTypeId", openapi3.NewInt64Schema().WithNullable()).
		WithProperty("mealTimeIds", openapi3.NewArraySchema().WithItems(openapi3.NewInt64Schema())).
		WithProperty("isDietFriendly", openapi3.NewBoolSchema().WithNullable())
	schema.Title = "Recipe"
	schema.Required = []string{"id", "name", "mealTimeIds"}
	return schema
}
