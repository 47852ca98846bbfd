package recipes

import (
	"context"
	"errors"
	htmltemplate "html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-recipes/internal/csrf"
	"github.com/goliatone/go-recipes/internal/flash"
	"github.com/goliatone/go-recipes/internal/logging"
	"github.com/goliatone/go-recipes/pkg/forms"
	"github.com/goliatone/go-recipes/pkg/render"
	"github.com/goliatone/go-recipes/pkg/uischema"
)

// Page templates rendered by the handlers.
const (
	PageList          = "pages/recipes/list.html"
	PageForm          = "pages/recipes/form.html"
	PageConfirmDelete = "pages/recipes/confirm_delete.html"
	PageNotFound      = "pages/404.html"
	PageServerError   = "pages/500.html"
)

// Flash messages and page titles.
const (
	MsgSaved   = "Recipe successfully saved."
	MsgDeleted = "Recipe successfully deleted."
	// MsgInvalidReference is shown when a selected recipe type or meal time
	// disappeared between rendering and submitting the form.
	MsgInvalidReference = "One of the selected options no longer exists."

	TitleList   = "Recipes"
	TitleCreate = "Create Recipe"
	TitleUpdate = "Update Recipe"
	TitleDelete = "Delete Recipe"
)

// ListPath is where successful writes redirect to.
const ListPath = "/recipes/"

// Pages renders full HTML pages around handler data.
type Pages interface {
	Render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) error
}

// HandlerConfig wires a Handler.
type HandlerConfig struct {
	Store    Store
	Form     *forms.Form
	Renderer render.Renderer
	Pages    Pages
	Flash    *flash.Store
	Logger   *slog.Logger
	// Schema carries the optional title, icon and submit label of the form.
	Schema uischema.FormConfig
}

// Handler serves the recipe pages.
type Handler struct {
	store    Store
	form     *forms.Form
	renderer render.Renderer
	pages    Pages
	flash    *flash.Store
	logger   *slog.Logger
	schema   uischema.FormConfig
}

// NewHandler validates cfg and returns a Handler.
func NewHandler(cfg HandlerConfig) (*Handler, error) {
	switch {
	case cfg.Store == nil:
		return nil, errors.New("recipes: handler: store required")
	case cfg.Form == nil:
		return nil, errors.New("recipes: handler: form required")
	case cfg.Renderer == nil:
		return nil, errors.New("recipes: handler: renderer required")
	case cfg.Pages == nil:
		return nil, errors.New("recipes: handler: pages required")
	case cfg.Flash == nil:
		return nil, errors.New("recipes: handler: flash store required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:    cfg.Store,
		form:     cfg.Form,
		renderer: cfg.Renderer,
		pages:    cfg.Pages,
		flash:    cfg.Flash,
		logger:   logger,
		schema:   cfg.Schema,
	}, nil
}

// Routes mounts the recipe pages under /recipes.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/create/", h.create)
		r.Post("/create/", h.create)
		r.Get("/{pk:[0-9]+}/", h.update)
		r.Post("/{pk:[0-9]+}/", h.update)
		r.Get("/{pk:[0-9]+}/delete/", h.delete)
		r.Post("/{pk:[0-9]+}/delete/", h.delete)
	})
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, http.StatusNotFound, PageNotFound, map[string]any{"title": "Page not found"})
}

type recipeRow struct {
	ID           int64
	Name         string
	RecipeType   string
	MealTimes    []string
	DietFriendly string
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recipes, err := h.store.List(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	rows, err := h.rows(ctx, recipes)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.page(w, r, http.StatusOK, PageList, map[string]any{
		"title":   TitleList,
		"recipes": rows,
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, Recipe{}, TitleCreate, "/recipes/create/")
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	recipe, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.edit(w, r, recipe, TitleUpdate, r.URL.Path)
}

// edit shows the recipe form and handles its submission. A zero recipe ID
// creates a new recipe.
func (h *Handler) edit(w http.ResponseWriter, r *http.Request, recipe Recipe, title, action string) {
	ctx := r.Context()
	var initial map[string]any
	if recipe.ID != 0 {
		initial = InitialFromRecipe(recipe)
	}

	if r.Method != http.MethodPost {
		bound, err := forms.Unbound(ctx, h.form, initial)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		h.formPage(w, r, http.StatusOK, bound, recipe, title, action)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	bound, err := forms.Bind(ctx, h.form, r.PostForm, initial)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if !bound.IsValid() {
		h.formPage(w, r, http.StatusUnprocessableEntity, bound, recipe, title, action)
		return
	}

	updated := ApplyCleaned(recipe, bound.Cleaned())
	if recipe.ID == 0 {
		_, err = h.store.Create(ctx, updated)
	} else {
		_, err = h.store.Update(ctx, updated)
	}
	switch {
	case errors.Is(err, ErrInvalidReference):
		bound.AddError("", MsgInvalidReference)
		h.formPage(w, r, http.StatusUnprocessableEntity, bound, recipe, title, action)
		return
	case errors.Is(err, ErrNotFound):
		h.NotFound(w, r)
		return
	case err != nil:
		h.serverError(w, r, err)
		return
	}

	h.redirectWithFlash(w, r, MsgSaved)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	recipe, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodPost {
		h.page(w, r, http.StatusOK, PageConfirmDelete, map[string]any{
			"title":     TitleDelete,
			"recipe":    recipe,
			"action":    r.URL.Path,
			"csrfField": csrf.FieldName,
			"csrfToken": csrf.Token(r.Context()),
		})
		return
	}

	err := h.store.Delete(r.Context(), recipe.ID)
	switch {
	case errors.Is(err, ErrNotFound):
		h.NotFound(w, r)
		return
	case err != nil:
		h.serverError(w, r, err)
		return
	}
	h.redirectWithFlash(w, r, MsgDeleted)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (Recipe, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "pk"), 10, 64)
	if err != nil {
		h.NotFound(w, r)
		return Recipe{}, false
	}
	recipe, err := h.store.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		h.NotFound(w, r)
		return Recipe{}, false
	}
	if err != nil {
		h.serverError(w, r, err)
		return Recipe{}, false
	}
	return recipe, true
}

func (h *Handler) formPage(w http.ResponseWriter, r *http.Request, status int, bound *forms.BoundForm, recipe Recipe, title, action string) {
	var hidden map[string]string
	if token := csrf.Token(r.Context()); token != "" {
		hidden = render.MergeHiddenFields(nil, render.CSRFToken(csrf.FieldName, token))
	}
	out, err := h.renderer.Render(r.Context(), bound, render.RenderOptions{
		Action:      action,
		SubmitLabel: h.schema.SubmitLabel,
		Hidden:      hidden,
	})
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.page(w, r, status, PageForm, map[string]any{
		"title":  title,
		"recipe": recipe,
		"form":   htmltemplate.HTML(out),
		"formMeta": map[string]any{
			"title":    h.schema.Title,
			"subtitle": h.schema.Subtitle,
			"icon":     h.schema.Icon,
		},
	})
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, message string) {
	if err := h.flash.Success(w, r, message); err != nil {
		h.logger.WarnContext(r.Context(), "set flash message", logging.Error(err))
	}
	http.Redirect(w, r, ListPath, http.StatusFound)
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if err := h.pages.Render(w, r, status, name, data); err != nil {
		h.logger.ErrorContext(r.Context(), "render page", slog.String("page", name), logging.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "recipes handler failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		logging.Error(err),
	)
	h.page(w, r, http.StatusInternalServerError, PageServerError, map[string]any{"title": "Server error"})
}

func (h *Handler) rows(ctx context.Context, recipes []Recipe) ([]recipeRow, error) {
	types, err := h.store.RecipeTypes(ctx)
	if err != nil {
		return nil, err
	}
	mealTimes, err := h.store.MealTimes(ctx)
	if err != nil {
		return nil, err
	}
	typeNames := make(map[int64]string, len(types))
	for _, t := range types {
		typeNames[t.ID] = t.Name
	}
	mealNames := make(map[int64]string, len(mealTimes))
	for _, m := range mealTimes {
		mealNames[m.ID] = m.Name
	}

	out := make([]recipeRow, 0, len(recipes))
	for _, recipe := range recipes {
		row := recipeRow{ID: recipe.ID, Name: recipe.Name.String(), MealTimes: []string{}, DietFriendly: "Unknown"}
		if recipe.RecipeTypeID != nil {
			row.RecipeType = typeNames[*recipe.RecipeTypeID]
		}
		for _, id := range recipe.MealTimeIDs {
			if name, ok := mealNames[id]; ok {
				row.MealTimes = append(row.MealTimes, name)
			}
		}
		if recipe.IsDietFriendly != nil {
			row.DietFriendly = "No"
			if *recipe.IsDietFriendly {
				row.DietFriendly = "Yes"
			}
		}
		out = append(out, row)
	}
	return out, nil
}
