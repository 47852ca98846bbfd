package recipes

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
)

// MemoryStore keeps recipes in process memory. It backs tests and runs
// without DATABASE_URL.
type MemoryStore struct {
	mu        sync.RWMutex
	nextID    int64
	recipes   map[int64]Recipe
	types     []RecipeType
	mealTimes []MealTime
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns a store seeded with the default recipe types and
// meal times.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		nextID:  1,
		recipes: make(map[int64]Recipe),
	}
	for i, name := range DefaultRecipeTypes {
		s.types = append(s.types, RecipeType{ID: int64(i + 1), Name: name})
	}
	for i, name := range DefaultMealTimes {
		s.mealTimes = append(s.mealTimes, MealTime{ID: int64(i + 1), Name: name})
	}
	return s
}

// List returns recipes ordered by id.
func (s *MemoryStore) List(_ context.Context) ([]Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Recipe, 0, len(s.recipes))
	for _, recipe := range s.recipes {
		out = append(out, recipe.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id int64) (Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recipe, ok := s.recipes[id]
	if !ok {
		return Recipe{}, fmt.Errorf("recipe %d: %w", id, ErrNotFound)
	}
	return recipe.clone(), nil
}

func (s *MemoryStore) Create(_ context.Context, recipe Recipe) (Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkReferences(recipe); err != nil {
		return Recipe{}, err
	}
	recipe = normalizeRecipe(recipe)
	recipe.ID = s.nextID
	s.nextID++
	s.recipes[recipe.ID] = recipe
	return recipe.clone(), nil
}

func (s *MemoryStore) Update(_ context.Context, recipe Recipe) (Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[recipe.ID]; !ok {
		return Recipe{}, fmt.Errorf("recipe %d: %w", recipe.ID, ErrNotFound)
	}
	if err := s.checkReferences(recipe); err != nil {
		return Recipe{}, err
	}
	recipe = normalizeRecipe(recipe)
	s.recipes[recipe.ID] = recipe
	return recipe.clone(), nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return fmt.Errorf("recipe %d: %w", id, ErrNotFound)
	}
	delete(s.recipes, id)
	return nil
}

func (s *MemoryStore) RecipeTypes(_ context.Context) ([]RecipeType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.types), nil
}

func (s *MemoryStore) MealTimes(_ context.Context) ([]MealTime, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.mealTimes), nil
}

func (s *MemoryStore) checkReferences(recipe Recipe) error {
	if id := recipe.RecipeTypeID; id != nil {
		if !slices.ContainsFunc(s.types, func(t RecipeType) bool { return t.ID == *id }) {
			return fmt.Errorf("recipe type %d: %w", *id, ErrInvalidReference)
		}
	}
	for _, id := range recipe.MealTimeIDs {
		if !slices.ContainsFunc(s.mealTimes, func(m MealTime) bool { return m.ID == id }) {
			return fmt.Errorf("meal time %d: %w", id, ErrInvalidReference)
		}
	}
	return nil
}
