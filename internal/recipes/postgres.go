package recipes

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/goliatone/go-recipes/internal/db"
)

// PostgresStore persists recipes in Postgres. Meal times live in the
// recipe_meal_times join table; writes touching both tables run in one
// transaction.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore wraps an open pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const selectRecipes = `
SELECT r.id, r.name, r.instructions, r.ingredients, r.recipe_type_id, r.is_diet_friendly,
       COALESCE(array_agg(m.meal_time_id ORDER BY m.meal_time_id)
                FILTER (WHERE m.meal_time_id IS NOT NULL), '{}')
FROM recipes r
LEFT JOIN recipe_meal_times m ON m.recipe_id = r.id
`

func (s *PostgresStore) List(ctx context.Context) ([]Recipe, error) {
	rows, err := s.pool.Query(ctx, selectRecipes+" GROUP BY r.id ORDER BY r.id")
	if err != nil {
		return nil, fmt.Errorf("recipes: list: %w", err)
	}
	defer rows.Close()

	out := []Recipe{}
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("recipes: list: %w", err)
		}
		out = append(out, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recipes: list: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (Recipe, error) {
	row := s.pool.QueryRow(ctx, selectRecipes+" WHERE r.id = $1 GROUP BY r.id", id)
	recipe, err := scanRecipe(row)
	if err != nil {
		if db.IsNotFound(err) {
			return Recipe{}, fmt.Errorf("recipe %d: %w", id, ErrNotFound)
		}
		return Recipe{}, fmt.Errorf("recipes: get %d: %w", id, err)
	}
	return recipe, nil
}

func (s *PostgresStore) Create(ctx context.Context, recipe Recipe) (Recipe, error) {
	recipe = normalizeRecipe(recipe)
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO recipes (name, instructions, ingredients, recipe_type_id, is_diet_friendly)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			recipe.Name, recipe.Instructions, recipe.Ingredients, recipe.RecipeTypeID, recipe.IsDietFriendly,
		).Scan(&recipe.ID)
		if err != nil {
			return err
		}
		return replaceMealTimes(ctx, tx, recipe.ID, recipe.MealTimeIDs)
	})
	if err != nil {
		return Recipe{}, writeError("create", err)
	}
	return recipe, nil
}

func (s *PostgresStore) Update(ctx context.Context, recipe Recipe) (Recipe, error) {
	recipe = normalizeRecipe(recipe)
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE recipes
			 SET name = $2, instructions = $3, ingredients = $4, recipe_type_id = $5, is_diet_friendly = $6
			 WHERE id = $1`,
			recipe.ID, recipe.Name, recipe.Instructions, recipe.Ingredients, recipe.RecipeTypeID, recipe.IsDietFriendly,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("recipe %d: %w", recipe.ID, ErrNotFound)
		}
		return replaceMealTimes(ctx, tx, recipe.ID, recipe.MealTimeIDs)
	})
	if err != nil {
		return Recipe{}, writeError("update", err)
	}
	return recipe, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("recipes: delete %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("recipe %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) RecipeTypes(ctx context.Context) ([]RecipeType, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM recipe_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("recipes: recipe types: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByPos[RecipeType])
	if err != nil {
		return nil, fmt.Errorf("recipes: recipe types: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) MealTimes(ctx context.Context) ([]MealTime, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM meal_times ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("recipes: meal times: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByPos[MealTime])
	if err != nil {
		return nil, fmt.Errorf("recipes: meal times: %w", err)
	}
	return out, nil
}

func scanRecipe(row pgx.Row) (Recipe, error) {
	var recipe Recipe
	err := row.Scan(
		&recipe.ID,
		&recipe.Name,
		&recipe.Instructions,
		&recipe.Ingredients,
		&recipe.RecipeTypeID,
		&recipe.IsDietFriendly,
		&recipe.MealTimeIDs,
	)
	if recipe.MealTimeIDs == nil {
		recipe.MealTimeIDs = []int64{}
	}
	return recipe, err
}

func replaceMealTimes(ctx context.Context, tx pgx.Tx, recipeID int64, ids []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM recipe_meal_times WHERE recipe_id = $1`, recipeID); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO recipe_meal_times (recipe_id, meal_time_id) SELECT $1, unnest($2::bigint[])`,
		recipeID, ids,
	)
	return err
}

func writeError(op string, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return err
	case db.IsForeignKeyViolation(err):
		return errors.Join(ErrInvalidReference, err)
	default:
		return fmt.Errorf("recipes: %s: %w", op, err)
	}
}
