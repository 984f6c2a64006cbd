package postgres

import (
	"context"

	"github.com/oksasatya/recipe-api/internal/domain/entity"
	"github.com/oksasatya/recipe-api/internal/domain/repository"
)

const recipeColumns = `r.id, r.user_id, r.title, r.time_minutes, (r.price * 100)::bigint, r.link, COALESCE(r.image, ''),
	COALESCE((SELECT array_agg(rt.tag_id ORDER BY rt.tag_id) FROM recipe_tags rt WHERE rt.recipe_id = r.id), '{}'),
	COALESCE((SELECT array_agg(ri.ingredient_id ORDER BY ri.ingredient_id) FROM recipe_ingredients ri WHERE ri.recipe_id = r.id), '{}'),
	r.created_at, r.updated_at`

type RecipeRepository struct {
	db DB
}

func NewRecipeRepository(db DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// List applies association filters first, then owner scoping, newest first.
func (r *RecipeRepository) List(ctx context.Context, f repository.RecipeFilter) ([]entity.Recipe, error) {
	q := newSelect(recipeColumns, "recipes r").apply(
		linkedToAny("r.id", "recipe_tags", "tag_id", f.TagIDs),
		linkedToAny("r.id", "recipe_ingredients", "ingredient_id", f.IngredientIDs),
		idIn("r.id", f.IDs),
		containsFold("r.title", f.Title),
		scopeToOwner("r.user_id", f.OwnerID),
		orderBy("r.id DESC"),
	)

	rows, err := conn(ctx, r.db).Query(ctx, q.SQL(), q.Args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Recipe{}
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *RecipeRepository) GetOwned(ctx context.Context, ownerID string, id int64) (*entity.Recipe, error) {
	q := newSelect(recipeColumns, "recipes r").apply(
		eq("r.id", id),
		scopeToOwner("r.user_id", ownerID),
	)
	rec, err := scanRecipe(conn(ctx, r.db).QueryRow(ctx, q.SQL(), q.Args()...))
	if err != nil {
		return nil, notFound(err)
	}
	return rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecipe(s scanner) (*entity.Recipe, error) {
	var (
		rec   entity.Recipe
		cents int64
	)
	if err := s.Scan(&rec.ID, &rec.UserID, &rec.Title, &rec.TimeMinutes, &cents, &rec.Link, &rec.Image,
		&rec.TagIDs, &rec.IngredientIDs, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.Price = entity.Money(cents)
	return &rec, nil
}

// Create inserts the recipe and its associations. Callers run it inside
// Transactor.WithinTx.
func (r *RecipeRepository) Create(ctx context.Context, rec *entity.Recipe) error {
	db := conn(ctx, r.db)
	err := db.QueryRow(ctx, `
		INSERT INTO recipes (user_id, title, time_minutes, price, link, image)
		VALUES ($1, $2, $3, $4::numeric / 100, $5, NULLIF($6, ''))
		RETURNING id, created_at, updated_at
	`, rec.UserID, rec.Title, rec.TimeMinutes, rec.Price.Cents(), rec.Link, rec.Image).
		Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return err
	}
	return r.writeLinks(ctx, rec, false)
}

// Update rewrites every scalar and replaces both association sets.
func (r *RecipeRepository) Update(ctx context.Context, rec *entity.Recipe) error {
	db := conn(ctx, r.db)
	err := db.QueryRow(ctx, `
		UPDATE recipes
		SET title = $1, time_minutes = $2, price = $3::numeric / 100, link = $4, image = NULLIF($5, ''), updated_at = now()
		WHERE id = $6 AND user_id = $7
		RETURNING updated_at
	`, rec.Title, rec.TimeMinutes, rec.Price.Cents(), rec.Link, rec.Image, rec.ID, rec.UserID).
		Scan(&rec.UpdatedAt)
	if err != nil {
		return notFound(err)
	}
	return r.writeLinks(ctx, rec, true)
}

func (r *RecipeRepository) writeLinks(ctx context.Context, rec *entity.Recipe, replace bool) error {
	db := conn(ctx, r.db)
	if replace {
		if _, err := db.Exec(ctx, `DELETE FROM recipe_tags WHERE recipe_id = $1`, rec.ID); err != nil {
			return err
		}
		if _, err := db.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, rec.ID); err != nil {
			return err
		}
	}
	if len(rec.TagIDs) > 0 {
		if _, err := db.Exec(ctx,
			`INSERT INTO recipe_tags (recipe_id, tag_id) SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`,
			rec.ID, rec.TagIDs); err != nil {
			return err
		}
	}
	if len(rec.IngredientIDs) > 0 {
		if _, err := db.Exec(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, ingredient_id) SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`,
			rec.ID, rec.IngredientIDs); err != nil {
			return err
		}
	}
	return nil
}

var _ repository.RecipeRepository = (*RecipeRepository)(nil)
