package repository

import (
	"context"

	"github.com/oksasatya/recipe-api/internal/domain/entity"
)

// TagRepository lists and stores tags. Every read is scoped to an owner.
type TagRepository interface {
	List(ctx context.Context, f ListFilter) ([]entity.Tag, error)
	Create(ctx context.Context, t *entity.Tag) error
	GetByIDs(ctx context.Context, ownerID string, ids []int64) ([]entity.Tag, error)
}

// IngredientRepository mirrors TagRepository for ingredients.
type IngredientRepository interface {
	List(ctx context.Context, f ListFilter) ([]entity.Ingredient, error)
	Create(ctx context.Context, i *entity.Ingredient) error
	GetByIDs(ctx context.Context, ownerID string, ids []int64) ([]entity.Ingredient, error)
}

// RecipeRepository persists recipes together with their tag and ingredient
// associations. Create and Update write associations as given.
type RecipeRepository interface {
	List(ctx context.Context, f RecipeFilter) ([]entity.Recipe, error)
	GetOwned(ctx context.Context, ownerID string, id int64) (*entity.Recipe, error)
	Create(ctx context.Context, r *entity.Recipe) error
	Update(ctx context.Context, r *entity.Recipe) error
}

// HistoryRepository is an append-only snapshot log.
type HistoryRepository interface {
	Append(ctx context.Context, h *entity.HistoryRecord) error
	List(ctx context.Context, f HistoryFilter) ([]entity.HistoryRecord, error)
}

// Transactor runs fn so that every repository call made with the ctx it
// receives commits or rolls back together.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
