package application

import (
	"context"
	"io"

	"github.com/oksasatya/recipe-api/internal/domain/entity"
)

// ImageStore persists uploaded images under a key and renders their public URL.
type ImageStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// RecipeIndexer keeps a full text index of recipes. Optional.
type RecipeIndexer interface {
	IndexRecipe(ctx context.Context, r entity.Recipe) error
	SearchRecipes(ctx context.Context, ownerID, q string) ([]int64, error)
}

// EmailPublisher enqueues email jobs for the worker. Optional.
type EmailPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}
