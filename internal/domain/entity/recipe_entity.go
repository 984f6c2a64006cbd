package entity

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RecipeImagePrefix is where uploaded recipe images are stored
const RecipeImagePrefix = "uploads/recipe/"

// Recipe is owned by exactly one user. TagIDs and IngredientIDs hold the
// many-to-many associations; mutations are recorded in history.
type Recipe struct {
	ID            int64
	UserID        string
	Title         string
	TimeMinutes   int
	Price         Money
	Link          string
	Image         string
	TagIDs        []int64
	IngredientIDs []int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RecipeDetail is a recipe with its associations resolved
type RecipeDetail struct {
	Recipe
	Tags        []Tag
	Ingredients []Ingredient
}

// RecipeImagePath returns uploads/recipe/<uuid>.<ext>, ext being whatever
// follows the last dot of filename. Every call yields a fresh id.
func RecipeImagePath(filename string) string {
	parts := strings.Split(path.Base(filename), ".")
	ext := parts[len(parts)-1]
	return RecipeImagePrefix + uuid.NewString() + "." + ext
}
