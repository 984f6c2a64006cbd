package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/oksasatya/recipe-api/internal/domain/entity"
	"github.com/oksasatya/recipe-api/internal/domain/repository"
)

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name", "is required")
	}
	return name, nil
}

type TagService struct {
	Tags repository.TagRepository
}

func NewTagService(tags repository.TagRepository) *TagService {
	return &TagService{Tags: tags}
}

// List returns the owner's tags, name descending, optionally only those used by a recipe.
func (s *TagService) List(ctx context.Context, ownerID string, assignedOnly bool) ([]entity.Tag, error) {
	return s.Tags.List(ctx, repository.ListFilter{OwnerID: ownerID, AssignedOnly: assignedOnly})
}

func (s *TagService) Create(ctx context.Context, ownerID, name string) (*entity.Tag, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	t := &entity.Tag{UserID: ownerID, Name: name}
	if err := s.Tags.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return t, nil
}

type IngredientService struct {
	Ingredients repository.IngredientRepository
	History     repository.HistoryRepository
	Tx          repository.Transactor
}

func NewIngredientService(ingredients repository.IngredientRepository, history repository.HistoryRepository, tx repository.Transactor) *IngredientService {
	return &IngredientService{Ingredients: ingredients, History: history, Tx: tx}
}

func (s *IngredientService) List(ctx context.Context, ownerID string, assignedOnly bool) ([]entity.Ingredient, error) {
	return s.Ingredients.List(ctx, repository.ListFilter{OwnerID: ownerID, AssignedOnly: assignedOnly})
}

// Create stores the ingredient and its first history snapshot atomically.
func (s *IngredientService) Create(ctx context.Context, ownerID, name string) (*entity.Ingredient, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	in := &entity.Ingredient{UserID: ownerID, Name: name}
	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Ingredients.Create(ctx, in); err != nil {
			return err
		}
		return appendIngredientHistory(ctx, s.History, in, entity.ChangeCreated, ownerID)
	})
	if err != nil {
		return nil, fmt.Errorf("create ingredient: %w", err)
	}
	return in, nil
}
