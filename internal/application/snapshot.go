package application

import (
	"context"
	"encoding/json"

	"github.com/oksasatya/recipe-api/internal/domain/entity"
	"github.com/oksasatya/recipe-api/internal/domain/repository"
)

type recipeSnapshot struct {
	ID          int64        `json:"id"`
	UserID      string       `json:"user_id"`
	Title       string       `json:"title"`
	TimeMinutes int          `json:"time_minutes"`
	Price       entity.Money `json:"price"`
	Link        string       `json:"link"`
	Image       string       `json:"image"`
	Tags        []int64      `json:"tags"`
	Ingredients []int64      `json:"ingredients"`
}

type ingredientSnapshot struct {
	ID     int64  `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

func appendRecipeHistory(ctx context.Context, h repository.HistoryRepository, r *entity.Recipe, change entity.ChangeType, actor string) error {
	b, err := json.Marshal(recipeSnapshot{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Image:       r.Image,
		Tags:        nonNil(r.TagIDs),
		Ingredients: nonNil(r.IngredientIDs),
	})
	if err != nil {
		return err
	}
	return h.Append(ctx, &entity.HistoryRecord{
		EntityType: entity.EntityRecipe,
		EntityID:   r.ID,
		OwnerID:    r.UserID,
		ChangeType: change,
		ChangedBy:  actor,
		Snapshot:   b,
	})
}

func appendIngredientHistory(ctx context.Context, h repository.HistoryRepository, in *entity.Ingredient, change entity.ChangeType, actor string) error {
	b, err := json.Marshal(ingredientSnapshot{ID: in.ID, UserID: in.UserID, Name: in.Name})
	if err != nil {
		return err
	}
	return h.Append(ctx, &entity.HistoryRecord{
		EntityType: entity.EntityIngredient,
		EntityID:   in.ID,
		OwnerID:    in.UserID,
		ChangeType: change,
		ChangedBy:  actor,
		Snapshot:   b,
	})
}
