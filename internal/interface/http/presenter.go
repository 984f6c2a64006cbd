package handlers

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/recipe-api/internal/domain/entity"
)

// responseShape selects how a recipe is rendered for an endpoint action.
type responseShape int

const (
	shapeSummary responseShape = iota
	shapeDetail
	shapeImage
)

type recipeAction string

const (
	actionList          recipeAction = "list"
	actionCreate        recipeAction = "create"
	actionRetrieve      recipeAction = "retrieve"
	actionUpdate        recipeAction = "update"
	actionPartialUpdate recipeAction = "partial_update"
	actionUploadImage   recipeAction = "upload_image"
	actionSearch        recipeAction = "search"
)

func shapeFor(a recipeAction) responseShape {
	switch a {
	case actionRetrieve:
		return shapeDetail
	case actionUploadImage:
		return shapeImage
	default:
		return shapeSummary
	}
}

type tagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ingredientResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type recipeSummary struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	TimeMinutes int          `json:"time_minutes"`
	Price       entity.Money `json:"price"`
	Link        string       `json:"link"`
	Tags        []int64      `json:"tags"`
	Ingredients []int64      `json:"ingredients"`
}

type recipeDetail struct {
	ID          int64                `json:"id"`
	Title       string               `json:"title"`
	TimeMinutes int                  `json:"time_minutes"`
	Price       entity.Money         `json:"price"`
	Link        string               `json:"link"`
	Image       string               `json:"image"`
	Tags        []tagResponse        `json:"tags"`
	Ingredients []ingredientResponse `json:"ingredients"`
}

type recipeImage struct {
	ID    int64  `json:"id"`
	Image string `json:"image"`
}

type historyResponse struct {
	HistoryID   int64           `json:"history_id"`
	HistoryType string          `json:"history_type"`
	HistoryDate time.Time       `json:"history_date"`
	HistoryUser string          `json:"history_user"`
	ID          int64           `json:"id"`
	Snapshot    json.RawMessage `json:"snapshot"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func ids(v []int64) []int64 {
	if v == nil {
		return []int64{}
	}
	return v
}

func newRecipeSummary(r *entity.Recipe) recipeSummary {
	return recipeSummary{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Tags:        ids(r.TagIDs),
		Ingredients: ids(r.IngredientIDs),
	}
}

func newRecipeDetail(d *entity.RecipeDetail, imageURL func(string) string) recipeDetail {
	out := recipeDetail{
		ID:          d.ID,
		Title:       d.Title,
		TimeMinutes: d.TimeMinutes,
		Price:       d.Price,
		Link:        d.Link,
		Image:       imageURL(d.Image),
		Tags:        newTags(d.Tags),
		Ingredients: newIngredients(d.Ingredients),
	}
	return out
}

func newTags(ts []entity.Tag) []tagResponse {
	out := make([]tagResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, tagResponse{ID: t.ID, Name: t.Name})
	}
	return out
}

func newIngredients(in []entity.Ingredient) []ingredientResponse {
	out := make([]ingredientResponse, 0, len(in))
	for _, i := range in {
		out = append(out, ingredientResponse{ID: i.ID, Name: i.Name})
	}
	return out
}

func newHistory(recs []entity.HistoryRecord) []historyResponse {
	out := make([]historyResponse, 0, len(recs))
	for _, h := range recs {
		out = append(out, historyResponse{
			HistoryID:   h.ID,
			HistoryType: string(h.ChangeType),
			HistoryDate: h.ChangedAt,
			HistoryUser: h.ChangedBy,
			ID:          h.EntityID,
			Snapshot:    h.Snapshot,
		})
	}
	return out
}

func newUser(u *entity.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

// pathID parses the :id route param. Anything but a positive integer
// cannot name a resource, so callers answer 404.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}
