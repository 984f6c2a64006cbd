package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipe-api/internal/application"
	"github.com/oksasatya/recipe-api/internal/domain/entity"
	"github.com/oksasatya/recipe-api/internal/domain/repository"
	"github.com/oksasatya/recipe-api/internal/interface/middleware"
	"github.com/oksasatya/recipe-api/pkg/response"
)

// multipart framing allowance on top of the image size limit
const multipartOverhead = 1 << 20

type RecipeHandler struct {
	Svc     *application.RecipeService
	History *application.HistoryService
	Logger  *logrus.Logger
}

func NewRecipeHandler(svc *application.RecipeService, history *application.HistoryService, logger *logrus.Logger) *RecipeHandler {
	return &RecipeHandler{Svc: svc, History: history, Logger: logger}
}

type recipeRequest struct {
	Title       string        `json:"title" binding:"required,max=100"`
	TimeMinutes *int          `json:"time_minutes" binding:"required,gte=0"`
	Price       *entity.Money `json:"price" binding:"required,price"`
	Link        string        `json:"link" binding:"omitempty,max=255"`
	Tags        []int64       `json:"tags"`
	Ingredients []int64       `json:"ingredients"`
}

func (r recipeRequest) input() application.RecipeInput {
	return application.RecipeInput{
		Title:         r.Title,
		TimeMinutes:   *r.TimeMinutes,
		Price:         *r.Price,
		Link:          r.Link,
		TagIDs:        r.Tags,
		IngredientIDs: r.Ingredients,
	}
}

type recipePatchRequest struct {
	Title       *string       `json:"title" binding:"omitempty,max=100"`
	TimeMinutes *int          `json:"time_minutes" binding:"omitempty,gte=0"`
	Price       *entity.Money `json:"price" binding:"omitempty,price"`
	Link        *string       `json:"link" binding:"omitempty,max=255"`
	Tags        *[]int64      `json:"tags"`
	Ingredients *[]int64      `json:"ingredients"`
}

func (h *RecipeHandler) List(c *gin.Context) {
	tagIDs, err := application.ParseIDList("tags", c.Query("tags"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	ingredientIDs, err := application.ParseIDList("ingredients", c.Query("ingredients"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	recs, err := h.Svc.List(c.Request.Context(), middleware.UserID(c), repository.RecipeFilter{TagIDs: tagIDs, IngredientIDs: ingredientIDs})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.renderList(c, actionList, recs)
}

func (h *RecipeHandler) Search(c *gin.Context) {
	recs, err := h.Svc.SearchRecipes(c.Request.Context(), middleware.UserID(c), c.Query("q"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.renderList(c, actionSearch, recs)
}

func (h *RecipeHandler) Create(c *gin.Context) {
	var req recipeRequest
	if !bindJSON(c, &req, "price") {
		return
	}
	r, err := h.Svc.Create(c.Request.Context(), middleware.UserID(c), req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.render(c, http.StatusCreated, actionCreate, r, "recipe created")
}

func (h *RecipeHandler) Retrieve(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		writeError(c, h.Logger, application.ErrNotFound)
		return
	}
	d, err := h.Svc.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, h.present(shapeFor(actionRetrieve), d), "recipe", nil)
}

func (h *RecipeHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		writeError(c, h.Logger, application.ErrNotFound)
		return
	}
	var req recipeRequest
	if !bindJSON(c, &req, "price") {
		return
	}
	r, err := h.Svc.Replace(c.Request.Context(), middleware.UserID(c), id, req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.render(c, http.StatusOK, actionUpdate, r, "recipe updated")
}

func (h *RecipeHandler) PartialUpdate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		writeError(c, h.Logger, application.ErrNotFound)
		return
	}
	var req recipePatchRequest
	if !bindJSON(c, &req, "price") {
		return
	}
	r, err := h.Svc.Patch(c.Request.Context(), middleware.UserID(c), id, application.RecipePatch{
		Title:         req.Title,
		TimeMinutes:   req.TimeMinutes,
		Price:         req.Price,
		Link:          req.Link,
		TagIDs:        req.Tags,
		IngredientIDs: req.Ingredients,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.render(c, http.StatusOK, actionPartialUpdate, r, "recipe updated")
}

// UploadImage accepts multipart field "image". Ownership is checked before
// the body is read.
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		writeError(c, h.Logger, application.ErrNotFound)
		return
	}
	if err := h.Svc.CheckOwned(c.Request.Context(), middleware.UserID(c), id); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if h.Svc.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Svc.MaxUploadBytes+multipartOverhead)
	}
	fh, err := c.FormFile("image")
	if c.Request.MultipartForm != nil {
		defer func() { _ = c.Request.MultipartForm.RemoveAll() }()
	}
	if err != nil {
		msg := "no file was submitted"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			msg = "the submitted file is too large"
		}
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"image": msg})
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	defer f.Close()

	r, err := h.Svc.UploadImage(c.Request.Context(), middleware.UserID(c), id, fh.Filename, f)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.render(c, http.StatusOK, actionUploadImage, r, "image uploaded")
}

// HistoryList returns snapshots of all the caller's recipes.
func (h *RecipeHandler) HistoryList(c *gin.Context) {
	recs, err := h.History.List(c.Request.Context(), middleware.UserID(c), entity.EntityRecipe)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, newHistory(recs), "recipe history", nil)
}

func (h *RecipeHandler) HistoryDetail(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		writeError(c, h.Logger, application.ErrNotFound)
		return
	}
	recs, err := h.History.ForEntity(c.Request.Context(), middleware.UserID(c), entity.EntityRecipe, id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, newHistory(recs), "recipe history", nil)
}

func (h *RecipeHandler) render(c *gin.Context, status int, a recipeAction, r *entity.Recipe, msg string) {
	response.Success(c, status, h.present(shapeFor(a), &entity.RecipeDetail{Recipe: *r}), msg, nil)
}

func (h *RecipeHandler) renderList(c *gin.Context, a recipeAction, recs []entity.Recipe) {
	shape := shapeFor(a)
	out := make([]any, 0, len(recs))
	for i := range recs {
		out = append(out, h.present(shape, &entity.RecipeDetail{Recipe: recs[i]}))
	}
	response.Success(c, http.StatusOK, out, "recipes", nil)
}

func (h *RecipeHandler) present(shape responseShape, d *entity.RecipeDetail) any {
	switch shape {
	case shapeDetail:
		return newRecipeDetail(d, h.Svc.ImageURL)
	case shapeImage:
		return recipeImage{ID: d.ID, Image: h.Svc.ImageURL(d.Image)}
	default:
		return newRecipeSummary(&d.Recipe)
	}
}
