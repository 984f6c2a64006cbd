package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipe-api/internal/application"
	"github.com/oksasatya/recipe-api/internal/domain/entity"
	"github.com/oksasatya/recipe-api/internal/interface/middleware"
	"github.com/oksasatya/recipe-api/pkg/response"
)

type tagRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

type ingredientRequest struct {
	Name string `json:"name" binding:"required,max=200"`
}

type TagHandler struct {
	Svc    *application.TagService
	Logger *logrus.Logger
}

func NewTagHandler(svc *application.TagService, logger *logrus.Logger) *TagHandler {
	return &TagHandler{Svc: svc, Logger: logger}
}

func (h *TagHandler) List(c *gin.Context) {
	assigned, err := application.ParseAssignedOnly(c.Query("assigned_only"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	tags, err := h.Svc.List(c.Request.Context(), middleware.UserID(c), assigned)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, newTags(tags), "tags", nil)
}

func (h *TagHandler) Create(c *gin.Context) {
	var req tagRequest
	if !bindJSON(c, &req, "") {
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), middleware.UserID(c), req.Name)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, tagResponse{ID: t.ID, Name: t.Name}, "tag created", nil)
}

type IngredientHandler struct {
	Svc     *application.IngredientService
	History *application.HistoryService
	Logger  *logrus.Logger
}

func NewIngredientHandler(svc *application.IngredientService, history *application.HistoryService, logger *logrus.Logger) *IngredientHandler {
	return &IngredientHandler{Svc: svc, History: history, Logger: logger}
}

func (h *IngredientHandler) List(c *gin.Context) {
	assigned, err := application.ParseAssignedOnly(c.Query("assigned_only"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	ings, err := h.Svc.List(c.Request.Context(), middleware.UserID(c), assigned)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, newIngredients(ings), "ingredients", nil)
}

func (h *IngredientHandler) Create(c *gin.Context) {
	var req ingredientRequest
	if !bindJSON(c, &req, "") {
		return
	}
	in, err := h.Svc.Create(c.Request.Context(), middleware.UserID(c), req.Name)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, ingredientResponse{ID: in.ID, Name: in.Name}, "ingredient created", nil)
}

// EntityHistory lists the snapshots of one ingredient, newest first.
func (h *IngredientHandler) EntityHistory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		writeError(c, h.Logger, application.ErrNotFound)
		return
	}
	recs, err := h.History.ForEntity(c.Request.Context(), middleware.UserID(c), entity.EntityIngredient, id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, newHistory(recs), "ingredient history", nil)
}
