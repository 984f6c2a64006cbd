package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/recipe-api/internal/interface/http"
)

// TagModule: GET|POST /tags
type TagModule struct {
	Handler *handlers.TagHandler
	Guard   Guard
}

func NewTagModule(h *handlers.TagHandler, g Guard) *TagModule {
	return &TagModule{Handler: h, Guard: g}
}

func (m *TagModule) Register(rg *gin.RouterGroup) {
	tags := m.Guard.protected(rg, "/tags")
	tags.GET("", m.Handler.List)
	tags.POST("", m.Handler.Create)
}

// IngredientModule: GET|POST /ingredients, GET /ingredients/history/:id
type IngredientModule struct {
	Handler *handlers.IngredientHandler
	Guard   Guard
}

func NewIngredientModule(h *handlers.IngredientHandler, g Guard) *IngredientModule {
	return &IngredientModule{Handler: h, Guard: g}
}

func (m *IngredientModule) Register(rg *gin.RouterGroup) {
	ings := m.Guard.protected(rg, "/ingredients")
	ings.GET("", m.Handler.List)
	ings.POST("", m.Handler.Create)
	ings.GET("/history/:id", m.Handler.EntityHistory)
}
