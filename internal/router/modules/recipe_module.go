package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/recipe-api/internal/interface/http"
	"github.com/oksasatya/recipe-api/internal/interface/middleware"
)

type RecipeModule struct {
	Handler *handlers.RecipeHandler
	Guard   Guard
}

func NewRecipeModule(h *handlers.RecipeHandler, g Guard) *RecipeModule {
	return &RecipeModule{Handler: h, Guard: g}
}

func (m *RecipeModule) Register(rg *gin.RouterGroup) {
	recipes := m.Guard.protected(rg, "/recipes")
	recipes.GET("", m.Handler.List)
	recipes.POST("", m.Handler.Create)
	recipes.GET("/search", m.Guard.limit(60, middleware.KeyByUserAndPath()), m.Handler.Search)
	recipes.GET("/history", m.Handler.HistoryList)
	recipes.GET("/history/:id", m.Handler.HistoryDetail)
	recipes.GET("/:id", m.Handler.Retrieve)
	recipes.PUT("/:id", m.Handler.Update)
	recipes.PATCH("/:id", m.Handler.PartialUpdate)
	recipes.POST("/:id/upload-image", m.Guard.limit(20, middleware.KeyByUserAndPath()), m.Handler.UploadImage)
}
