package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/recipe-api/internal/interface/http"
	"github.com/oksasatya/recipe-api/internal/interface/middleware"
)

// UserModule wires registration, token and profile routes.
// Public: POST /users, POST /users/token, POST /users/token/refresh
// Protected: POST /users/logout, GET|PUT|PATCH /users/me
type UserModule struct {
	Handler *handlers.UserHandler
	Guard   Guard
}

func NewUserModule(h *handlers.UserHandler, g Guard) *UserModule {
	return &UserModule{Handler: h, Guard: g}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	registerLimiter := m.Guard.limit(10, middleware.KeyByIPAndPath())
	loginLimiter := m.Guard.limit(10, middleware.KeyByIP())
	refreshLimiter := m.Guard.limit(60, middleware.KeyByIP())

	rg.POST("/users", registerLimiter, m.Handler.Register)
	rg.POST("/users/token", loginLimiter, m.Handler.Token)
	rg.POST("/users/token/refresh", refreshLimiter, m.Handler.Refresh)

	auth := m.Guard.protected(rg, "/users")
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/me", m.Handler.GetProfile)
		auth.PUT("/me", m.Handler.UpdateProfile)
		auth.PATCH("/me", m.Handler.UpdateProfile)
	}
}
