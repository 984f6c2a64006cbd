package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/recipe-api/internal/domain/repository"
	"github.com/oksasatya/recipe-api/internal/interface/middleware"
	"github.com/oksasatya/recipe-api/pkg/helpers"
)

// Guard holds what every module needs to protect its routes.
// A nil Redis disables rate limiting.
type Guard struct {
	Redis    *redis.Client
	Sessions repository.SessionRepository
	JWT      *helpers.JWTManager
}

// limit allows max requests per minute per key.
func (g Guard) limit(max int, key middleware.KeyFunc) gin.HandlerFunc {
	return middleware.RateLimit(g.Redis, max, time.Minute, key, nil)
}

// protected returns a group that requires a valid session, with a soft
// per-IP limiter and a per-user limiter.
func (g Guard) protected(rg *gin.RouterGroup, path string) *gin.RouterGroup {
	grp := rg.Group(path)
	grp.Use(
		middleware.Auth(g.Sessions, g.JWT),
		g.limit(300, middleware.KeyByIP()),
		g.limit(120, middleware.KeyByUserID()),
	)
	return grp
}
