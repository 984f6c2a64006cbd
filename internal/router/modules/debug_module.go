package modules

import (
	"context"
	"expvar"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/recipe-api/internal/interface/middleware"
	"github.com/oksasatya/recipe-api/pkg/response"
)

// DebugModule exposes expvar metrics, rate limited per IP except for private networks.
type DebugModule struct {
	Guard   Guard
	Enabled bool
}

func NewDebugModule(g Guard, enabled bool) *DebugModule { return &DebugModule{Guard: g, Enabled: enabled} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	if !m.Enabled {
		return
	}
	rl := middleware.RateLimit(m.Guard.Redis, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}

// HealthModule answers GET /healthz, running each named check with a short timeout.
type HealthModule struct {
	Checks map[string]func(context.Context) error
}

func NewHealthModule(checks map[string]func(context.Context) error) *HealthModule {
	return &HealthModule{Checks: checks}
}

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		failed := map[string]string{}
		for name, check := range m.Checks {
			if err := check(ctx); err != nil {
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			response.Error[any](c, http.StatusServiceUnavailable, "unhealthy", failed)
			return
		}
		response.Success[any](c, http.StatusOK, map[string]string{"status": "ok"}, "healthy", nil)
	})
}
