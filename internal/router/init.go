package router

import (
	"context"

	"github.com/oksasatya/recipe-api/internal/application"
	"github.com/oksasatya/recipe-api/internal/container"
	handlers "github.com/oksasatya/recipe-api/internal/interface/http"
	"github.com/oksasatya/recipe-api/internal/router/modules"
)

// Services are the application services built from the container.
type Services struct {
	Users       *application.UserService
	Tags        *application.TagService
	Ingredients *application.IngredientService
	Recipes     *application.RecipeService
	History     *application.HistoryService
}

// BuildServices wires application services from the container singletons.
func BuildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	repos := container.GetRepositories()

	var mail application.EmailPublisher
	if pub := container.GetRabbitPub(); pub != nil {
		mail = pub
	}

	return Services{
		Users:       application.NewUserService(repos.Users, container.GetSessions(), container.GetJWT(), mail, cfg, logger),
		Tags:        application.NewTagService(repos.Tags),
		Ingredients: application.NewIngredientService(repos.Ingredients, repos.History, repos.Tx),
		Recipes: application.NewRecipeService(
			repos.Recipes,
			repos.Tags,
			repos.Ingredients,
			repos.History,
			repos.Tx,
			container.GetImageStore(),
			container.GetRecipeIndexer(),
			logger,
			cfg.MaxUploadBytes,
			cfg.MaxImagePixels,
		),
		History: application.NewHistoryService(repos.History),
	}
}

func healthChecks() map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{}
	if pool := container.GetPGPool(); pool != nil {
		checks["postgres"] = pool.Ping
	}
	if rdb := container.GetRedis(); rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return checks
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	svc := BuildServices()
	guard := modules.Guard{
		Redis:    container.GetRedis(),
		Sessions: container.GetSessions(),
		JWT:      container.GetJWT(),
	}

	r.Add(
		modules.NewHealthModule(healthChecks()),
		modules.NewDebugModule(guard, cfg.DebugMetricsEnabled),
		modules.NewUserModule(handlers.NewUserHandler(svc.Users, logger, cfg.CookieDomain, cfg.CookieSecure), guard),
		modules.NewTagModule(handlers.NewTagHandler(svc.Tags, logger), guard),
		modules.NewIngredientModule(handlers.NewIngredientHandler(svc.Ingredients, svc.History, logger), guard),
		modules.NewRecipeModule(handlers.NewRecipeHandler(svc.Recipes, svc.History, logger), guard),
	)
}
