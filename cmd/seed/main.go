package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/recipe-api/config"
	"github.com/oksasatya/recipe-api/internal/application"
	"github.com/oksasatya/recipe-api/internal/container"
	"github.com/oksasatya/recipe-api/internal/domain/entity"
	"github.com/oksasatya/recipe-api/internal/domain/repository"
	pginfra "github.com/oksasatya/recipe-api/internal/infrastructure/postgres"
	"github.com/oksasatya/recipe-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer pool.Close()
	repos := container.PostgresRepositories(pool)

	users := application.NewUserService(repos.Users, nil, nil, nil, cfg, logger)
	tags := application.NewTagService(repos.Tags)
	ingredients := application.NewIngredientService(repos.Ingredients, repos.History, repos.Tx)
	recipes := application.NewRecipeService(repos.Recipes, repos.Tags, repos.Ingredients, repos.History, repos.Tx, nil, nil, logger, cfg.MaxUploadBytes, cfg.MaxImagePixels)

	demo := ensureUser(ctx, users, repos.Users, "demo@example.com", "password123", "Demo User", false)
	ensureUser(ctx, users, repos.Users, "admin@example.com", "admin12345", "Admin", true)

	existing, err := recipes.List(ctx, demo.ID, repository.RecipeFilter{Title: "Halwa"})
	if err != nil {
		log.Fatalf("failed to list recipes: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("recipe already seeded: id=%d\n", existing[0].ID)
		return
	}

	var tagIDs, ingredientIDs []int64
	for _, name := range []string{"Dessert", "Vegetarian"} {
		t, err := tags.Create(ctx, demo.ID, name)
		if err != nil {
			log.Fatalf("failed to seed tag %q: %v", name, err)
		}
		tagIDs = append(tagIDs, t.ID)
	}
	for _, name := range []string{"Semolina", "Sugar", "Ghee", "Cardamom"} {
		in, err := ingredients.Create(ctx, demo.ID, name)
		if err != nil {
			log.Fatalf("failed to seed ingredient %q: %v", name, err)
		}
		ingredientIDs = append(ingredientIDs, in.ID)
	}

	price, _ := entity.ParseMoney("5.00")
	r, err := recipes.Create(ctx, demo.ID, application.RecipeInput{
		Title:         "Halwa",
		TimeMinutes:   5,
		Price:         price,
		TagIDs:        tagIDs,
		IngredientIDs: ingredientIDs,
	})
	if err != nil {
		log.Fatalf("failed to seed recipe: %v", err)
	}
	fmt.Printf("seeded recipe: id=%d title=%s tags=%v ingredients=%v\n", r.ID, r.Title, r.TagIDs, r.IngredientIDs)
}

func ensureUser(ctx context.Context, svc *application.UserService, repo repository.UserRepository, email, password, name string, superuser bool) *entity.User {
	create := svc.CreateUser
	if superuser {
		create = svc.CreateSuperuser
	}
	u, err := create(ctx, email, password, name)
	if errors.Is(err, application.ErrEmailTaken) {
		if u, err = repo.GetByEmail(ctx, email); err != nil {
			log.Fatalf("failed to load user %s: %v", email, err)
		}
		fmt.Printf("user exists: id=%s email=%s\n", u.ID, u.Email)
		return u
	}
	if err != nil {
		log.Fatalf("failed to seed user %s: %v", email, err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s superuser=%v\n", u.ID, u.Email, password, superuser)
	return u
}
