package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipe-api/config"
	"github.com/oksasatya/recipe-api/internal/application"
	"github.com/oksasatya/recipe-api/internal/domain/repository"
	"github.com/oksasatya/recipe-api/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

// Repositories is the persistence backend selected by STORE_DRIVER.
type Repositories struct {
	Users       repository.UserRepository
	Tags        repository.TagRepository
	Ingredients repository.IngredientRepository
	Recipes     repository.RecipeRepository
	History     repository.HistoryRepository
	Tx          repository.Transactor
}

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client

	jwtManager *helpers.JWTManager

	repos    Repositories
	sessions repository.SessionRepository
	images   application.ImageStore
	indexer  application.RecipeIndexer

	rabbitPub *helpers.RabbitPublisher
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager  { return jwtManager }

func SetRepositories(r Repositories)               { repos = r }
func GetRepositories() Repositories                { return repos }
func SetSessions(s repository.SessionRepository)   { sessions = s }
func GetSessions() repository.SessionRepository    { return sessions }
func SetImageStore(s application.ImageStore)       { images = s }
func GetImageStore() application.ImageStore        { return images }
func SetRecipeIndexer(i application.RecipeIndexer) { indexer = i }
func GetRecipeIndexer() application.RecipeIndexer  { return indexer }
func SetRabbitPub(p *helpers.RabbitPublisher)      { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher       { return rabbitPub }

