package container

import (
	"github.com/oksasatya/recipe-api/internal/infrastructure/memory"
	"github.com/oksasatya/recipe-api/internal/infrastructure/postgres"
)

// PostgresRepositories backs every repository with db. Writes made inside
// Tx.WithinTx share one transaction.
func PostgresRepositories(db postgres.DB) Repositories {
	return Repositories{
		Users:       postgres.NewUserRepository(db),
		Tags:        postgres.NewTagRepository(db),
		Ingredients: postgres.NewIngredientRepository(db),
		Recipes:     postgres.NewRecipeRepository(db),
		History:     postgres.NewHistoryRepository(db),
		Tx:          postgres.NewTransactor(db),
	}
}

func MemoryRepositories(st *memory.Store) Repositories {
	return Repositories{
		Users:       st.Users(),
		Tags:        st.Tags(),
		Ingredients: st.Ingredients(),
		Recipes:     st.Recipes(),
		History:     st.History(),
		Tx:          st,
	}
}
