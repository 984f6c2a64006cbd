package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/recipe-api/internal/domain/entity"
	"github.com/oksasatya/recipe-api/internal/domain/repository"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

var (
	namedCols  = []string{"id", "user_id", "name", "created_at"}
	recipeCols = []string{"id", "user_id", "title", "time_minutes", "price", "link", "image", "tag_ids", "ingredient_ids", "created_at", "updated_at"}
)

func TestTagRepositoryListAssignedOnly(t *testing.T) {
	mock := newMock(t)
	repo := NewTagRepository(mock)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM tags t WHERE t.user_id = $1 AND EXISTS (SELECT 1 FROM recipe_tags j WHERE j.tag_id = t.id) ORDER BY t.name DESC, t.id DESC")).
		WithArgs("u-1").
		WillReturnRows(pgxmock.NewRows(namedCols).
			AddRow(int64(2), "u-1", "Vegan", now).
			AddRow(int64(1), "u-1", "Breakfast", now))

	tags, err := repo.List(context.Background(), repository.ListFilter{OwnerID: "u-1", AssignedOnly: true})
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Vegan", tags[0].Name)
	assert.Equal(t, int64(1), tags[1].ID)
}

func TestIngredientRepositoryListAll(t *testing.T) {
	mock := newMock(t)
	repo := NewIngredientRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM ingredients t WHERE t.user_id = $1 ORDER BY t.name DESC, t.id DESC")).
		WithArgs("u-1").
		WillReturnRows(pgxmock.NewRows(namedCols))

	out, err := repo.List(context.Background(), repository.ListFilter{OwnerID: "u-1"})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestIngredientRepositoryCreate(t *testing.T) {
	mock := newMock(t)
	repo := NewIngredientRepository(mock)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO ingredients (user_id, name) VALUES ($1, $2) RETURNING id, created_at")).
		WithArgs("u-1", "Tomato").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))

	in := &entity.Ingredient{UserID: "u-1", Name: "Tomato"}
	require.NoError(t, repo.Create(context.Background(), in))
	assert.Equal(t, int64(7), in.ID)
	assert.Equal(t, now, in.CreatedAt)
}

func TestTagRepositoryGetByIDsSkipsEmpty(t *testing.T) {
	mock := newMock(t)
	repo := NewTagRepository(mock)

	tags, err := repo.GetByIDs(context.Background(), "u-1", nil)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestRecipeRepositoryListFilters(t *testing.T) {
	mock := newMock(t)
	repo := NewRecipeRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`j\.tag_id = ANY\(\$1\)\) AND EXISTS .* j\.ingredient_id = ANY\(\$2\)\) AND r\.user_id = \$3 ORDER BY r\.id DESC`).
		WithArgs([]int64{1, 2}, []int64{5}, "u-1").
		WillReturnRows(pgxmock.NewRows(recipeCols).
			AddRow(int64(9), "u-1", "Curry", 30, int64(1250), "", "", []int64{1}, []int64{5}, now, now))

	out, err := repo.List(context.Background(), repository.RecipeFilter{
		OwnerID: "u-1", TagIDs: []int64{1, 2}, IngredientIDs: []int64{5},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, entity.Money(1250), out[0].Price)
	assert.Equal(t, []int64{1}, out[0].TagIDs)
}

func TestRecipeRepositoryGetOwnedNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewRecipeRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE r.id = $1 AND r.user_id = $2")).
		WithArgs(int64(3), "u-2").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetOwned(context.Background(), "u-2", 3)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRecipeRepositoryUpdateReplacesLinksInTx(t *testing.T) {
	mock := newMock(t)
	repo := NewRecipeRepository(mock)
	tx := NewTransactor(mock)
	now := time.Now()

	rec := &entity.Recipe{ID: 4, UserID: "u-1", Title: "New", TimeMinutes: 11, Price: 1500, TagIDs: nil, IngredientIDs: []int64{8}}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE recipes")).
		WithArgs("New", 11, int64(1500), "", "", int64(4), "u-1").
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM recipe_tags WHERE recipe_id = $1")).
		WithArgs(int64(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM recipe_ingredients WHERE recipe_id = $1")).
		WithArgs(int64(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO recipe_ingredients")).
		WithArgs(int64(4), []int64{8}).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		return repo.Update(ctx, rec)
	})
	require.NoError(t, err)
	assert.Equal(t, now, rec.UpdatedAt)
}

func TestTransactorRollsBackOnError(t *testing.T) {
	mock := newMock(t)
	repo := NewRecipeRepository(mock)
	tx := NewTransactor(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE recipes")).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		return repo.Update(ctx, &entity.Recipe{ID: 1, UserID: "someone-else"})
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepositoryCreateDuplicate(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &entity.User{Email: "a@x.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserRepositoryGetByEmailNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("ghost@x.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepositoryUpdateMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &entity.User{ID: "missing"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestHistoryRepositoryListForEntity(t *testing.T) {
	mock := newMock(t)
	repo := NewHistoryRepository(mock)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(
		"WHERE h.entity_type = $1 AND h.owner_id = $2 AND h.entity_id = $3 ORDER BY h.changed_at DESC, h.id DESC")).
		WithArgs("recipe", "u-1", int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "entity_type", "entity_id", "owner_id", "change_type", "changed_by", "changed_at", "snapshot"}).
			AddRow(int64(2), "recipe", int64(5), "u-1", "~", "u-1", now, []byte(`{"title":"b"}`)).
			AddRow(int64(1), "recipe", int64(5), "u-1", "+", "u-1", now, []byte(`{"title":"a"}`)))

	out, err := repo.List(context.Background(), repository.HistoryFilter{EntityType: entity.EntityRecipe, OwnerID: "u-1", EntityID: 5})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, entity.ChangeUpdated, out[0].ChangeType)
	assert.JSONEq(t, `{"title":"a"}`, string(out[1].Snapshot))
}

func TestHistoryRepositoryAppendPropagatesErrors(t *testing.T) {
	mock := newMock(t)
	repo := NewHistoryRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO history_records")).
		WillReturnError(errors.New("db down"))

	err := repo.Append(context.Background(), &entity.HistoryRecord{EntityType: entity.EntityRecipe, Snapshot: []byte(`{}`)})
	assert.EqualError(t, err, "db down")
}
