package postgres

import (
	"context"
	"time"

	"github.com/oksasatya/recipe-api/internal/domain/entity"
	"github.com/oksasatya/recipe-api/internal/domain/repository"
)

// namedTable holds the SQL shared by tags and ingredients: both are
// (id, user_id, name, created_at) rows linked to recipes via a join table.
type namedTable struct {
	db        DB
	table     string
	joinTable string
	fk        string
}

type namedRow struct {
	ID        int64
	UserID    string
	Name      string
	CreatedAt time.Time
}

func (t namedTable) list(ctx context.Context, f repository.ListFilter) ([]namedRow, error) {
	q := newSelect("t.id, t.user_id, t.name, t.created_at", t.table+" t").apply(
		scopeToOwner("t.user_id", f.OwnerID),
	)
	if f.AssignedOnly {
		q.apply(referencedBy("t.id", t.joinTable, t.fk))
	}
	q.apply(orderBy("t.name DESC, t.id DESC"))
	return t.query(ctx, q)
}

func (t namedTable) byIDs(ctx context.Context, ownerID string, ids []int64) ([]namedRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := newSelect("t.id, t.user_id, t.name, t.created_at", t.table+" t").apply(
		idIn("t.id", ids),
		scopeToOwner("t.user_id", ownerID),
		orderBy("t.id"),
	)
	return t.query(ctx, q)
}

func (t namedTable) query(ctx context.Context, q *selectQuery) ([]namedRow, error) {
	rows, err := conn(ctx, t.db).Query(ctx, q.SQL(), q.Args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []namedRow
	for rows.Next() {
		var n namedRow
		if err := rows.Scan(&n.ID, &n.UserID, &n.Name, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (t namedTable) create(ctx context.Context, userID, name string) (int64, time.Time, error) {
	var (
		id        int64
		createdAt time.Time
	)
	err := conn(ctx, t.db).QueryRow(ctx,
		`INSERT INTO `+t.table+` (user_id, name) VALUES ($1, $2) RETURNING id, created_at`,
		userID, name,
	).Scan(&id, &createdAt)
	return id, createdAt, err
}

type TagRepository struct {
	t namedTable
}

func NewTagRepository(db DB) *TagRepository {
	return &TagRepository{t: namedTable{db: db, table: "tags", joinTable: "recipe_tags", fk: "tag_id"}}
}

func (r *TagRepository) List(ctx context.Context, f repository.ListFilter) ([]entity.Tag, error) {
	rows, err := r.t.list(ctx, f)
	return toTags(rows), err
}

func (r *TagRepository) GetByIDs(ctx context.Context, ownerID string, ids []int64) ([]entity.Tag, error) {
	rows, err := r.t.byIDs(ctx, ownerID, ids)
	return toTags(rows), err
}

func (r *TagRepository) Create(ctx context.Context, tag *entity.Tag) error {
	id, createdAt, err := r.t.create(ctx, tag.UserID, tag.Name)
	if err != nil {
		return err
	}
	tag.ID, tag.CreatedAt = id, createdAt
	return nil
}

func toTags(rows []namedRow) []entity.Tag {
	out := make([]entity.Tag, 0, len(rows))
	for _, n := range rows {
		out = append(out, entity.Tag{ID: n.ID, UserID: n.UserID, Name: n.Name, CreatedAt: n.CreatedAt})
	}
	return out
}

type IngredientRepository struct {
	t namedTable
}

func NewIngredientRepository(db DB) *IngredientRepository {
	return &IngredientRepository{t: namedTable{db: db, table: "ingredients", joinTable: "recipe_ingredients", fk: "ingredient_id"}}
}

func (r *IngredientRepository) List(ctx context.Context, f repository.ListFilter) ([]entity.Ingredient, error) {
	rows, err := r.t.list(ctx, f)
	return toIngredients(rows), err
}

func (r *IngredientRepository) GetByIDs(ctx context.Context, ownerID string, ids []int64) ([]entity.Ingredient, error) {
	rows, err := r.t.byIDs(ctx, ownerID, ids)
	return toIngredients(rows), err
}

func (r *IngredientRepository) Create(ctx context.Context, in *entity.Ingredient) error {
	id, createdAt, err := r.t.create(ctx, in.UserID, in.Name)
	if err != nil {
		return err
	}
	in.ID, in.CreatedAt = id, createdAt
	return nil
}

func toIngredients(rows []namedRow) []entity.Ingredient {
	out := make([]entity.Ingredient, 0, len(rows))
	for _, n := range rows {
		out = append(out, entity.Ingredient{ID: n.ID, UserID: n.UserID, Name: n.Name, CreatedAt: n.CreatedAt})
	}
	return out
}

var (
	_ repository.TagRepository        = (*TagRepository)(nil)
	_ repository.IngredientRepository = (*IngredientRepository)(nil)
)
