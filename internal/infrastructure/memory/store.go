// Package memory implements the repository contracts on in-process maps.
// It backs STORE_DRIVER=memory and the HTTP tests; scoping and ordering
// rules match the postgres package.
package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/recipe-api/internal/domain/entity"
	"github.com/oksasatya/recipe-api/internal/domain/repository"
)

type Store struct {
	mu sync.RWMutex

	users       map[string]entity.User
	tags        map[int64]entity.Tag
	ingredients map[int64]entity.Ingredient
	recipes     map[int64]entity.Recipe
	history     []entity.HistoryRecord
	seq         int64
	now         func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:       map[string]entity.User{},
		tags:        map[int64]entity.Tag{},
		ingredients: map[int64]entity.Ingredient{},
		recipes:     map[int64]entity.Recipe{},
		now:         time.Now,
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *Store) Users() *UserRepository             { return &UserRepository{s} }
func (s *Store) Tags() *TagRepository               { return &TagRepository{s} }
func (s *Store) Ingredients() *IngredientRepository { return &IngredientRepository{s} }
func (s *Store) Recipes() *RecipeRepository         { return &RecipeRepository{s} }
func (s *Store) History() *HistoryRepository        { return &HistoryRepository{s} }

// WithinTx runs fn directly: every single call is already atomic and the
// store has no rollback.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// predicate composes the same way postgres scopes do.
type predicate[T any] func(T) bool

func all[T any](preds ...predicate[T]) predicate[T] {
	return func(v T) bool {
		for _, p := range preds {
			if p != nil && !p(v) {
				return false
			}
		}
		return true
	}
}

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = r.s.now()
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, existing := range r.s.users {
		if id != u.ID && existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.UpdatedAt = r.s.now()
	r.s.users[u.ID] = *u
	return nil
}

// assigned reports whether any recipe references id through links.
func (s *Store) assigned(id int64, links func(entity.Recipe) []int64) bool {
	for _, rec := range s.recipes {
		if slices.Contains(links(rec), id) {
			return true
		}
	}
	return false
}

func recipeTags(r entity.Recipe) []int64        { return r.TagIDs }
func recipeIngredients(r entity.Recipe) []int64 { return r.IngredientIDs }

type TagRepository struct{ s *Store }

func (r *TagRepository) List(_ context.Context, f repository.ListFilter) ([]entity.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	match := all(
		func(t entity.Tag) bool { return t.UserID == f.OwnerID },
		func(t entity.Tag) bool { return !f.AssignedOnly || r.s.assigned(t.ID, recipeTags) },
	)
	out := []entity.Tag{}
	for _, t := range r.s.tags {
		if match(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return nameDesc(out[i].Name, out[i].ID, out[j].Name, out[j].ID) })
	return out, nil
}

func (r *TagRepository) Create(_ context.Context, t *entity.Tag) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.ID = r.s.nextID()
	t.CreatedAt = r.s.now()
	r.s.tags[t.ID] = *t
	return nil
}

func (r *TagRepository) GetByIDs(_ context.Context, ownerID string, ids []int64) ([]entity.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.Tag{}
	for _, id := range sortedUnique(ids) {
		if t, ok := r.s.tags[id]; ok && t.UserID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

type IngredientRepository struct{ s *Store }

func (r *IngredientRepository) List(_ context.Context, f repository.ListFilter) ([]entity.Ingredient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	match := all(
		func(in entity.Ingredient) bool { return in.UserID == f.OwnerID },
		func(in entity.Ingredient) bool { return !f.AssignedOnly || r.s.assigned(in.ID, recipeIngredients) },
	)
	out := []entity.Ingredient{}
	for _, in := range r.s.ingredients {
		if match(in) {
			out = append(out, in)
		}
	}
	sort.Slice(out, func(i, j int) bool { return nameDesc(out[i].Name, out[i].ID, out[j].Name, out[j].ID) })
	return out, nil
}

func (r *IngredientRepository) Create(_ context.Context, in *entity.Ingredient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	in.ID = r.s.nextID()
	in.CreatedAt = r.s.now()
	r.s.ingredients[in.ID] = *in
	return nil
}

func (r *IngredientRepository) GetByIDs(_ context.Context, ownerID string, ids []int64) ([]entity.Ingredient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.Ingredient{}
	for _, id := range sortedUnique(ids) {
		if in, ok := r.s.ingredients[id]; ok && in.UserID == ownerID {
			out = append(out, in)
		}
	}
	return out, nil
}

type RecipeRepository struct{ s *Store }

func linkedToAny(links func(entity.Recipe) []int64, ids []int64) predicate[entity.Recipe] {
	if len(ids) == 0 {
		return nil
	}
	return func(r entity.Recipe) bool {
		for _, id := range links(r) {
			if slices.Contains(ids, id) {
				return true
			}
		}
		return false
	}
}

func (r *RecipeRepository) List(_ context.Context, f repository.RecipeFilter) ([]entity.Recipe, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var idFilter, titleFilter predicate[entity.Recipe]
	if f.IDs != nil {
		idFilter = func(rec entity.Recipe) bool { return slices.Contains(f.IDs, rec.ID) }
	}
	if f.Title != "" {
		needle := strings.ToLower(f.Title)
		titleFilter = func(rec entity.Recipe) bool { return strings.Contains(strings.ToLower(rec.Title), needle) }
	}
	match := all(
		linkedToAny(recipeTags, f.TagIDs),
		linkedToAny(recipeIngredients, f.IngredientIDs),
		idFilter,
		titleFilter,
		func(rec entity.Recipe) bool { return rec.UserID == f.OwnerID },
	)

	out := []entity.Recipe{}
	for _, rec := range r.s.recipes {
		if match(rec) {
			out = append(out, cloneRecipe(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *RecipeRepository) GetOwned(_ context.Context, ownerID string, id int64) (*entity.Recipe, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.recipes[id]
	if !ok || rec.UserID != ownerID {
		return nil, repository.ErrNotFound
	}
	rec = cloneRecipe(rec)
	return &rec, nil
}

func (r *RecipeRepository) Create(_ context.Context, rec *entity.Recipe) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec.ID = r.s.nextID()
	rec.CreatedAt = r.s.now()
	rec.UpdatedAt = rec.CreatedAt
	rec.TagIDs = sortedUnique(rec.TagIDs)
	rec.IngredientIDs = sortedUnique(rec.IngredientIDs)
	r.s.recipes[rec.ID] = cloneRecipe(*rec)
	return nil
}

func (r *RecipeRepository) Update(_ context.Context, rec *entity.Recipe) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.recipes[rec.ID]
	if !ok || existing.UserID != rec.UserID {
		return repository.ErrNotFound
	}
	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = r.s.now()
	rec.TagIDs = sortedUnique(rec.TagIDs)
	rec.IngredientIDs = sortedUnique(rec.IngredientIDs)
	r.s.recipes[rec.ID] = cloneRecipe(*rec)
	return nil
}

type HistoryRepository struct{ s *Store }

func (r *HistoryRepository) Append(_ context.Context, h *entity.HistoryRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h.ID = int64(len(r.s.history) + 1)
	h.ChangedAt = r.s.now()
	cp := *h
	cp.Snapshot = slices.Clone(h.Snapshot)
	r.s.history = append(r.s.history, cp)
	return nil
}

func (r *HistoryRepository) List(_ context.Context, f repository.HistoryFilter) ([]entity.HistoryRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.HistoryRecord{}
	// newest first
	for i := len(r.s.history) - 1; i >= 0; i-- {
		h := r.s.history[i]
		if h.EntityType != f.EntityType || h.OwnerID != f.OwnerID {
			continue
		}
		if f.EntityID != 0 && h.EntityID != f.EntityID {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

func nameDesc(a string, aID int64, b string, bID int64) bool {
	if a != b {
		return a > b
	}
	return aID > bID
}

func sortedUnique(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func cloneRecipe(r entity.Recipe) entity.Recipe {
	r.TagIDs = slices.Clone(r.TagIDs)
	r.IngredientIDs = slices.Clone(r.IngredientIDs)
	return r
}

var (
	_ repository.UserRepository       = (*UserRepository)(nil)
	_ repository.TagRepository        = (*TagRepository)(nil)
	_ repository.IngredientRepository = (*IngredientRepository)(nil)
	_ repository.RecipeRepository     = (*RecipeRepository)(nil)
	_ repository.HistoryRepository    = (*HistoryRepository)(nil)
	_ repository.Transactor           = (*Store)(nil)
)
