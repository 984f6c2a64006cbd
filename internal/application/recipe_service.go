package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipe-api/internal/domain/entity"
	"github.com/oksasatya/recipe-api/internal/domain/repository"
)

const invalidImageMsg = "upload a valid image; the file was either not an image or a corrupted image"

// DefaultMaxImagePixels bounds decoded images when no cap is configured.
const DefaultMaxImagePixels = 89_478_485

// RecipeInput is a complete set of writable recipe fields (create and PUT).
type RecipeInput struct {
	Title         string
	TimeMinutes   int
	Price         entity.Money
	Link          string
	TagIDs        []int64
	IngredientIDs []int64
}

// RecipePatch carries only the fields a PATCH supplied.
type RecipePatch struct {
	Title         *string
	TimeMinutes   *int
	Price         *entity.Money
	Link          *string
	TagIDs        *[]int64
	IngredientIDs *[]int64
}

type RecipeService struct {
	Recipes     repository.RecipeRepository
	Tags        repository.TagRepository
	Ingredients repository.IngredientRepository
	History     repository.HistoryRepository
	Tx          repository.Transactor
	Images      ImageStore
	Search      RecipeIndexer
	Logger      *logrus.Logger

	MaxUploadBytes int64
	MaxImagePixels int64
}

func NewRecipeService(
	recipes repository.RecipeRepository,
	tags repository.TagRepository,
	ingredients repository.IngredientRepository,
	history repository.HistoryRepository,
	tx repository.Transactor,
	images ImageStore,
	search RecipeIndexer,
	logger *logrus.Logger,
	maxUploadBytes int64,
	maxImagePixels int64,
) *RecipeService {
	if maxImagePixels <= 0 {
		maxImagePixels = DefaultMaxImagePixels
	}
	return &RecipeService{
		Recipes:        recipes,
		Tags:           tags,
		Ingredients:    ingredients,
		History:        history,
		Tx:             tx,
		Images:         images,
		Search:         search,
		Logger:         logger,
		MaxUploadBytes: maxUploadBytes,
		MaxImagePixels: maxImagePixels,
	}
}

// List returns the owner's recipes matching f, newest first. f.OwnerID is forced to ownerID.
func (s *RecipeService) List(ctx context.Context, ownerID string, f repository.RecipeFilter) ([]entity.Recipe, error) {
	f.OwnerID = ownerID
	return s.Recipes.List(ctx, f)
}

// Get returns the recipe with its tags and ingredients resolved.
func (s *RecipeService) Get(ctx context.Context, ownerID string, id int64) (*entity.RecipeDetail, error) {
	r, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	tags, err := s.Tags.GetByIDs(ctx, ownerID, r.TagIDs)
	if err != nil {
		return nil, err
	}
	ingredients, err := s.Ingredients.GetByIDs(ctx, ownerID, r.IngredientIDs)
	if err != nil {
		return nil, err
	}
	return &entity.RecipeDetail{Recipe: *r, Tags: tags, Ingredients: ingredients}, nil
}

func (s *RecipeService) Create(ctx context.Context, ownerID string, in RecipeInput) (*entity.Recipe, error) {
	in.TagIDs, in.IngredientIDs = uniqueIDs(in.TagIDs), uniqueIDs(in.IngredientIDs)
	if err := s.checkRefs(ctx, ownerID, in.TagIDs, in.IngredientIDs); err != nil {
		return nil, err
	}
	r := &entity.Recipe{
		UserID:        ownerID,
		Title:         strings.TrimSpace(in.Title),
		TimeMinutes:   in.TimeMinutes,
		Price:         in.Price,
		Link:          in.Link,
		TagIDs:        in.TagIDs,
		IngredientIDs: in.IngredientIDs,
	}
	if r.Title == "" {
		return nil, invalid("title", "is required")
	}
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Recipes.Create(ctx, r); err != nil {
			return err
		}
		return appendRecipeHistory(ctx, s.History, r, entity.ChangeCreated, ownerID)
	})
	if err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	s.index(ctx, r)
	return r, nil
}

// Replace overwrites every writable field; associations not given are cleared.
func (s *RecipeService) Replace(ctx context.Context, ownerID string, id int64, in RecipeInput) (*entity.Recipe, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title", "is required")
	}
	tags, ingredients := nonNil(uniqueIDs(in.TagIDs)), nonNil(uniqueIDs(in.IngredientIDs))
	return s.update(ctx, ownerID, id, tags, ingredients, func(r *entity.Recipe) {
		r.Title = title
		r.TimeMinutes = in.TimeMinutes
		r.Price = in.Price
		r.Link = in.Link
		r.TagIDs = tags
		r.IngredientIDs = ingredients
	})
}

// Patch applies only the supplied fields.
func (s *RecipeService) Patch(ctx context.Context, ownerID string, id int64, p RecipePatch) (*entity.Recipe, error) {
	var tags, ingredients []int64
	if p.TagIDs != nil {
		tags = nonNil(uniqueIDs(*p.TagIDs))
	}
	if p.IngredientIDs != nil {
		ingredients = nonNil(uniqueIDs(*p.IngredientIDs))
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return nil, invalid("title", "may not be blank")
	}
	return s.update(ctx, ownerID, id, tags, ingredients, func(r *entity.Recipe) {
		if p.Title != nil {
			r.Title = strings.TrimSpace(*p.Title)
		}
		if p.TimeMinutes != nil {
			r.TimeMinutes = *p.TimeMinutes
		}
		if p.Price != nil {
			r.Price = *p.Price
		}
		if p.Link != nil {
			r.Link = *p.Link
		}
		if p.TagIDs != nil {
			r.TagIDs = tags
		}
		if p.IngredientIDs != nil {
			r.IngredientIDs = ingredients
		}
	})
}

// update loads the owned recipe inside a transaction, applies mutate, and
// records a change snapshot.
func (s *RecipeService) update(ctx context.Context, ownerID string, id int64, tagIDs, ingredientIDs []int64, mutate func(*entity.Recipe)) (*entity.Recipe, error) {
	if _, err := s.getOwned(ctx, ownerID, id); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, ownerID, tagIDs, ingredientIDs); err != nil {
		return nil, err
	}
	var r *entity.Recipe
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if r, err = s.getOwned(ctx, ownerID, id); err != nil {
			return err
		}
		mutate(r)
		if err := s.Recipes.Update(ctx, r); err != nil {
			return err
		}
		return appendRecipeHistory(ctx, s.History, r, entity.ChangeUpdated, ownerID)
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update recipe %d: %w", id, err)
	}
	s.index(ctx, r)
	return r, nil
}

// UploadImage validates that src decodes as an image, stores it under a fresh
// key and points the recipe at it. Nothing is mutated when validation fails.
func (s *RecipeService) UploadImage(ctx context.Context, ownerID string, id int64, filename string, src io.Reader) (*entity.Recipe, error) {
	if _, err := s.getOwned(ctx, ownerID, id); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, invalid("image", "no file was submitted")
	}

	buf, err := io.ReadAll(io.LimitReader(src, s.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(buf)) > s.MaxUploadBytes {
		return nil, invalid("image", fmt.Sprintf("file exceeds %d bytes", s.MaxUploadBytes))
	}
	if len(buf) == 0 {
		return nil, invalid("image", "the submitted file is empty")
	}
	if err := s.checkImage(buf); err != nil {
		return nil, err
	}

	key := entity.RecipeImagePath(filename)
	contentType := mimetype.Detect(buf).String()
	if err := s.Images.Put(ctx, key, bytes.NewReader(buf), int64(len(buf)), contentType); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	var r *entity.Recipe
	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if r, err = s.getOwned(ctx, ownerID, id); err != nil {
			return err
		}
		r.Image = key
		if err := s.Recipes.Update(ctx, r); err != nil {
			return err
		}
		return appendRecipeHistory(ctx, s.History, r, entity.ChangeUpdated, ownerID)
	})
	if err != nil {
		if dErr := s.Images.Delete(ctx, key); dErr != nil && s.Logger != nil {
			s.Logger.WithError(dErr).WithField("key", key).Warn("orphaned image not removed")
		}
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("attach image: %w", err)
	}
	s.index(ctx, r)
	return r, nil
}

// checkImage reads the header first so oversized dimensions are rejected
// before any pixel buffer is allocated.
func (s *RecipeService) checkImage(buf []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return invalid("image", invalidImageMsg)
	}
	limit := s.MaxImagePixels
	if limit <= 0 {
		limit = DefaultMaxImagePixels
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > limit {
		return invalid("image", fmt.Sprintf("image dimensions %dx%d exceed %d pixels", cfg.Width, cfg.Height, limit))
	}
	if _, _, err := image.Decode(bytes.NewReader(buf)); err != nil {
		return invalid("image", invalidImageMsg)
	}
	return nil
}

// SearchRecipes finds the owner's recipes by title. Elasticsearch is used when
// configured; otherwise, or when it fails, a case-insensitive substring match.
func (s *RecipeService) SearchRecipes(ctx context.Context, ownerID, q string) ([]entity.Recipe, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, invalid("q", "is required")
	}
	if s.Search != nil {
		ids, err := s.Search.SearchRecipes(ctx, ownerID, q)
		if err == nil {
			return s.byRank(ctx, ownerID, ids)
		}
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("recipe search failed; falling back to title filter")
		}
	}
	return s.Recipes.List(ctx, repository.RecipeFilter{OwnerID: ownerID, Title: q})
}

// byRank loads ids (owner-scoped) and keeps the index's ranking order.
func (s *RecipeService) byRank(ctx context.Context, ownerID string, ids []int64) ([]entity.Recipe, error) {
	if ids == nil {
		ids = []int64{}
	}
	recs, err := s.Recipes.List(ctx, repository.RecipeFilter{OwnerID: ownerID, IDs: ids})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(recs, func(a, b entity.Recipe) int {
		return slices.Index(ids, a.ID) - slices.Index(ids, b.ID)
	})
	return recs, nil
}

// ImageURL renders a stored image key as a URL; empty stays empty.
func (s *RecipeService) ImageURL(key string) string {
	if key == "" || s.Images == nil {
		return ""
	}
	return s.Images.URL(key)
}

// CheckOwned returns ErrNotFound unless ownerID owns recipe id.
func (s *RecipeService) CheckOwned(ctx context.Context, ownerID string, id int64) error {
	_, err := s.getOwned(ctx, ownerID, id)
	return err
}

func (s *RecipeService) getOwned(ctx context.Context, ownerID string, id int64) (*entity.Recipe, error) {
	r, err := s.Recipes.GetOwned(ctx, ownerID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return r, err
}

// checkRefs requires every referenced tag and ingredient to exist and belong to ownerID.
func (s *RecipeService) checkRefs(ctx context.Context, ownerID string, tagIDs, ingredientIDs []int64) error {
	fields := map[string]string{}
	if len(tagIDs) > 0 {
		tags, err := s.Tags.GetByIDs(ctx, ownerID, tagIDs)
		if err != nil {
			return err
		}
		found := make([]int64, 0, len(tags))
		for _, t := range tags {
			found = append(found, t.ID)
		}
		if missing, ok := firstMissing(tagIDs, found); ok {
			fields["tags"] = fmt.Sprintf("invalid id %d: object does not exist", missing)
		}
	}
	if len(ingredientIDs) > 0 {
		ings, err := s.Ingredients.GetByIDs(ctx, ownerID, ingredientIDs)
		if err != nil {
			return err
		}
		found := make([]int64, 0, len(ings))
		for _, in := range ings {
			found = append(found, in.ID)
		}
		if missing, ok := firstMissing(ingredientIDs, found); ok {
			fields["ingredients"] = fmt.Sprintf("invalid id %d: object does not exist", missing)
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func firstMissing(want, found []int64) (int64, bool) {
	for _, id := range want {
		if !slices.Contains(found, id) {
			return id, true
		}
	}
	return 0, false
}

// uniqueIDs sorts and dedupes ids; nil stays nil.
func uniqueIDs(ids []int64) []int64 {
	if ids == nil {
		return nil
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func (s *RecipeService) index(ctx context.Context, r *entity.Recipe) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexRecipe(ctx, *r); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("recipe_id", r.ID).Warn("recipe index failed")
	}
}
