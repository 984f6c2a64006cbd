// Package search indexes recipes in Elasticsearch for owner-scoped full text search.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipe-api/internal/domain/entity"
)

const (
	requestTimeout = 3 * time.Second
	maxResults     = 100
)

var indexMapping = `{
  "mappings": {
    "properties": {
      "id":             {"type": "long"},
      "user_id":        {"type": "keyword"},
      "title":          {"type": "text"},
      "link":           {"type": "keyword", "index": false},
      "tag_ids":        {"type": "long"},
      "ingredient_ids": {"type": "long"},
      "updated_at":     {"type": "date"}
    }
  }
}`

type RecipeIndex struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewRecipeIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *RecipeIndex {
	return &RecipeIndex{ES: es, Index: index, Logger: logger}
}

type recipeDoc struct {
	ID            int64     `json:"id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	Link          string    `json:"link,omitempty"`
	TagIDs        []int64   `json:"tag_ids"`
	IngredientIDs []int64   `json:"ingredient_ids"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (x *RecipeIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := esapi.IndicesExistsRequest{Index: []string{x.Index}}.Do(c, x.ES)
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	res, err = esapi.IndicesCreateRequest{Index: x.Index, Body: strings.NewReader(indexMapping)}.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	// another instance may have created it concurrently
	if res.IsError() && res.StatusCode != 400 {
		return fmt.Errorf("search: create index: %s", res.Status())
	}
	return nil
}

// IndexRecipe upserts the searchable fields of r.
func (x *RecipeIndex) IndexRecipe(ctx context.Context, r entity.Recipe) error {
	b, err := json.Marshal(recipeDoc{
		ID:            r.ID,
		UserID:        r.UserID,
		Title:         r.Title,
		Link:          r.Link,
		TagIDs:        r.TagIDs,
		IngredientIDs: r.IngredientIDs,
		UpdatedAt:     r.UpdatedAt,
	})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      x.Index,
		DocumentID: strconv.FormatInt(r.ID, 10),
		Body:       bytes.NewReader(b),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		if x.Logger != nil {
			x.Logger.WithError(err).WithField("recipe_id", r.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		if x.Logger != nil {
			x.Logger.WithField("status", res.Status()).WithField("recipe_id", r.ID).Warn("es index response error")
		}
		return fmt.Errorf("search: index recipe %d: %s", r.ID, res.Status())
	}
	return nil
}

// SearchRecipes returns ids of ownerID's recipes matching q, best match first.
func (x *RecipeIndex) SearchRecipes(ctx context.Context, ownerID, q string) ([]int64, error) {
	query := map[string]any{
		"_source": []string{"id"},
		"size":    maxResults,
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"match": map[string]any{
						"title": map[string]any{"query": q, "fuzziness": "AUTO"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": ownerID},
				},
			},
		},
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search: query: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source recipeDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.Source.ID)
	}
	return ids, nil
}
