package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/recipe-api/internal/domain/entity"
)

type recorded struct {
	method string
	path   string
	body   map[string]any
}

func fakeES(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) (*RecipeIndex, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &rec.body)
		}
		calls = append(calls, rec)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handle(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewRecipeIndex(es, "recipes", nil), &calls
}

func TestIndexRecipe(t *testing.T) {
	idx, calls := fakeES(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	err := idx.IndexRecipe(context.Background(), entity.Recipe{ID: 7, UserID: "u1", Title: "Halwa", TagIDs: []int64{1}})
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	c := (*calls)[0]
	assert.Equal(t, http.MethodPut, c.method)
	assert.Equal(t, "/recipes/_doc/7", c.path)
	assert.Equal(t, "Halwa", c.body["title"])
	assert.Equal(t, "u1", c.body["user_id"])
}

func TestSearchRecipesScopesToOwner(t *testing.T) {
	idx, calls := fakeES(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_source":{"id":3}},{"_source":{"id":1}}]}}`))
	})

	ids, err := idx.SearchRecipes(context.Background(), "u1", "halwa")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1}, ids)

	require.Len(t, *calls, 1)
	assert.Equal(t, "/recipes/_search", (*calls)[0].path)
	filter := (*calls)[0].body["query"].(map[string]any)["bool"].(map[string]any)["filter"]
	assert.Equal(t, map[string]any{"term": map[string]any{"user_id": "u1"}}, filter)
}

func TestSearchRecipesErrorStatus(t *testing.T) {
	idx, _ := fakeES(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})
	_, err := idx.SearchRecipes(context.Background(), "u1", "x")
	assert.Error(t, err)
}

func TestEnsureIndexCreatesWhenMissing(t *testing.T) {
	idx, calls := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"acknowledged":true}`))
	})

	require.NoError(t, idx.EnsureIndex(context.Background()))
	require.Len(t, *calls, 2)
	assert.Equal(t, http.MethodPut, (*calls)[1].method)
	assert.Contains(t, (*calls)[1].body, "mappings")
}
