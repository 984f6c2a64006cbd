package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/recipe-api/config"
	"github.com/oksasatya/recipe-api/internal/container"
	"github.com/oksasatya/recipe-api/internal/infrastructure/memory"
	"github.com/oksasatya/recipe-api/internal/infrastructure/objectstore"
	"github.com/oksasatya/recipe-api/internal/router"
	"github.com/oksasatya/recipe-api/pkg/helpers"
	"github.com/oksasatya/recipe-api/pkg/validation"
)

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type api struct {
	t *testing.T
	e *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	st := memory.NewStore()
	container.SetConfig(&config.Config{
		AppName:        "recipe-api",
		CookieDomain:   "localhost",
		MaxUploadBytes: 1 << 20,
		SessionTTL:     time.Hour,
	})
	container.SetLogger(helpers.NewNopLogger())
	container.SetPGPool(nil)
	container.SetRedis(nil)
	container.SetRabbitPub(nil)
	container.SetJWT(helpers.NewJWTManager("access", "refresh", time.Hour, 24*time.Hour))
	container.SetRepositories(container.MemoryRepositories(st))
	container.SetSessions(memory.NewSessionStore())
	container.SetImageStore(objectstore.NewLocalStore(t.TempDir(), "/media"))
	container.SetRecipeIndexer(nil)

	e := gin.New()
	reg := router.NewRegistry(e)
	router.InitModules(reg)
	reg.RegisterAll()
	return &api{t: t, e: e}
}

func (a *api) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	return a.send(req, token)
}

func (a *api) send(req *http.Request, token string) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.e.ServeHTTP(w, req)
	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

// login registers email and returns an access token.
func (a *api) login(email string) string {
	a.t.Helper()
	w, _ := a.do(http.MethodPost, "/api/users", "", map[string]string{"email": email, "password": "testpass123", "name": "Test"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	w, env := a.do(http.MethodPost, "/api/users/token", "", map[string]string{"email": email, "password": "testpass123"})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var tok struct {
		Token string `json:"token"`
	}
	decode(a.t, env.Data, &tok)
	return tok.Token
}

func (a *api) create(path, token string, body any) int64 {
	a.t.Helper()
	w, env := a.do(http.MethodPost, path, token, body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var out struct {
		ID int64 `json:"id"`
	}
	decode(a.t, env.Data, &out)
	return out.ID
}

func decode(t *testing.T, raw json.RawMessage, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v), string(raw))
}

func fieldErrors(t *testing.T, env envelope) map[string]string {
	t.Helper()
	out := map[string]string{}
	decode(t, env.Error, &out)
	return out
}

type recipeJSON struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	TimeMinutes int     `json:"time_minutes"`
	Price       string  `json:"price"`
	Link        string  `json:"link"`
	Tags        []int64 `json:"tags"`
	Ingredients []int64 `json:"ingredients"`
}

func recipe(title string, extra map[string]any) map[string]any {
	body := map[string]any{"title": title, "time_minutes": 5, "price": "5.00"}
	for k, v := range extra {
		body[k] = v
	}
	return body
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	a := newAPI(t)
	for _, rt := range []struct{ method, path string }{
		{http.MethodGet, "/api/tags"},
		{http.MethodPost, "/api/tags"},
		{http.MethodGet, "/api/ingredients"},
		{http.MethodPost, "/api/ingredients"},
		{http.MethodGet, "/api/ingredients/history/1"},
		{http.MethodGet, "/api/recipes"},
		{http.MethodPost, "/api/recipes"},
		{http.MethodGet, "/api/recipes/1"},
		{http.MethodPatch, "/api/recipes/1"},
		{http.MethodPost, "/api/recipes/1/upload-image"},
		{http.MethodGet, "/api/recipes/history"},
		{http.MethodGet, "/api/recipes/search?q=x"},
		{http.MethodGet, "/api/users/me"},
		{http.MethodPost, "/api/users/logout"},
	} {
		w, env := a.do(rt.method, rt.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, rt.path)
		assert.False(t, env.Success, rt.path)
	}

	w, _ := a.do(http.MethodGet, "/api/tags", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterAndToken(t *testing.T) {
	a := newAPI(t)

	w, env := a.do(http.MethodPost, "/api/users", "", map[string]string{"email": "Test@Example.COM", "password": "testpass123", "name": "Test"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, string(env.Data), "password")
	var u struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	decode(t, env.Data, &u)
	assert.Equal(t, "test@example.com", u.Email)

	w, env = a.do(http.MethodPost, "/api/users", "", map[string]string{"email": "test@example.com", "password": "testpass123", "name": "Again"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fieldErrors(t, env), "email")

	w, env = a.do(http.MethodPost, "/api/users", "", map[string]string{"email": "short@example.com", "password": "pw", "name": "Short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fieldErrors(t, env), "password")

	w, _ = a.do(http.MethodPost, "/api/users/token", "", map[string]string{"email": "test@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = a.do(http.MethodPost, "/api/users/token", "", map[string]string{"email": "test@example.com", "password": "testpass123"})
	require.Equal(t, http.StatusOK, w.Code)
	var tok struct {
		Token string `json:"token"`
	}
	decode(t, env.Data, &tok)
	assert.NotEmpty(t, tok.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Token "+tok.Token)
	w, env = a.send(req, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &u)
	assert.Equal(t, "Test", u.Name)
}

func TestProfileUpdate(t *testing.T) {
	a := newAPI(t)
	tok := a.login("me@example.com")

	w, env := a.do(http.MethodPatch, "/api/users/me", tok, map[string]string{"name": "Renamed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), `"name":"Renamed"`)

	w, env = a.do(http.MethodPut, "/api/users/me", tok, map[string]string{"name": "Only name"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fieldErrors(t, env), "password")

	w, _ = a.do(http.MethodPut, "/api/users/me", tok, map[string]string{"name": "All", "email": "me@example.com", "password": "newpassword"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = a.do(http.MethodPost, "/api/users/token", "", map[string]string{"email": "me@example.com", "password": "newpassword"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRefreshRotatesSessionAndLogoutRevokes(t *testing.T) {
	a := newAPI(t)
	a.login("r@example.com")
	w, env := a.do(http.MethodPost, "/api/users/token", "", map[string]string{"email": "r@example.com", "password": "testpass123"})
	require.Equal(t, http.StatusOK, w.Code)
	var pair struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refresh_token"`
	}
	decode(t, env.Data, &pair)

	w, env = a.do(http.MethodPost, "/api/users/token/refresh", "", map[string]string{"refresh_token": pair.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var rotated struct {
		Token string `json:"token"`
	}
	decode(t, env.Data, &rotated)

	w, _ = a.do(http.MethodGet, "/api/users/me", pair.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "old session is gone")
	w, _ = a.do(http.MethodGet, "/api/users/me", rotated.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = a.do(http.MethodPost, "/api/users/token/refresh", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = a.do(http.MethodPost, "/api/users/logout", rotated.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = a.do(http.MethodGet, "/api/users/me", rotated.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTags(t *testing.T) {
	a := newAPI(t)
	tok := a.login("a@example.com")
	other := a.login("b@example.com")

	w, env := a.do(http.MethodPost, "/api/tags", tok, map[string]string{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fieldErrors(t, env), "name")

	w, _ = a.do(http.MethodPost, "/api/tags", tok, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	vegan := a.create("/api/tags", tok, map[string]string{"name": "Vegan"})
	dessert := a.create("/api/tags", tok, map[string]string{"name": "Dessert"})
	a.create("/api/tags", other, map[string]string{"name": "Theirs"})

	_, env = a.do(http.MethodGet, "/api/tags", tok, nil)
	var tags []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	decode(t, env.Data, &tags)
	require.Len(t, tags, 2)
	assert.Equal(t, "Vegan", tags[0].Name)
	assert.Equal(t, "Dessert", tags[1].Name)

	a.create("/api/recipes", tok, recipe("One", map[string]any{"tags": []int64{vegan}}))
	a.create("/api/recipes", tok, recipe("Two", map[string]any{"tags": []int64{vegan}}))

	_, env = a.do(http.MethodGet, "/api/tags?assigned_only=1", tok, nil)
	decode(t, env.Data, &tags)
	require.Len(t, tags, 1, "assigned tags are listed once")
	assert.Equal(t, vegan, tags[0].ID)

	_, env = a.do(http.MethodGet, "/api/tags?assigned_only=0", tok, nil)
	decode(t, env.Data, &tags)
	assert.Len(t, tags, 2)
	assert.NotZero(t, dessert)

	w, env = a.do(http.MethodGet, "/api/tags?assigned_only=yes", tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fieldErrors(t, env), "assigned_only")
}

func TestIngredientsAndHistory(t *testing.T) {
	a := newAPI(t)
	tok := a.login("a@example.com")
	other := a.login("b@example.com")

	salt := a.create("/api/ingredients", tok, map[string]string{"name": "Salt"})
	a.create("/api/ingredients", other, map[string]string{"name": "Pepper"})

	_, env := a.do(http.MethodGet, "/api/ingredients", tok, nil)
	assert.JSONEq(t, fmt.Sprintf(`[{"id":%d,"name":"Salt"}]`, salt), string(env.Data))

	w, env := a.do(http.MethodGet, fmt.Sprintf("/api/ingredients/history/%d", salt), tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var hist []struct {
		HistoryType string          `json:"history_type"`
		ID          int64           `json:"id"`
		Snapshot    json.RawMessage `json:"snapshot"`
	}
	decode(t, env.Data, &hist)
	require.Len(t, hist, 1)
	assert.Equal(t, "+", hist[0].HistoryType)
	assert.Contains(t, string(hist[0].Snapshot), `"name":"Salt"`)

	w, _ = a.do(http.MethodGet, fmt.Sprintf("/api/ingredients/history/%d", salt), other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipeListFilters(t *testing.T) {
	a := newAPI(t)
	tok := a.login("a@example.com")
	t1 := a.create("/api/tags", tok, map[string]string{"name": "Vegan"})
	t2 := a.create("/api/tags", tok, map[string]string{"name": "Vegetarian"})
	i1 := a.create("/api/ingredients", tok, map[string]string{"name": "Feta"})

	r1 := a.create("/api/recipes", tok, recipe("Thai curry", map[string]any{"tags": []int64{t1}}))
	r2 := a.create("/api/recipes", tok, recipe("Aubergine", map[string]any{"tags": []int64{t2}, "ingredients": []int64{i1}}))
	r3 := a.create("/api/recipes", tok, recipe("Fish", nil))

	list := func(query string) []int64 {
		w, env := a.do(http.MethodGet, "/api/recipes"+query, tok, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var rs []recipeJSON
		decode(t, env.Data, &rs)
		out := []int64{}
		for _, r := range rs {
			out = append(out, r.ID)
		}
		return out
	}

	assert.Equal(t, []int64{r3, r2, r1}, list(""))
	assert.Equal(t, []int64{r2, r1}, list(fmt.Sprintf("?tags=%d,%%20%d", t1, t2)))
	assert.Equal(t, []int64{r2}, list(fmt.Sprintf("?tags=%d,%d&ingredients=%d", t1, t2, i1)))
	assert.Equal(t, []int64{r3, r2, r1}, list("?tags="))

	w, env := a.do(http.MethodGet, "/api/recipes?tags=1,abc", tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fieldErrors(t, env), "tags")
}

func TestRecipeCreateRetrieveUpdate(t *testing.T) {
	a := newAPI(t)
	tok := a.login("a@example.com")
	other := a.login("b@example.com")
	vegan := a.create("/api/tags", tok, map[string]string{"name": "Vegan"})
	foreign := a.create("/api/tags", other, map[string]string{"name": "Foreign"})

	w, env := a.do(http.MethodPost, "/api/recipes", tok, recipe("Curry", map[string]any{"price": 5.25, "tags": []int64{vegan}, "link": "https://example.com"}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created recipeJSON
	decode(t, env.Data, &created)
	assert.Equal(t, "5.25", created.Price)
	assert.Equal(t, []int64{vegan}, created.Tags)
	assert.Equal(t, []int64{}, created.Ingredients)

	path := fmt.Sprintf("/api/recipes/%d", created.ID)
	w, env = a.do(http.MethodGet, path, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"id":%d,"title":"Curry","time_minutes":5,"price":"5.25","link":"https://example.com","image":"","tags":[{"id":%d,"name":"Vegan"}],"ingredients":[]}`, created.ID, vegan), string(env.Data))

	w, _ = a.do(http.MethodGet, path, other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = a.do(http.MethodGet, "/api/recipes/abc", tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = a.do(http.MethodPatch, path, tok, map[string]any{"title": "Red curry"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var patched recipeJSON
	decode(t, env.Data, &patched)
	assert.Equal(t, "Red curry", patched.Title)
	assert.Equal(t, []int64{vegan}, patched.Tags)
	assert.Equal(t, "https://example.com", patched.Link)

	w, env = a.do(http.MethodPut, path, tok, map[string]any{"title": "Stew", "time_minutes": 30, "price": "12.50"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var replaced recipeJSON
	decode(t, env.Data, &replaced)
	assert.Equal(t, "Stew", replaced.Title)
	assert.Equal(t, 30, replaced.TimeMinutes)
	assert.Empty(t, replaced.Tags)
	assert.Empty(t, replaced.Link)

	w, _ = a.do(http.MethodPut, path, other, map[string]any{"title": "Mine", "time_minutes": 1, "price": "1.00"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = a.do(http.MethodPatch, path, tok, map[string]any{"tags": []int64{foreign}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fieldErrors(t, env), "tags")

	for _, bad := range []any{"abc", 1000, "1.234", -1, "184467440737095517"} {
		w, env = a.do(http.MethodPost, "/api/recipes", tok, recipe("Bad", map[string]any{"price": bad}))
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
		assert.Contains(t, fieldErrors(t, env), "price", bad)
	}

	w, env = a.do(http.MethodPatch, path, tok, map[string]any{"price": "184467440737095517"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fieldErrors(t, env), "price")

	w, env = a.do(http.MethodPost, "/api/recipes", tok, map[string]any{"title": "No time", "price": "1.00"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fieldErrors(t, env), "time_minutes")
}

func TestRecipeVisibleOnlyToOwner(t *testing.T) {
	a := newAPI(t)
	tok := a.login("a@x.com")
	other := a.login("b@x.com")

	a.create("/api/recipes", tok, map[string]any{"title": "Halwa", "time_minutes": 5, "price": 5.00})

	_, env := a.do(http.MethodGet, "/api/recipes", tok, nil)
	var rs []recipeJSON
	decode(t, env.Data, &rs)
	require.Len(t, rs, 1)
	assert.Equal(t, "Halwa", rs[0].Title)
	assert.Equal(t, "5.00", rs[0].Price)

	_, env = a.do(http.MethodGet, "/api/recipes", other, nil)
	decode(t, env.Data, &rs)
	assert.Empty(t, rs)
}

func TestRecipeHistoryIsScoped(t *testing.T) {
	a := newAPI(t)
	tok := a.login("a@example.com")
	other := a.login("b@example.com")
	id := a.create("/api/recipes", tok, recipe("Soup", nil))
	w, _ := a.do(http.MethodPatch, fmt.Sprintf("/api/recipes/%d", id), tok, map[string]any{"time_minutes": 10})
	require.Equal(t, http.StatusOK, w.Code)

	type hist struct {
		HistoryType string `json:"history_type"`
		HistoryUser string `json:"history_user"`
		ID          int64  `json:"id"`
	}
	w, env := a.do(http.MethodGet, fmt.Sprintf("/api/recipes/history/%d", id), tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var hs []hist
	decode(t, env.Data, &hs)
	require.Len(t, hs, 2)
	assert.Equal(t, "~", hs[0].HistoryType)
	assert.Equal(t, "+", hs[1].HistoryType)
	assert.NotEmpty(t, hs[0].HistoryUser)

	w, _ = a.do(http.MethodGet, fmt.Sprintf("/api/recipes/history/%d", id), other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, env = a.do(http.MethodGet, "/api/recipes/history", other, nil)
	decode(t, env.Data, &hs)
	assert.Empty(t, hs)

	_, env = a.do(http.MethodGet, "/api/recipes/history", tok, nil)
	decode(t, env.Data, &hs)
	assert.Len(t, hs, 2)
}

func upload(t *testing.T, a *api, path, token, field, filename string, content []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("other", "x"))
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return a.send(req, token)
}

func TestUploadImage(t *testing.T) {
	a := newAPI(t)
	tok := a.login("a@example.com")
	other := a.login("b@example.com")
	id := a.create("/api/recipes", tok, recipe("Pie", nil))
	path := fmt.Sprintf("/api/recipes/%d/upload-image", id)

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 10, 10))))

	w, env := upload(t, a, path, tok, "image", "photo.png", img.Bytes())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		ID    int64  `json:"id"`
		Image string `json:"image"`
	}
	decode(t, env.Data, &out)
	assert.Equal(t, id, out.ID)
	assert.True(t, strings.HasPrefix(out.Image, "/media/uploads/recipe/"), out.Image)
	assert.True(t, strings.HasSuffix(out.Image, ".png"), out.Image)

	_, env = a.do(http.MethodGet, fmt.Sprintf("/api/recipes/%d", id), tok, nil)
	assert.Contains(t, string(env.Data), out.Image)

	w, env = upload(t, a, path, tok, "image", "notes.txt", []byte("notimage"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fieldErrors(t, env), "image")

	w, env = upload(t, a, path, tok, "", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fieldErrors(t, env), "image")

	w, _ = upload(t, a, path, other, "image", "photo.png", img.Bytes())
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = upload(t, a, path, other, "", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "ownership is checked before the form")
	w, _ = upload(t, a, "/api/recipes/999999/upload-image", tok, "", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, env = a.do(http.MethodGet, fmt.Sprintf("/api/recipes/%d", id), tok, nil)
	assert.Contains(t, string(env.Data), out.Image, "failed uploads leave the image alone")
}

func TestSearchFallsBackToTitle(t *testing.T) {
	a := newAPI(t)
	tok := a.login("a@example.com")
	a.create("/api/recipes", tok, recipe("Carrot Halwa", nil))
	a.create("/api/recipes", tok, recipe("Soup", nil))

	w, env := a.do(http.MethodGet, "/api/recipes/search?q=halwa", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rs []recipeJSON
	decode(t, env.Data, &rs)
	require.Len(t, rs, 1)
	assert.Equal(t, "Carrot Halwa", rs[0].Title)

	w, env = a.do(http.MethodGet, "/api/recipes/search", tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fieldErrors(t, env), "q")
}

func TestHealthz(t *testing.T) {
	a := newAPI(t)
	w, env := a.do(http.MethodGet, "/api/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	w, _ = a.do(http.MethodGet, "/api/debug/vars", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "debug metrics are off")
}
