package router

import (
	"ClipHub/internal/handler"
	"ClipHub/internal/middleware"
	"ClipHub/internal/service"
	"ClipHub/internal/testutil"
	"ClipHub/pkg/youtube"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubProvider 只认识一个视频a1，搜索永远命中它
type stubProvider struct{}

func (stubProvider) Search(context.Context, youtube.SearchParams) ([]youtube.SearchResult, error) {
	var r youtube.SearchResult
	r.ID.VideoID = "a1"
	return []youtube.SearchResult{r}, nil
}

func (stubProvider) Videos(_ context.Context, ids []string, _ ...string) ([]youtube.VideoItem, error) {
	items := []youtube.VideoItem{}
	for _, id := range ids {
		if id == "a1" {
			item := youtube.VideoItem{ID: "a1"}
			item.Snippet.Title = "The Heist"
			item.ContentDetails.Duration = "PT2M5S"
			item.Statistics.ViewCount = "2000000"
			items = append(items, item)
		}
	}
	return items, nil
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	st := testutil.NewSQLiteStore(t)
	tokens := service.NewTokenManager("e2e-secret", time.Hour)
	authService := service.NewAuthService(st, tokens)

	engine := SetupRouter(Handlers{
		User:        handler.NewUserHandler(authService),
		Video:       handler.NewVideoHandler(service.NewCatalogService(stubProvider{}, nil, nil), service.NewVideoService(st.Videos(), st.Playlists())),
		Playlist:    handler.NewPlaylistHandler(service.NewPlaylistService(st.Playlists(), st.Videos())),
		Sessions:    authService,
		AuthLimiter: middleware.NewRateLimiter(1000, 1000),
	})
	return &testServer{t: t, engine: engine}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *testServer) register(name string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": name, "email": name + "@example.com", "password": "pa55word",
	})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[map[string]any](s.t, w)
	return resp["token"].(string)
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestPlaylistScenario(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/playlists", "", map[string]string{"name": "Action"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	alice := s.register("alice")
	w = s.do(http.MethodPost, "/api/playlists", alice, map[string]string{"name": "Action"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[map[string]any](t, w)
	assert.Equal(t, "Action", created["name"])
	assert.Equal(t, []any{}, created["videos"])
	playlistID := created["id"].(string)

	w = s.do(http.MethodGet, "/api/playlists", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]map[string]any](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, playlistID, list[0]["id"])

	bob := s.register("bob")
	w = s.do(http.MethodGet, "/api/playlists/"+playlistID, bob, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Not authorized", decode[map[string]string](t, w)["message"])

	w = s.do(http.MethodGet, "/api/playlists/999999", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.register("alice")

	w := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice2", "email": "alice@example.com", "password": "x",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User already exists", decode[map[string]string](t, w)["message"])

	w = s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"username": "x", "email": "nope", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid credentials", decode[map[string]string](t, w)["message"])

	w = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "pa55word"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[map[string]any](t, w)
	token := login["token"].(string)
	user := login["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "password")

	w = s.do(http.MethodGet, "/api/auth/user", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode[map[string]any](t, w)
	assert.Equal(t, "alice@example.com", profile["email"])
	assert.Contains(t, profile, "createdAt")

	w = s.do(http.MethodDelete, "/api/auth/user", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/api/auth/user", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVideoEndpoints(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")

	w := s.do(http.MethodGet, "/api/videos/search", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Search query is required", decode[map[string]string](t, w)["message"])

	w = s.do(http.MethodGet, "/api/videos/search?q=heist", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	results := decode[[]map[string]any](t, w)
	require.Len(t, results, 1)
	assert.Equal(t, "2:05", results[0]["duration"])
	assert.Equal(t, "2M", results[0]["viewCount"])
	assert.NotContains(t, results[0], "id")

	w = s.do(http.MethodGet, "/api/videos/a1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/api/videos/zzz", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/videos/related/a1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	w = s.do(http.MethodGet, "/api/videos/saved", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	save := map[string]string{"videoId": "a1", "title": "The Heist", "duration": "2:05"}
	w = s.do(http.MethodPost, "/api/videos/save", alice, save)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	saved := decode[map[string]any](t, w)
	assert.NotEmpty(t, saved["id"])
	assert.NotEmpty(t, saved["user"])

	w = s.do(http.MethodPost, "/api/videos/save", alice, save)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Video already saved", decode[map[string]string](t, w)["message"])

	w = s.do(http.MethodGet, "/api/videos/saved", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	// 歌单里加入收藏的视频，取消收藏后歌单里也没有了
	w = s.do(http.MethodPost, "/api/playlists", alice, map[string]string{"name": "Heists"})
	require.Equal(t, http.StatusCreated, w.Code)
	playlistID := decode[map[string]any](t, w)["id"].(string)

	w = s.do(http.MethodPost, "/api/playlists/"+playlistID+"/videos", alice, map[string]string{"videoId": "a1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode[map[string]any](t, w)["videos"], 1)

	w = s.do(http.MethodPost, "/api/playlists/"+playlistID+"/videos", alice, map[string]string{"videoId": "a1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Video already in playlist", decode[map[string]string](t, w)["message"])

	w = s.do(http.MethodDelete, "/api/videos/saved/a1", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodDelete, "/api/videos/saved/a1", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/playlists/"+playlistID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, decode[map[string]any](t, w)["videos"])
}

func TestPlaylistUpdateAndDelete(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")

	w := s.do(http.MethodPost, "/api/playlists", alice, map[string]string{"name": "  "})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Playlist name is required", decode[map[string]string](t, w)["message"])

	w = s.do(http.MethodPost, "/api/playlists", alice, map[string]string{"name": "Old", "description": "d"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[map[string]any](t, w)["id"].(string)

	w = s.do(http.MethodPut, "/api/playlists/"+id, alice, map[string]string{"name": "New"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[map[string]any](t, w)
	assert.Equal(t, "New", updated["name"])
	assert.Equal(t, "d", updated["description"])

	w = s.do(http.MethodDelete, "/api/playlists/"+id+"/videos/never-saved", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/api/playlists/"+id, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/api/playlists/"+id, alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
