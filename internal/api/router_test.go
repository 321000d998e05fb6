package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/microblog/internal/api/handler"
	"github.com/d60-Lab/microblog/internal/auth"
	"github.com/d60-Lab/microblog/internal/cache"
	"github.com/d60-Lab/microblog/internal/repository"
	"github.com/d60-Lab/microblog/internal/service"
	"github.com/d60-Lab/microblog/pkg/database"
	"github.com/d60-Lab/microblog/pkg/session"
)

const cookieName = "microblog_session"

type fakeProvider struct{ subjects map[string]string }

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) AuthCodeURL(state string) string { return "https://idp.test/auth?state=" + state }

func (p *fakeProvider) Subject(_ context.Context, code string) (string, error) {
	if s, ok := p.subjects[code]; ok {
		return s, nil
	}
	return "", errors.New("bad code")
}

type testServer struct {
	router   *gin.Engine
	repos    *repository.Repositories
	sessions *session.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open("sqlite", ":memory:", 1, 1, gormlogger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repos := repository.NewRepositories(db)
	sessions := session.NewStore(rdb, "test-secret", time.Hour)
	users := cache.NewUserCache(rdb, time.Minute)
	janitor := service.NewAccountJanitor(sessions, users, 16)
	stop := janitor.Start(1)
	t.Cleanup(func() { _ = stop(context.Background()) })

	h := handler.NewHandler(handler.Deps{
		Identity:   service.NewIdentityService(db, repos, users),
		Posts:      service.NewPostService(db, repos),
		Engagement: service.NewEngagementService(db, repos),
		Feed:       service.NewFeedService(db, repos, service.DefaultPageSize),
		Accounts:   service.NewAccountService(db, repos, janitor),
		Sessions:   sessions,
		Provider:   &fakeProvider{subjects: map[string]string{"code-bob": "sub-bob"}},
		Hasher:     auth.NewIdentityHasher("hash-key"),
		Cookie:     handler.CookieOptions{Name: cookieName},
		Health: []handler.HealthCheck{
			{Name: "redis", Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		},
	})
	return &testServer{router: NewRouter(h, Options{}), repos: repos, sessions: sessions}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

func (s *testServer) login(t *testing.T, username string) (uint, string) {
	t.Helper()
	u, err := s.repos.Users.Create(context.Background(), username, "hash-"+username)
	require.NoError(t, err)
	token, err := s.sessions.Create(context.Background(), u.ID)
	require.NoError(t, err)
	return u.ID, token
}

func TestHealthAndAnonymousFeed(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", body["status"])

	code, body = s.do(t, http.MethodGet, "/api/v1/feed?sort=likes&page=1", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, body["totalPages"])
	assert.Equal(t, "likes", body["sort"])
	assert.Empty(t, body["posts"])

	code, _ = s.do(t, http.MethodGet, "/api/v1/feed?page=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestMutationsRequireSession(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(t, http.MethodPost, "/api/v1/posts/1/like", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "error", body["status"])

	code, _ = s.do(t, http.MethodPost, "/api/v1/posts/1/like", "forged.token.value", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestLoginAndRegister(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/google", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "https://idp.test/auth")

	callback := func(code string) (int, map[string]any) {
		req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=st&code="+code, nil)
		req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "st"})
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		out := map[string]any{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		return w.Code, out
	}

	code, body := callback("wrong")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body = callback("code-bob")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["registered"])
	ticket := body["ticket"].(string)

	code, _ = s.do(t, http.MethodPost, "/auth/register", "", gin.H{"ticket": ticket, "username": "bad name"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = s.do(t, http.MethodPost, "/auth/register", "", gin.H{"ticket": ticket, "username": "Bob"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["registered"])
	token := body["token"].(string)

	code, _ = s.do(t, http.MethodPost, "/auth/register", "", gin.H{"ticket": ticket, "username": "Bob2"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = callback("code-bob")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["registered"])

	code, body = s.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Bob", body["user"].(map[string]any)["username"])

	code, _ = s.do(t, http.MethodPost, "/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestPostLikeReactFlow(t *testing.T) {
	s := newTestServer(t)
	_, alice := s.login(t, "alice")
	_, bob := s.login(t, "Bob")

	code, body := s.do(t, http.MethodPost, "/api/v1/posts", alice, gin.H{"title": "hi", "content": "first post"})
	require.Equal(t, http.StatusOK, code)
	postID := uint(body["post"].(map[string]any)["id"].(float64))
	path := "/api/v1/posts/" + itoa(postID)

	code, body = s.do(t, http.MethodPost, path+"/like", bob, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "liked", body["action"])
	assert.EqualValues(t, 1, body["likeCounter"])

	code, body = s.do(t, http.MethodGet, "/api/v1/feed", bob, nil)
	require.Equal(t, http.StatusOK, code)
	posts := body["posts"].([]any)
	require.Len(t, posts, 1)
	assert.Equal(t, true, posts[0].(map[string]any)["likedByViewer"])

	code, body = s.do(t, http.MethodPost, path+"/like", bob, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "unliked", body["action"])
	assert.EqualValues(t, 0, body["likeCounter"])

	for _, tok := range []string{alice, bob} {
		code, body = s.do(t, http.MethodPost, path+"/react", tok, gin.H{"emoji": "🔥"})
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "added", body["action"])
	}
	reactions := body["reactions"].([]any)
	require.Len(t, reactions, 1)
	assert.Equal(t, "🔥", reactions[0].(map[string]any)["emoji"])
	assert.EqualValues(t, 2, reactions[0].(map[string]any)["count"])

	code, _ = s.do(t, http.MethodPost, "/api/v1/posts/999/like", bob, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = s.do(t, http.MethodPost, "/api/v1/posts/abc/like", bob, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodDelete, path, bob, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(t, http.MethodDelete, path, alice, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, http.MethodGet, path+"/reactions", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRenameAndDeleteAccount(t *testing.T) {
	s := newTestServer(t)
	_, bob := s.login(t, "Bob")
	s.login(t, "carol")

	code, body := s.do(t, http.MethodPut, "/api/v1/profile/username", bob, gin.H{"username": "bob"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "error", body["status"])

	code, _ = s.do(t, http.MethodPut, "/api/v1/profile/username", bob, gin.H{"username": "Carol"})
	assert.Equal(t, http.StatusConflict, code)

	code, body = s.do(t, http.MethodPut, "/api/v1/profile/username", bob, gin.H{"username": "robert"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "robert", body["user"].(map[string]any)["username"])

	code, body = s.do(t, http.MethodDelete, "/api/v1/account", bob, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["deleted"])

	code, _ = s.do(t, http.MethodGet, "/api/v1/profile", bob, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }
