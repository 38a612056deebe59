package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"blogreader/app/actions"
	"blogreader/app/controllers"
	"blogreader/app/dispatch"
	"blogreader/app/middleware"
	"blogreader/app/models"
	"blogreader/app/repositories"
	"blogreader/app/rest"
	"blogreader/app/services"
	"blogreader/app/themes"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const remotePost = `{
	"ID": 20,
	"site_ID": 10,
	"title": "Remote",
	"content": "<p>Hello <img src=\"https://example.com/first.jpg\"></p>",
	"URL": "https://example.wordpress.com/2015/06/01/remote/",
	"date": "2015-06-01T10:00:00+00:00",
	"like_count": 2,
	"comment_count": 1,
	"discussion": {"comments_open": true},
	"meta": {"data": {
		"site": {"name": "Example", "URL": "https://example.wordpress.com"},
		"likes": {"found": 2, "likes": [{"ID": 1, "login": "one"}, {"ID": 2, "login": "two"}]}
	}}
}`

type testEnv struct {
	router    *mux.Router
	repo      *repositories.Repository
	likeCalls *atomic.Int32
	pixels    *atomic.Int32
	service   *services.ReaderService
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{likeCalls: &atomic.Int32{}, pixels: &atomic.Int32{}}

	wp := mux.NewRouter()
	wp.HandleFunc("/rest/v1.2/read/sites/10/posts/20/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(remotePost))
	}).Methods("GET")
	wp.HandleFunc("/rest/v1.2/read/sites/{blog}/posts/{post}/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"unknown_post","message":"Unknown post"}`))
	}).Methods("GET")
	wp.HandleFunc("/rest/v1.1/sites/{blog}/posts/{post}/likes/{action:.+}", func(w http.ResponseWriter, r *http.Request) {
		env.likeCalls.Add(1)
		w.Write([]byte(`{"success":true}`))
	}).Methods("POST")
	wp.HandleFunc("/g.gif", func(w http.ResponseWriter, r *http.Request) {
		env.pixels.Add(1)
	})
	server := httptest.NewServer(wp)
	t.Cleanup(server.Close)

	repo, err := repositories.NewRepository(t.TempDir(), 42)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	env.repo = repo

	loop := dispatch.NewLoop()
	t.Cleanup(loop.Close)

	a := actions.New(actions.Deps{
		Posts:      repo.Posts,
		Likes:      repo.Likes,
		Users:      repo.Users,
		Admins:     repo.Admins,
		ReadClient: rest.NewClient(server.Client(), server.URL+"/rest", rest.VersionV1_2),
		LikeClient: rest.NewClient(server.Client(), server.URL+"/rest", rest.VersionV1_1),
		Pixel:      server.Client(),
		Loop:       loop,
	}, actions.WithPixelURL(server.URL+"/g.gif"))
	t.Cleanup(a.Wait)

	env.service = services.NewReaderService(a, repo.Posts, repo.Likes, repo.Users, repo.Admins)
	browser := themes.NewBrowser(repo.Themes, themes.NewBinder(400))
	env.router = SetupRoutes(controllers.NewReaderController(env.service, browser))
	return env
}

func (env *testEnv) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestPostRoutes(t *testing.T) {
	env := setupTestRouter(t)

	t.Run("GET unknown post returns 404", func(t *testing.T) {
		w := env.do(t, "GET", "/api/posts/10/20")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("POST fetch stores the post", func(t *testing.T) {
		w := env.do(t, "POST", "/api/posts/10/20/fetch")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var post models.Post
		decode(t, w, &post)
		assert.Equal(t, "Remote", post.Title)
		assert.Equal(t, "https://example.com/first.jpg", post.FeaturedImage)
	})

	t.Run("GET returns cached post", func(t *testing.T) {
		w := env.do(t, "GET", "/api/posts/10/20")
		require.Equal(t, http.StatusOK, w.Code)

		var post models.Post
		decode(t, w, &post)
		assert.Equal(t, int64(10), post.BlogID)
		assert.Equal(t, 2, post.NumLikes)
	})

	t.Run("GET likes lists liking users", func(t *testing.T) {
		w := env.do(t, "GET", "/api/posts/10/20/likes")
		require.Equal(t, http.StatusOK, w.Code)

		var res struct {
			Found int           `json:"found"`
			Likes []models.User `json:"likes"`
		}
		decode(t, w, &res)
		assert.Equal(t, 2, res.Found)
		assert.Equal(t, "one", res.Likes[0].UserName)
	})

	t.Run("POST refresh reports unchanged", func(t *testing.T) {
		w := env.do(t, "POST", "/api/posts/10/20/refresh")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"result":"UNCHANGED"}`, w.Body.String())
	})

	t.Run("POST like then DELETE like", func(t *testing.T) {
		w := env.do(t, "POST", "/api/posts/10/20/like")
		require.Equal(t, http.StatusOK, w.Code)

		var res struct {
			Post    models.Post `json:"post"`
			Changed bool        `json:"changed"`
		}
		decode(t, w, &res)
		assert.True(t, res.Changed)
		assert.Equal(t, 3, res.Post.NumLikes)
		assert.True(t, res.Post.IsLikedByCurrentUser)

		w = env.do(t, "POST", "/api/posts/10/20/like")
		decode(t, w, &res)
		assert.False(t, res.Changed)

		w = env.do(t, "DELETE", "/api/posts/10/20/like")
		decode(t, w, &res)
		assert.True(t, res.Changed)
		assert.Equal(t, 2, res.Post.NumLikes)

		env.service.Wait()
		assert.Equal(t, int32(2), env.likeCalls.Load())
	})

	t.Run("POST refresh after local like reports changed", func(t *testing.T) {
		w := env.do(t, "POST", "/api/posts/10/20/like")
		require.Equal(t, http.StatusOK, w.Code)
		env.service.Wait()

		w = env.do(t, "POST", "/api/posts/10/20/refresh")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"result":"CHANGED"}`, w.Body.String())
	})

	t.Run("POST view sends the pixel", func(t *testing.T) {
		w := env.do(t, "POST", "/api/posts/10/20/view")
		assert.Equal(t, http.StatusAccepted, w.Code)
		env.service.Wait()
		assert.Equal(t, int32(1), env.pixels.Load())
	})

	t.Run("admin views are skipped", func(t *testing.T) {
		w := env.do(t, "POST", "/api/admins/10")
		require.Equal(t, http.StatusNoContent, w.Code)

		env.do(t, "POST", "/api/posts/10/20/view")
		env.service.Wait()
		assert.Equal(t, int32(1), env.pixels.Load())

		w = env.do(t, "DELETE", "/api/admins/10")
		require.Equal(t, http.StatusNoContent, w.Code)
		isAdmin, err := env.repo.Admins.IsCurrentUserAdminOfBlog(10)
		require.NoError(t, err)
		assert.False(t, isAdmin)
	})

	t.Run("GET index lists posts", func(t *testing.T) {
		w := env.do(t, "GET", "/api/posts?page=1&per_page=5")
		require.Equal(t, http.StatusOK, w.Code)

		var res struct {
			Page  int           `json:"page"`
			Posts []models.Post `json:"posts"`
		}
		decode(t, w, &res)
		assert.Equal(t, 1, res.Page)
		require.Len(t, res.Posts, 1)
	})
}

func TestPostRouteFailures(t *testing.T) {
	env := setupTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"fetch unknown remote post", "POST", "/api/posts/10/99/fetch", http.StatusBadGateway},
		{"refresh uncached post", "POST", "/api/posts/10/99/refresh", http.StatusNotFound},
		{"like uncached post", "POST", "/api/posts/10/99/like", http.StatusNotFound},
		{"view uncached post", "POST", "/api/posts/10/99/view", http.StatusNotFound},
		{"zero blog id", "GET", "/api/posts/0/20", http.StatusBadRequest},
		{"non numeric id", "GET", "/api/posts/abc/20", http.StatusNotFound},
		{"wrong method on like", "PUT", "/api/posts/10/20/like", http.StatusMethodNotAllowed},
		{"wrong method on refresh", "GET", "/api/posts/10/20/refresh", http.StatusMethodNotAllowed},
		{"wrong method on post", "DELETE", "/api/posts/10/20", http.StatusMethodNotAllowed},
		{"wrong method on admins", "GET", "/api/admins/10", http.StatusMethodNotAllowed},
		{"wrong method on themes", "POST", "/api/themes", http.StatusMethodNotAllowed},
		{"unknown route", "GET", "/api/posts/10/20/comments", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, tt.method, tt.path)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestRefreshReportsFailure(t *testing.T) {
	env := setupTestRouter(t)
	require.NoError(t, env.repo.Posts.AddOrUpdate(&models.Post{BlogID: 10, PostID: 99, Title: "Gone upstream"}))

	w := env.do(t, "POST", "/api/posts/10/99/refresh")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"result":"FAILED"}`, w.Body.String())
}

func TestThemeRoutes(t *testing.T) {
	env := setupTestRouter(t)
	require.NoError(t, env.repo.Themes.AddOrUpdate(&models.Theme{
		ID: "twentyfifteen", Name: "Twenty Fifteen", Price: "Free", Screenshot: "https://example.com/tf.png",
	}))

	w := env.do(t, "GET", "/api/themes")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"themes":[{"name":"Twenty Fifteen","price":"Free","image_url":"https://example.com/tf.png?w=400"}]}`,
		strings.TrimSpace(w.Body.String()))
}

func TestRecovererRoute(t *testing.T) {
	router := SetupRoutes(controllers.NewReaderController(nil, nil))

	req := httptest.NewRequest("GET", "/api/themes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestNewServer(t *testing.T) {
	srv := NewServer(":0", http.NotFoundHandler())
	assert.Equal(t, ":0", srv.Addr)
	assert.NotZero(t, srv.ReadHeaderTimeout)
}
