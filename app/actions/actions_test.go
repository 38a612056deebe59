package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"blogreader/app/dispatch"
	"blogreader/app/models"
	"blogreader/app/repositories/mock"
	"blogreader/app/rest"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

const (
	testBlogID = int64(10)
	testPostID = int64(20)
)

// fakeAPI stands in for the WordPress.com REST API and tracking pixel.
type fakeAPI struct {
	mu         sync.Mutex
	postStatus int
	postBody   []byte
	likeStatus int
	likeGate   chan struct{}
	likeCalls  []string
	pixelHits  []*http.Request

	server *httptest.Server
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	api := &fakeAPI{postStatus: http.StatusOK, likeStatus: http.StatusOK}

	router := mux.NewRouter()
	router.HandleFunc("/rest/v1.2/read/sites/{blog}/posts/{post}/", func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		status, body := api.postStatus, api.postBody
		api.mu.Unlock()
		w.WriteHeader(status)
		w.Write(body)
	}).Methods("GET")
	likes := func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.likeCalls = append(api.likeCalls, r.URL.Path)
		gate := api.likeGate
		api.mu.Unlock()
		if gate != nil {
			<-gate
		}
		api.mu.Lock()
		status := api.likeStatus
		api.mu.Unlock()
		w.WriteHeader(status)
		w.Write([]byte(`{"success":true}`))
	}
	router.HandleFunc("/rest/v1.1/sites/{blog}/posts/{post}/likes/new", likes).Methods("POST")
	router.HandleFunc("/rest/v1.1/sites/{blog}/posts/{post}/likes/mine/delete", likes).Methods("POST")
	router.HandleFunc("/g.gif", func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.pixelHits = append(api.pixelHits, r.Clone(context.Background()))
		api.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	api.server = httptest.NewServer(router)
	t.Cleanup(api.server.Close)
	return api
}

func (f *fakeAPI) setPost(status int, body []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.postStatus, f.postBody = status, body
}

func (f *fakeAPI) setLike(status int, gate chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.likeStatus, f.likeGate = status, gate
}

func (f *fakeAPI) likeRequests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.likeCalls...)
}

func (f *fakeAPI) pixels() []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*http.Request{}, f.pixelHits...)
}

type likeOutcome struct {
	post *models.Post
	like bool
	err  error
}

type harness struct {
	api     *fakeAPI
	store   *mock.Store
	actions *Actions
	likes   chan likeOutcome
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	api := newFakeAPI(t)
	store := mock.NewStore(42)
	loop := dispatch.NewLoop()
	t.Cleanup(loop.Close)

	h := &harness{api: api, store: store, likes: make(chan likeOutcome, 8)}
	h.actions = New(Deps{
		Posts:      store.Posts(),
		Likes:      store.Likes(),
		Users:      store,
		Admins:     store,
		ReadClient: rest.NewClient(api.server.Client(), api.server.URL+"/rest", rest.VersionV1_2),
		LikeClient: rest.NewClient(api.server.Client(), api.server.URL+"/rest", rest.VersionV1_1),
		Pixel:      api.server.Client(),
		Loop:       loop,
	},
		WithPixelURL(api.server.URL+"/g.gif"),
		WithRandom(func() int32 { return 7 }),
		WithLikeResultHook(func(post *models.Post, like bool, err error) {
			h.likes <- likeOutcome{post, like, err}
		}),
	)
	t.Cleanup(h.actions.Wait)
	return h
}

func (h *harness) awaitLike(t *testing.T) likeOutcome {
	t.Helper()
	select {
	case o := <-h.likes:
		return o
	case <-time.After(5 * time.Second):
		t.Fatal("like request did not complete")
		return likeOutcome{}
	}
}

func (h *harness) update(t *testing.T, original *models.Post) models.UpdateResult {
	t.Helper()
	ch := make(chan models.UpdateResult, 1)
	h.actions.UpdatePost(context.Background(), original, func(r models.UpdateResult) { ch <- r })
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("update did not complete")
		return models.Failed
	}
}

func (h *harness) request(t *testing.T, blogID, postID int64) bool {
	t.Helper()
	ch := make(chan bool, 1)
	h.actions.RequestPost(context.Background(), blogID, postID, func(ok bool) { ch <- ok })
	select {
	case ok := <-ch:
		return ok
	case <-time.After(5 * time.Second):
		t.Fatal("request did not complete")
		return false
	}
}

// payloadJSON renders a read API response. Likes meta is included only when
// likers is non-nil.
func payloadJSON(t *testing.T, title string, likeCount int, likers []int64) []byte {
	t.Helper()
	var likes interface{}
	if likers != nil {
		entries := make([]map[string]interface{}, 0, len(likers))
		for _, id := range likers {
			entries = append(entries, map[string]interface{}{
				"ID":         id,
				"login":      fmt.Sprintf("user%d", id),
				"name":       fmt.Sprintf("User %d", id),
				"avatar_URL": fmt.Sprintf("https://gravatar.com/%d", id),
			})
		}
		likes = map[string]interface{}{"found": len(likers), "likes": entries}
	}
	body, err := json.Marshal(map[string]interface{}{
		"ID":            testPostID,
		"site_ID":       testBlogID,
		"title":         title,
		"content":       "<p>body</p>",
		"URL":           "https://example.wordpress.com/2015/06/01/post/",
		"date":          "2015-06-01T10:00:00+00:00",
		"like_count":    likeCount,
		"comment_count": 0,
		"discussion":    map[string]bool{"comments_open": true},
		"meta": map[string]interface{}{
			"data": map[string]interface{}{
				"site":  map[string]string{"URL": "https://example.wordpress.com", "name": "Example"},
				"likes": likes,
			},
		},
	})
	require.NoError(t, err)
	return body
}

// cachedPost matches payloadJSON for IsSamePost but carries local-only
// featured media and ordering fields.
func cachedPost(title string, likeCount int) *models.Post {
	return &models.Post{
		BlogID:         testBlogID,
		PostID:         testPostID,
		Title:          title,
		Content:        "<p>body</p>",
		NumLikes:       likeCount,
		IsCommentsOpen: true,
		BlogURL:        "https://example.wordpress.com",
		Timestamp:      1000,
		Published:      "2010-01-01T00:00:00Z",
		FeaturedImage:  "https://example.com/local.jpg",
	}
}
