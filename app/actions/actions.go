// Package actions implements the network backed reader post actions: liking,
// fetching, refreshing and page view reporting.
package actions

import (
	"context"
	"math/rand"
	"net/http"
	"sync"

	"blogreader/app/dispatch"
	"blogreader/app/models"
	"blogreader/app/repositories"

	"github.com/rs/zerolog/log"
)

const (
	// TrackingReferrer must be sent as Referer or the pixel request is rejected.
	TrackingReferrer = "https://wordpress.com/"

	// DefaultPixelURL is the WordPress.com stats beacon
	DefaultPixelURL = "https://pixel.wp.com/g.gif"
)

// RestClient is the subset of the REST client the actions use.
type RestClient interface {
	Get(ctx context.Context, path string) ([]byte, error)
	Post(ctx context.Context, path string, body interface{}) ([]byte, error)
}

// HTTPDoer sends plain HTTP requests, as used for the tracking pixel.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// UpdateResultListener receives the outcome of UpdatePost.
type UpdateResultListener func(result models.UpdateResult)

// ActionListener receives the outcome of RequestPost.
type ActionListener func(succeeded bool)

// LikeResultHook observes the server outcome of a like toggle, after any
// rollback has been applied. err is nil on success.
type LikeResultHook func(post *models.Post, isAskingToLike bool, err error)

// Deps are the collaborators of Actions.
type Deps struct {
	Posts  repositories.PostStore
	Likes  repositories.LikeStore
	Users  repositories.UserStore
	Admins repositories.AdminStore

	// ReadClient serves post reads, LikeClient serves like writes. They
	// usually point at different API versions.
	ReadClient RestClient
	LikeClient RestClient

	// Pixel sends tracking requests; nil uses http.DefaultClient.
	Pixel HTTPDoer

	// Loop receives listener callbacks; nil runs them on the worker goroutine.
	Loop *dispatch.Loop
}

// Option configures Actions.
type Option func(*Actions)

// WithPixelURL overrides the tracking pixel endpoint
func WithPixelURL(url string) Option {
	return func(a *Actions) {
		if url != "" {
			a.pixelURL = url
		}
	}
}

// WithRandom overrides the cache busting number source
func WithRandom(fn func() int32) Option {
	return func(a *Actions) {
		if fn != nil {
			a.random = fn
		}
	}
}

// WithLikeResultHook registers a hook run after each like request completes
func WithLikeResultHook(hook LikeResultHook) Option {
	return func(a *Actions) {
		a.likeHook = hook
	}
}

// Actions performs reader post actions against the REST API and local stores.
type Actions struct {
	posts  repositories.PostStore
	likes  repositories.LikeStore
	users  repositories.UserStore
	admins repositories.AdminStore

	readClient RestClient
	likeClient RestClient
	pixel      HTTPDoer
	loop       *dispatch.Loop

	pixelURL string
	random   func() int32
	likeHook LikeResultHook

	wg sync.WaitGroup
}

// randomInt32 spans the full int32 range, negatives included.
func randomInt32() int32 {
	return int32(rand.Uint32())
}

// New creates Actions from deps.
func New(deps Deps, opts ...Option) *Actions {
	a := &Actions{
		posts:      deps.Posts,
		likes:      deps.Likes,
		users:      deps.Users,
		admins:     deps.Admins,
		readClient: deps.ReadClient,
		likeClient: deps.LikeClient,
		pixel:      deps.Pixel,
		loop:       deps.Loop,
		pixelURL:   DefaultPixelURL,
		random:     randomInt32,
	}
	if a.pixel == nil {
		a.pixel = http.DefaultClient
	}
	if a.likeClient == nil {
		a.likeClient = a.readClient
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Wait blocks until every background request started so far has finished
// and handed its callback to the loop.
func (a *Actions) Wait() {
	a.wg.Wait()
}

func (a *Actions) goAsync(fn func()) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		fn()
	}()
}

// deliver hands fn to the coordinating loop, or runs it inline without one.
func (a *Actions) deliver(fn func()) {
	if a.loop == nil {
		fn()
		return
	}
	if !a.loop.Post(fn) {
		log.Debug().Msg("dispatch loop closed, dropping callback")
	}
}
