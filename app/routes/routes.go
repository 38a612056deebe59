package routes

import (
	"net/http"
	"time"

	"blogreader/app/controllers"
	"blogreader/app/middleware"

	"github.com/gorilla/mux"
)

const post = "/{blogId:[0-9]+}/{postId:[0-9]+}"

// SetupRoutes defines the reader API routes and returns a router.
func SetupRoutes(rc *controllers.ReaderController) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.ContentTypeJSON)

	// Routes are registered on the root router with full paths: a method
	// mismatch inside a PathPrefix subrouter is reported as 404, not 405.

	// Posts API endpoints
	router.HandleFunc("/api/posts", rc.Index).Methods("GET")
	router.HandleFunc("/api/posts"+post, rc.Show).Methods("GET")
	router.HandleFunc("/api/posts"+post+"/refresh", rc.Refresh).Methods("POST")
	router.HandleFunc("/api/posts"+post+"/fetch", rc.Fetch).Methods("POST")
	router.HandleFunc("/api/posts"+post+"/like", rc.Like).Methods("POST", "DELETE")
	router.HandleFunc("/api/posts"+post+"/view", rc.View).Methods("POST")
	router.HandleFunc("/api/posts"+post+"/likes", rc.Likes).Methods("GET")

	router.HandleFunc("/api/admins/{blogId:[0-9]+}", rc.Admin).Methods("POST", "DELETE")
	router.HandleFunc("/api/themes", rc.Themes).Methods("GET")

	return router
}

// NewServer wraps router in an http.Server listening on addr.
func NewServer(addr string, router http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
