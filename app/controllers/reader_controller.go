package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"blogreader/app/models"
	"blogreader/app/repositories"
	"blogreader/app/services"
	"blogreader/app/themes"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// ReaderController handles HTTP requests for cached reader posts
type ReaderController struct {
	service *services.ReaderService
	themes  *themes.Browser
}

// NewReaderController creates a new ReaderController
func NewReaderController(service *services.ReaderService, browser *themes.Browser) *ReaderController {
	return &ReaderController{service: service, themes: browser}
}

// Index lists cached posts, newest first
func (rc *ReaderController) Index(w http.ResponseWriter, r *http.Request) {
	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	perPage := 10
	if perPageStr := r.URL.Query().Get("per_page"); perPageStr != "" {
		if pp, err := strconv.Atoi(perPageStr); err == nil && pp > 0 {
			perPage = pp
		}
	}

	posts, err := rc.service.ListPosts(page, perPage)
	if err != nil {
		rc.sendError(w, r, "Failed to fetch posts: "+err.Error(), http.StatusInternalServerError)
		return
	}
	rc.sendJSON(w, http.StatusOK, map[string]interface{}{
		"posts": posts,
		"page":  page,
	})
}

// Show returns a single cached post
func (rc *ReaderController) Show(w http.ResponseWriter, r *http.Request) {
	blogID, postID, ok := rc.postIDs(w, r)
	if !ok {
		return
	}

	post, err := rc.service.GetPost(blogID, postID)
	if err != nil {
		rc.sendStoreError(w, r, err)
		return
	}
	rc.sendJSON(w, http.StatusOK, post)
}

// Refresh updates a cached post from the server
func (rc *ReaderController) Refresh(w http.ResponseWriter, r *http.Request) {
	blogID, postID, ok := rc.postIDs(w, r)
	if !ok {
		return
	}

	result, err := rc.service.Refresh(r.Context(), blogID, postID)
	if err != nil {
		rc.sendStoreError(w, r, err)
		return
	}

	status := http.StatusOK
	if result == models.Failed {
		status = http.StatusBadGateway
	}
	rc.sendJSON(w, status, map[string]interface{}{"result": result})
}

// Fetch requests a post that is not cached yet
func (rc *ReaderController) Fetch(w http.ResponseWriter, r *http.Request) {
	blogID, postID, ok := rc.postIDs(w, r)
	if !ok {
		return
	}

	post, err := rc.service.Fetch(r.Context(), blogID, postID)
	if err != nil {
		if errors.Is(err, services.ErrRequestFailed) {
			rc.sendError(w, r, "Failed to fetch post", http.StatusBadGateway)
			return
		}
		rc.sendStoreError(w, r, err)
		return
	}
	rc.sendJSON(w, http.StatusOK, post)
}

// Like toggles the current user's like: POST likes, DELETE unlikes
func (rc *ReaderController) Like(w http.ResponseWriter, r *http.Request) {
	blogID, postID, ok := rc.postIDs(w, r)
	if !ok {
		return
	}

	var like bool
	switch r.Method {
	case http.MethodPost:
		like = true
	case http.MethodDelete:
		like = false
	default:
		rc.sendError(w, r, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	post, changed, err := rc.service.SetLiked(r.Context(), blogID, postID, like)
	if err != nil {
		rc.sendStoreError(w, r, err)
		return
	}
	rc.sendJSON(w, http.StatusOK, map[string]interface{}{
		"post":    post,
		"changed": changed,
	})
}

// View reports a page view of a cached post
func (rc *ReaderController) View(w http.ResponseWriter, r *http.Request) {
	blogID, postID, ok := rc.postIDs(w, r)
	if !ok {
		return
	}

	if err := rc.service.View(r.Context(), blogID, postID); err != nil {
		rc.sendStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// Likes lists the users who like a post
func (rc *ReaderController) Likes(w http.ResponseWriter, r *http.Request) {
	blogID, postID, ok := rc.postIDs(w, r)
	if !ok {
		return
	}

	users, err := rc.service.Likers(blogID, postID)
	if err != nil {
		rc.sendError(w, r, "Failed to fetch likes: "+err.Error(), http.StatusInternalServerError)
		return
	}
	rc.sendJSON(w, http.StatusOK, map[string]interface{}{
		"found": len(users),
		"likes": users,
	})
}

// Admin records whether the current user administers a blog: POST sets, DELETE clears
func (rc *ReaderController) Admin(w http.ResponseWriter, r *http.Request) {
	blogID, err := strconv.ParseInt(mux.Vars(r)["blogId"], 10, 64)
	if err != nil {
		rc.sendError(w, r, "Invalid blog ID", http.StatusBadRequest)
		return
	}

	if err := rc.service.SetAdmin(blogID, r.Method == http.MethodPost); err != nil {
		rc.sendError(w, r, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Themes lists stored themes bound to grid rows
func (rc *ReaderController) Themes(w http.ResponseWriter, r *http.Request) {
	rows, err := rc.themes.Rows()
	if err != nil {
		rc.sendError(w, r, "Failed to fetch themes: "+err.Error(), http.StatusInternalServerError)
		return
	}
	rc.sendJSON(w, http.StatusOK, map[string]interface{}{"themes": rows})
}

func (rc *ReaderController) postIDs(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	vars := mux.Vars(r)
	blogID, err := strconv.ParseInt(vars["blogId"], 10, 64)
	if err != nil || blogID <= 0 {
		rc.sendError(w, r, "Invalid blog ID", http.StatusBadRequest)
		return 0, 0, false
	}
	postID, err := strconv.ParseInt(vars["postId"], 10, 64)
	if err != nil || postID <= 0 {
		rc.sendError(w, r, "Invalid post ID", http.StatusBadRequest)
		return 0, 0, false
	}
	return blogID, postID, true
}

// Helper methods for consistent response handling

func (rc *ReaderController) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (rc *ReaderController) sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Int("status", status).Msg(message)
	}
	rc.sendJSON(w, status, map[string]string{"error": message})
}

func (rc *ReaderController) sendStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repositories.ErrNotFound) {
		rc.sendError(w, r, "Post not found", http.StatusNotFound)
		return
	}
	if ctxErr := r.Context().Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		rc.sendError(w, r, "Request canceled", http.StatusServiceUnavailable)
		return
	}
	rc.sendError(w, r, err.Error(), http.StatusInternalServerError)
}
