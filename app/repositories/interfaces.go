package repositories

import "blogreader/app/models"

// PostStore defines the interface for cached post access
type PostStore interface {
	Get(blogID, postID int64) (*models.Post, error)
	AddOrUpdate(post *models.Post) error
	List(limit, offset int) ([]*models.Post, error)
	Delete(blogID, postID int64) error

	// SetLikesForPost rewrites only the like count and liked flag.
	SetLikesForPost(blogID, postID int64, numLikes int, isLiked bool) error
	IsPostLikedByCurrentUser(blogID, postID int64) (bool, error)
	GetNumLikesForPost(blogID, postID int64) (int, error)
}

// LikeStore defines the interface for per-post liking user lists
type LikeStore interface {
	GetLikesForPost(blogID, postID int64) (models.UserIDList, error)
	SetLikesForPost(blogID, postID int64, ids models.UserIDList) error
	SetCurrentUserLikesPost(blogID, postID int64, isLiked bool) error
}

// UserStore defines the interface for user records
type UserStore interface {
	AddOrUpdateUsers(users models.UserList) error
	GetUser(userID int64) (*models.User, error)
	GetUsers(ids models.UserIDList) (models.UserList, error)
}

// AdminStore tracks the blogs the current user administers
type AdminStore interface {
	IsCurrentUserAdminOfBlog(blogID int64) (bool, error)
	SetCurrentUserAdminOfBlog(blogID int64, isAdmin bool) error
}

// ThemeStore defines the interface for theme browser rows
type ThemeStore interface {
	AddOrUpdate(theme *models.Theme) error
	List() ([]*models.Theme, error)
}
