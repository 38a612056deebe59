package models

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Post is a reader post cached locally, identified by (BlogID, PostID).
type Post struct {
	BlogID     int64  `json:"blog_id" validate:"required,gt=0"`
	PostID     int64  `json:"post_id" validate:"required,gt=0"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Excerpt    string `json:"excerpt"`
	AuthorName string `json:"author_name"`
	URL        string `json:"url" validate:"omitempty,url"`
	BlogName   string `json:"blog_name"`
	BlogURL    string `json:"blog_url" validate:"omitempty,url"`

	NumLikes                int  `json:"num_likes" validate:"gte=0"`
	NumReplies              int  `json:"num_replies" validate:"gte=0"`
	IsLikedByCurrentUser    bool `json:"is_liked"`
	IsFollowedByCurrentUser bool `json:"is_followed"`
	IsCommentsOpen          bool `json:"is_comments_open"`
	IsPrivate               bool `json:"is_private"`

	// Timestamp and Published control list ordering.
	Timestamp int64  `json:"timestamp"`
	Published string `json:"published"`

	FeaturedImage string `json:"featured_image"`
	FeaturedVideo string `json:"featured_video"`
	IsVideoPress  bool   `json:"is_videopress"`
}

// User is a WordPress.com user as returned in a post's likes.
type User struct {
	UserID      int64  `json:"user_id" validate:"required,gt=0"`
	UserName    string `json:"user_name"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	URL         string `json:"url"`
}

// Theme is a row of the theme browser grid.
type Theme struct {
	ID         string `json:"id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Price      string `json:"price"`
	Screenshot string `json:"screenshot" validate:"omitempty,url"`
}
