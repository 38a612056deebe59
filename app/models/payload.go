package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var imgSrcRegex = regexp.MustCompile(`(?i)<img[^>]+src\s*=\s*["']([^"']+)["']`)

// wire shape of read/sites/{blog}/posts/{post}/?meta=site,likes
type postWire struct {
	ID           int64  `json:"ID"`
	SiteID       int64  `json:"site_ID"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	Excerpt      string `json:"excerpt"`
	URL          string `json:"URL"`
	Date         string `json:"date"`
	LikeCount    int    `json:"like_count"`
	ILike        bool   `json:"i_like"`
	CommentCount int    `json:"comment_count"`
	IsFollowing  bool   `json:"is_following"`
	SiteName     string `json:"site_name"`
	SitePrivate  bool   `json:"site_is_private"`
	Author       struct {
		Name string `json:"name"`
	} `json:"author"`
	Discussion struct {
		CommentsOpen bool `json:"comments_open"`
	} `json:"discussion"`
	FeaturedImage string `json:"featured_image"`
	FeaturedMedia struct {
		URI  string `json:"uri"`
		Type string `json:"type"`
	} `json:"featured_media"`
	Meta struct {
		Data struct {
			Site *struct {
				Name        string `json:"name"`
				URL         string `json:"URL"`
				IsPrivate   bool   `json:"is_private"`
				IsFollowing bool   `json:"is_following"`
			} `json:"site"`
			Likes json.RawMessage `json:"likes"`
		} `json:"data"`
	} `json:"meta"`
}

type likesWire struct {
	Found int `json:"found"`
	Likes []struct {
		ID        int64  `json:"ID"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_URL"`
		URL       string `json:"URL"`
	} `json:"likes"`
}

// PostPayload is a decoded post response.
type PostPayload struct {
	post     *Post
	likes    UserList
	hasLikes bool
}

// ParsePostPayload decodes a post response. Empty, undecodable or invalid
// payloads yield an error wrapping ErrParse.
func ParsePostPayload(data []byte) (*PostPayload, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, fmt.Errorf("%w: empty body", ErrParse)
	}

	var w postWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	post := w.toPost()
	if err := post.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	payload := &PostPayload{post: post}
	likes := bytes.TrimSpace(w.Meta.Data.Likes)
	if len(likes) > 0 && !bytes.Equal(likes, []byte("null")) {
		users, err := UserListFromLikes(likes)
		if err != nil {
			return nil, err
		}
		payload.likes = users
		payload.hasLikes = true
	}
	return payload, nil
}

// Post returns the parsed post. Each call returns a fresh copy.
func (p *PostPayload) Post() *Post {
	return p.post.Clone()
}

// LikingUsers returns the users from meta.data.likes, and false when the
// payload carried no likes section.
func (p *PostPayload) LikingUsers() (UserList, bool) {
	return p.likes, p.hasLikes
}

// UserListFromLikes decodes a likes object ({"found":n,"likes":[...]}).
func UserListFromLikes(data []byte) (UserList, error) {
	var w likesWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: likes: %v", ErrParse, err)
	}
	users := make(UserList, 0, len(w.Likes))
	for _, l := range w.Likes {
		if l.ID <= 0 {
			continue
		}
		users = append(users, &User{
			UserID:      l.ID,
			UserName:    l.Login,
			DisplayName: l.Name,
			AvatarURL:   l.AvatarURL,
			URL:         l.URL,
		})
	}
	return users, nil
}

func (w *postWire) toPost() *Post {
	p := &Post{
		BlogID:                  w.SiteID,
		PostID:                  w.ID,
		Title:                   strings.TrimSpace(w.Title),
		Content:                 w.Content,
		Excerpt:                 w.Excerpt,
		AuthorName:              w.Author.Name,
		URL:                     w.URL,
		BlogName:                w.SiteName,
		NumLikes:                w.LikeCount,
		NumReplies:              w.CommentCount,
		IsLikedByCurrentUser:    w.ILike,
		IsFollowedByCurrentUser: w.IsFollowing,
		IsCommentsOpen:          w.Discussion.CommentsOpen,
		IsPrivate:               w.SitePrivate,
		Published:               w.Date,
		FeaturedImage:           w.FeaturedImage,
	}

	if site := w.Meta.Data.Site; site != nil {
		if site.Name != "" {
			p.BlogName = site.Name
		}
		p.BlogURL = site.URL
		p.IsPrivate = p.IsPrivate || site.IsPrivate
		p.IsFollowedByCurrentUser = p.IsFollowedByCurrentUser || site.IsFollowing
	}
	if p.BlogURL == "" {
		p.BlogURL = siteRoot(w.URL)
	}

	if t, err := time.Parse(time.RFC3339, w.Date); err == nil {
		p.Timestamp = t.Unix()
	}

	switch w.FeaturedMedia.Type {
	case "video":
		p.FeaturedVideo = w.FeaturedMedia.URI
		p.IsVideoPress = strings.Contains(w.FeaturedMedia.URI, "videopress")
	case "image":
		if p.FeaturedImage == "" {
			p.FeaturedImage = w.FeaturedMedia.URI
		}
	}
	if p.FeaturedImage == "" {
		p.FeaturedImage = findFeaturedImage(w.Content)
	}
	return p
}

// findFeaturedImage falls back to the first image in the content.
func findFeaturedImage(content string) string {
	m := imgSrcRegex.FindStringSubmatch(content)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

func siteRoot(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
