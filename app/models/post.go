package models

import (
	"errors"
	"fmt"
)

// ErrParse reports a missing or malformed post payload.
var ErrParse = errors.New("malformed post payload")

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if p == nil {
		return errors.New("post cannot be nil")
	}
	if err := validate.Struct(p); err != nil {
		return err
	}
	return nil
}

// HasFeaturedImage reports whether a featured image is set
func (p *Post) HasFeaturedImage() bool {
	return p.FeaturedImage != ""
}

// HasFeaturedVideo reports whether a featured video is set
func (p *Post) HasFeaturedVideo() bool {
	return p.FeaturedVideo != ""
}

// IsSamePost compares the fields a refresh can change. Featured media and the
// ordering fields are ignored.
func (p *Post) IsSamePost(other *Post) bool {
	if p == nil || other == nil {
		return false
	}
	return p.BlogID == other.BlogID &&
		p.PostID == other.PostID &&
		p.NumLikes == other.NumLikes &&
		p.NumReplies == other.NumReplies &&
		p.IsFollowedByCurrentUser == other.IsFollowedByCurrentUser &&
		p.IsLikedByCurrentUser == other.IsLikedByCurrentUser &&
		p.IsCommentsOpen == other.IsCommentsOpen &&
		p.Title == other.Title &&
		p.Content == other.Content
}

// ReconcileWith copies onto p the fields of original that a refresh must not
// replace. Featured media is kept only when original already has it, since
// it may have been derived locally. Timestamp and Published are always kept
// so the post does not move in sorted lists.
func (p *Post) ReconcileWith(original *Post) {
	if original == nil {
		return
	}
	if original.HasFeaturedImage() {
		p.FeaturedImage = original.FeaturedImage
	}
	if original.HasFeaturedVideo() {
		p.FeaturedVideo = original.FeaturedVideo
		p.IsVideoPress = original.IsVideoPress
	}
	p.Timestamp = original.Timestamp
	p.Published = original.Published
}

// Clone returns a copy of the post.
func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func (p *Post) String() string {
	return fmt.Sprintf("post %d/%d", p.BlogID, p.PostID)
}
