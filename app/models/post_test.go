package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func samplePost() *Post {
	return &Post{
		BlogID:         10,
		PostID:         20,
		Title:          "Valid Title",
		Content:        "<p>Some content</p>",
		NumLikes:       3,
		NumReplies:     1,
		IsCommentsOpen: true,
		Timestamp:      1433152800,
		Published:      "2015-06-01T10:00:00+00:00",
	}
}

func TestPostValidation(t *testing.T) {
	tests := []struct {
		name    string
		post    *Post
		wantErr bool
	}{
		{
			name:    "valid post",
			post:    samplePost(),
			wantErr: false,
		},
		{
			name:    "missing blog id",
			post:    &Post{PostID: 1},
			wantErr: true,
		},
		{
			name:    "missing post id",
			post:    &Post{BlogID: 1},
			wantErr: true,
		},
		{
			name:    "negative likes",
			post:    &Post{BlogID: 1, PostID: 1, NumLikes: -1},
			wantErr: true,
		},
		{
			name:    "bad blog url",
			post:    &Post{BlogID: 1, PostID: 1, BlogURL: "not a url"},
			wantErr: true,
		},
		{
			name:    "nil post",
			post:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.post.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsSamePost(t *testing.T) {
	t.Run("identical", func(t *testing.T) {
		assert.True(t, samplePost().IsSamePost(samplePost()))
	})

	t.Run("presentation fields ignored", func(t *testing.T) {
		other := samplePost()
		other.FeaturedImage = "https://example.com/a.jpg"
		other.FeaturedVideo = "https://videopress.com/v/abc"
		other.Timestamp = 1
		other.Published = "2020-01-01T00:00:00Z"
		assert.True(t, samplePost().IsSamePost(other))
	})

	changes := map[string]func(p *Post){
		"likes":    func(p *Post) { p.NumLikes++ },
		"replies":  func(p *Post) { p.NumReplies++ },
		"liked":    func(p *Post) { p.IsLikedByCurrentUser = true },
		"followed": func(p *Post) { p.IsFollowedByCurrentUser = true },
		"comments": func(p *Post) { p.IsCommentsOpen = false },
		"title":    func(p *Post) { p.Title = "Other" },
		"content":  func(p *Post) { p.Content = "Other" },
		"post id":  func(p *Post) { p.PostID = 99 },
		"blog id":  func(p *Post) { p.BlogID = 99 },
	}
	for name, change := range changes {
		t.Run(name, func(t *testing.T) {
			other := samplePost()
			change(other)
			assert.False(t, samplePost().IsSamePost(other))
		})
	}

	t.Run("nil", func(t *testing.T) {
		assert.False(t, samplePost().IsSamePost(nil))
	})
}

func TestReconcileWith(t *testing.T) {
	t.Run("keeps original featured image", func(t *testing.T) {
		original := samplePost()
		original.FeaturedImage = "https://example.com/local.jpg"
		updated := samplePost()
		updated.FeaturedImage = ""

		updated.ReconcileWith(original)
		assert.Equal(t, "https://example.com/local.jpg", updated.FeaturedImage)
	})

	t.Run("original image wins over server image", func(t *testing.T) {
		original := samplePost()
		original.FeaturedImage = "https://example.com/local.jpg"
		updated := samplePost()
		updated.FeaturedImage = "https://example.com/server.jpg"

		updated.ReconcileWith(original)
		assert.Equal(t, "https://example.com/local.jpg", updated.FeaturedImage)
	})

	t.Run("server image kept when original has none", func(t *testing.T) {
		original := samplePost()
		updated := samplePost()
		updated.FeaturedImage = "https://example.com/server.jpg"

		updated.ReconcileWith(original)
		assert.Equal(t, "https://example.com/server.jpg", updated.FeaturedImage)
	})

	t.Run("featured video and videopress flag", func(t *testing.T) {
		original := samplePost()
		original.FeaturedVideo = "https://videopress.com/v/abc"
		original.IsVideoPress = true
		updated := samplePost()

		updated.ReconcileWith(original)
		assert.Equal(t, "https://videopress.com/v/abc", updated.FeaturedVideo)
		assert.True(t, updated.IsVideoPress)
	})

	t.Run("ordering fields always inherited", func(t *testing.T) {
		original := samplePost()
		updated := samplePost()
		updated.Timestamp = 99
		updated.Published = "2099-01-01T00:00:00Z"
		updated.NumLikes = 7

		updated.ReconcileWith(original)
		assert.Equal(t, original.Timestamp, updated.Timestamp)
		assert.Equal(t, original.Published, updated.Published)
		assert.Equal(t, 7, updated.NumLikes)
	})
}

func TestUpdateResultString(t *testing.T) {
	assert.Equal(t, "CHANGED", Changed.String())
	assert.Equal(t, "UNCHANGED", Unchanged.String())
	assert.Equal(t, "FAILED", Failed.String())

	text, err := Changed.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "CHANGED", string(text))
}
