package actions

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"blogreader/app/models"

	"github.com/rs/zerolog/log"
)

// TrackingPixelURL builds the page view beacon URL for post.
func (a *Actions) TrackingPixelURL(post *models.Post) string {
	return fmt.Sprintf("%s?v=wpcom&reader=1&blog=%d&post=%d&host=%s&ref=%s&t=%d",
		a.pixelURL,
		post.BlogID,
		post.PostID,
		url.QueryEscape(domainFromURL(post.BlogURL)),
		url.QueryEscape(TrackingReferrer),
		a.random(),
	)
}

// BumpPageView reports a view of a cached post. Views by an admin of the
// post's blog are skipped unless the post is private. The request is best
// effort: failures are only logged.
func (a *Actions) BumpPageView(ctx context.Context, blogID, postID int64) {
	logger := log.With().Int64("blog_id", blogID).Int64("post_id", postID).Logger()

	post, err := a.posts.Get(blogID, postID)
	if err != nil {
		logger.Debug().Err(err).Msg("skipped bump page view - post not cached")
		return
	}

	if !post.IsPrivate {
		isAdmin, err := a.admins.IsCurrentUserAdminOfBlog(post.BlogID)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to check blog admin")
		} else if isAdmin {
			logger.Debug().Msg("skipped bump page view - user is admin")
			return
		}
	}

	pixel := a.TrackingPixelURL(post)
	a.goAsync(func() {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pixel, nil)
		if err != nil {
			logger.Warn().Err(err).Msg("bump page view failed")
			return
		}
		req.Header.Set("Referer", TrackingReferrer)

		resp, err := a.pixel.Do(req)
		if err != nil {
			logger.Warn().Err(err).Msg("bump page view failed")
			return
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)

		if resp.StatusCode >= http.StatusBadRequest {
			logger.Warn().Int("status", resp.StatusCode).Msg("bump page view failed")
			return
		}
		logger.Debug().Msg("bump page view succeeded")
	})
}

func domainFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
