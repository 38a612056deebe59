package actions

import (
	"context"
	"fmt"

	"blogreader/app/models"

	"github.com/rs/zerolog/log"
)

func readPostPath(blogID, postID int64) string {
	return fmt.Sprintf("read/sites/%d/posts/%d/?meta=site,likes", blogID, postID)
}

// UpdatePost fetches the latest version of original and stores it when it
// changed. A post counts as changed when IsSamePost reports a difference
// or its liking users changed. The listener, which may be nil, is called on
// the coordinating loop.
func (a *Actions) UpdatePost(ctx context.Context, original *models.Post, listener UpdateResultListener) {
	if original == nil {
		a.notifyUpdate(listener, models.Failed)
		return
	}
	original = original.Clone()

	log.Debug().Int64("blog_id", original.BlogID).Int64("post_id", original.PostID).Msg("updating post")
	a.goAsync(func() {
		body, err := a.readClient.Get(ctx, readPostPath(original.BlogID, original.PostID))
		if err != nil {
			log.Error().Err(err).Stringer("post", original).Msg("update post failed")
			a.notifyUpdate(listener, models.Failed)
			return
		}
		a.notifyUpdate(listener, a.handleUpdatePostResponse(original, body))
	})
}

func (a *Actions) handleUpdatePostResponse(original *models.Post, body []byte) models.UpdateResult {
	payload, err := models.ParsePostPayload(body)
	if err != nil {
		log.Error().Err(err).Stringer("post", original).Msg("update post returned bad payload")
		return models.Failed
	}

	updated := payload.Post()
	hasChanges := !original.IsSamePost(updated)

	if hasChanges {
		log.Debug().Stringer("post", original).Msg("post updated")
		updated.ReconcileWith(original)
		if err := a.posts.AddOrUpdate(updated); err != nil {
			log.Error().Err(err).Stringer("post", original).Msg("failed to store updated post")
			return models.Failed
		}
	}

	// liking users are reconciled even when the post itself is unchanged so
	// they are available to post detail right away
	likesChanged, err := a.handlePostLikes(updated, payload)
	if err != nil {
		log.Error().Err(err).Stringer("post", original).Msg("failed to store liking users")
		return models.Failed
	}
	if likesChanged {
		hasChanges = true
	}

	if hasChanges {
		return models.Changed
	}
	return models.Unchanged
}

// handlePostLikes stores the liking users from the payload's likes meta and
// reports whether the stored id list changed.
func (a *Actions) handlePostLikes(post *models.Post, payload *models.PostPayload) (bool, error) {
	if post == nil || payload == nil {
		return false, nil
	}
	likingUsers, ok := payload.LikingUsers()
	if !ok {
		return false, nil
	}

	likingUserIDs := likingUsers.UserIDs()
	existingIDs, err := a.likes.GetLikesForPost(post.BlogID, post.PostID)
	if err != nil {
		return false, fmt.Errorf("failed to load liking users: %w", err)
	}
	if likingUserIDs.IsSameList(existingIDs) {
		return false, nil
	}

	if err := a.users.AddOrUpdateUsers(likingUsers); err != nil {
		return false, fmt.Errorf("failed to store users: %w", err)
	}
	if err := a.likes.SetLikesForPost(post.BlogID, post.PostID, likingUserIDs); err != nil {
		return false, fmt.Errorf("failed to store likes: %w", err)
	}
	return true, nil
}

// RequestPost fetches a post that is not cached yet and stores it.
func (a *Actions) RequestPost(ctx context.Context, blogID, postID int64, listener ActionListener) {
	log.Debug().Int64("blog_id", blogID).Int64("post_id", postID).Msg("requesting post")
	a.goAsync(func() {
		ok := a.requestPost(ctx, blogID, postID)
		if listener != nil {
			a.deliver(func() { listener(ok) })
		}
	})
}

func (a *Actions) requestPost(ctx context.Context, blogID, postID int64) bool {
	logger := log.With().Int64("blog_id", blogID).Int64("post_id", postID).Logger()

	body, err := a.readClient.Get(ctx, readPostPath(blogID, postID))
	if err != nil {
		logger.Error().Err(err).Msg("request post failed")
		return false
	}

	payload, err := models.ParsePostPayload(body)
	if err != nil {
		logger.Error().Err(err).Msg("request post returned bad payload")
		return false
	}

	post := payload.Post()
	if err := a.posts.AddOrUpdate(post); err != nil {
		logger.Error().Err(err).Msg("failed to store requested post")
		return false
	}
	if _, err := a.handlePostLikes(post, payload); err != nil {
		logger.Warn().Err(err).Msg("failed to store liking users")
	}
	return true
}

func (a *Actions) notifyUpdate(listener UpdateResultListener, result models.UpdateResult) {
	if listener == nil {
		return
	}
	a.deliver(func() { listener(result) })
}
