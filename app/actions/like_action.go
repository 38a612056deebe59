package actions

import (
	"context"
	"fmt"

	"blogreader/app/models"
	"blogreader/app/rest"

	"github.com/rs/zerolog/log"
)

func likePath(blogID, postID int64, isAskingToLike bool) string {
	path := fmt.Sprintf("sites/%d/posts/%d/likes/", blogID, postID)
	if isAskingToLike {
		return path + "new"
	}
	return path + "mine/delete"
}

// PerformLikeAction likes or unlikes post. The local store is updated right
// away and the request is sent in the background; if it fails the stored
// like count and flag are restored to the values held by post. It returns
// false without doing anything when the stored state already matches.
//
// Toggles on the same post are not serialized: a late failure restores its
// own snapshot even if a newer toggle has been stored since.
func (a *Actions) PerformLikeAction(ctx context.Context, post *models.Post, isAskingToLike bool) bool {
	if post == nil {
		return false
	}
	snapshot := post.Clone()
	blogID, postID := snapshot.BlogID, snapshot.PostID
	logger := log.With().Int64("blog_id", blogID).Int64("post_id", postID).Logger()

	isCurrentlyLiked, err := a.posts.IsPostLikedByCurrentUser(blogID, postID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read like state")
		return false
	}
	if isCurrentlyLiked == isAskingToLike {
		logger.Warn().Msg("post like unchanged")
		return false
	}

	numCurrentLikes, err := a.posts.GetNumLikesForPost(blogID, postID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read like count")
		return false
	}
	newNumLikes := numCurrentLikes - 1
	if isAskingToLike {
		newNumLikes = numCurrentLikes + 1
	}
	if newNumLikes < 0 {
		newNumLikes = 0
	}

	if err := a.posts.SetLikesForPost(blogID, postID, newNumLikes, isAskingToLike); err != nil {
		logger.Warn().Err(err).Msg("failed to store like count")
	}
	if err := a.likes.SetCurrentUserLikesPost(blogID, postID, isAskingToLike); err != nil {
		logger.Warn().Err(err).Msg("failed to store current user like")
	}

	actionName := "unlike"
	if isAskingToLike {
		actionName = "like"
	}

	a.goAsync(func() {
		_, err := a.likeClient.Post(ctx, likePath(blogID, postID, isAskingToLike), nil)
		if err == nil {
			logger.Debug().Msgf("post %s succeeded", actionName)
		} else {
			if msg := rest.ErrorMessage(err); msg != "" {
				logger.Warn().Err(err).Msgf("post %s failed (%s)", actionName, msg)
			} else {
				logger.Warn().Err(err).Msgf("post %s failed", actionName)
			}
			a.rollbackLike(snapshot)
		}

		if a.likeHook != nil {
			hook := a.likeHook
			a.deliver(func() { hook(snapshot, isAskingToLike, err) })
		}
	})
	return true
}

func (a *Actions) rollbackLike(snapshot *models.Post) {
	if err := a.posts.SetLikesForPost(snapshot.BlogID, snapshot.PostID, snapshot.NumLikes, snapshot.IsLikedByCurrentUser); err != nil {
		log.Error().Err(err).Stringer("post", snapshot).Msg("failed to roll back like count")
	}
	if err := a.likes.SetCurrentUserLikesPost(snapshot.BlogID, snapshot.PostID, snapshot.IsLikedByCurrentUser); err != nil {
		log.Error().Err(err).Stringer("post", snapshot).Msg("failed to roll back current user like")
	}
}
