package services

import (
	"context"
	"errors"
	"fmt"

	"blogreader/app/actions"
	"blogreader/app/models"
	"blogreader/app/repositories"
)

// ErrRequestFailed is returned when a post could not be fetched.
var ErrRequestFailed = errors.New("post request failed")

// ReaderService wraps the asynchronous post actions with blocking calls
type ReaderService struct {
	actions *actions.Actions
	posts   repositories.PostStore
	likes   repositories.LikeStore
	users   repositories.UserStore
	admins  repositories.AdminStore
}

// NewReaderService creates a new ReaderService
func NewReaderService(a *actions.Actions, posts repositories.PostStore, likes repositories.LikeStore, users repositories.UserStore, admins repositories.AdminStore) *ReaderService {
	return &ReaderService{
		actions: a,
		posts:   posts,
		likes:   likes,
		users:   users,
		admins:  admins,
	}
}

// GetPost returns a cached post
func (s *ReaderService) GetPost(blogID, postID int64) (*models.Post, error) {
	return s.posts.Get(blogID, postID)
}

// ListPosts retrieves a paginated list of cached posts, newest first
func (s *ReaderService) ListPosts(page, perPage int) ([]*models.Post, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	return s.posts.List(perPage, (page-1)*perPage)
}

// Refresh updates a cached post from the server and waits for the outcome.
func (s *ReaderService) Refresh(ctx context.Context, blogID, postID int64) (models.UpdateResult, error) {
	post, err := s.posts.Get(blogID, postID)
	if err != nil {
		return models.Failed, err
	}

	done := make(chan models.UpdateResult, 1)
	s.actions.UpdatePost(ctx, post, func(result models.UpdateResult) { done <- result })

	select {
	case result := <-done:
		return result, nil
	case <-ctx.Done():
		return models.Failed, ctx.Err()
	}
}

// Fetch requests a post from the server, stores it and returns it.
func (s *ReaderService) Fetch(ctx context.Context, blogID, postID int64) (*models.Post, error) {
	done := make(chan bool, 1)
	s.actions.RequestPost(ctx, blogID, postID, func(ok bool) { done <- ok })

	select {
	case ok := <-done:
		if !ok {
			return nil, fmt.Errorf("%w: %d/%d", ErrRequestFailed, blogID, postID)
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.posts.Get(blogID, postID)
}

// SetLiked likes or unlikes a cached post. It returns the stored post after
// the optimistic update and whether anything changed. The server request
// outlives ctx cancellation so a failed request can still roll back.
func (s *ReaderService) SetLiked(ctx context.Context, blogID, postID int64, like bool) (*models.Post, bool, error) {
	post, err := s.posts.Get(blogID, postID)
	if err != nil {
		return nil, false, err
	}
	changed := s.actions.PerformLikeAction(context.WithoutCancel(ctx), post, like)

	updated, err := s.posts.Get(blogID, postID)
	if err != nil {
		return nil, changed, err
	}
	return updated, changed, nil
}

// View reports a page view of a cached post.
func (s *ReaderService) View(ctx context.Context, blogID, postID int64) error {
	if _, err := s.posts.Get(blogID, postID); err != nil {
		return err
	}
	s.actions.BumpPageView(context.WithoutCancel(ctx), blogID, postID)
	return nil
}

// Likers returns the stored users who like a post, in server order
func (s *ReaderService) Likers(blogID, postID int64) (models.UserList, error) {
	ids, err := s.likes.GetLikesForPost(blogID, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get likes: %w", err)
	}
	return s.users.GetUsers(ids)
}

// SetAdmin records whether the current user administers blogID
func (s *ReaderService) SetAdmin(blogID int64, isAdmin bool) error {
	if blogID <= 0 {
		return fmt.Errorf("invalid blog id %d", blogID)
	}
	return s.admins.SetCurrentUserAdminOfBlog(blogID, isAdmin)
}

// Wait blocks until background requests finish
func (s *ReaderService) Wait() {
	s.actions.Wait()
}
