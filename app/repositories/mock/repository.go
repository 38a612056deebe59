package mock

import (
	"fmt"
	"sync"

	"blogreader/app/models"
	"blogreader/app/repositories"
)

type postKey struct {
	blogID, postID int64
}

// Store is an in-memory implementation of every reader store.
type Store struct {
	CurrentUserID int64

	mutex  sync.RWMutex
	posts  map[postKey]*models.Post
	likes  map[postKey]models.UserIDList
	users  map[int64]*models.User
	admins map[int64]bool

	// Writes counts successful mutations, keyed by method name.
	Writes map[string]int
}

var (
	_ repositories.PostStore  = (*PostStore)(nil)
	_ repositories.LikeStore  = (*LikeStore)(nil)
	_ repositories.UserStore  = (*Store)(nil)
	_ repositories.AdminStore = (*Store)(nil)
)

func NewStore(currentUserID int64) *Store {
	return &Store{
		CurrentUserID: currentUserID,
		posts:         make(map[postKey]*models.Post),
		likes:         make(map[postKey]models.UserIDList),
		users:         make(map[int64]*models.User),
		admins:        make(map[int64]bool),
		Writes:        make(map[string]int),
	}
}

// PostStore and LikeStore share method names, so each gets its own view.
type PostStore struct{ *Store }
type LikeStore struct{ *Store }

func (s *Store) Posts() *PostStore { return &PostStore{s} }
func (s *Store) Likes() *LikeStore { return &LikeStore{s} }

// WriteCount returns how many times name mutated the store
func (s *Store) WriteCount(name string) int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.Writes[name]
}

func (s *PostStore) Get(blogID, postID int64) (*models.Post, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	post, exists := s.posts[postKey{blogID, postID}]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return post.Clone(), nil
}

func (s *PostStore) AddOrUpdate(post *models.Post) error {
	if err := post.Validate(); err != nil {
		return fmt.Errorf("invalid post: %w", err)
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.posts[postKey{post.BlogID, post.PostID}] = post.Clone()
	s.Writes["AddOrUpdatePost"]++
	return nil
}

func (s *PostStore) List(limit, offset int) ([]*models.Post, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var posts []*models.Post
	for _, p := range s.posts {
		posts = append(posts, p.Clone())
	}
	if offset >= len(posts) {
		return []*models.Post{}, nil
	}
	end := len(posts)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return posts[offset:end], nil
}

func (s *PostStore) Delete(blogID, postID int64) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	k := postKey{blogID, postID}
	if _, exists := s.posts[k]; !exists {
		return repositories.ErrNotFound
	}
	delete(s.posts, k)
	return nil
}

func (s *PostStore) SetLikesForPost(blogID, postID int64, numLikes int, isLiked bool) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	post, exists := s.posts[postKey{blogID, postID}]
	if !exists {
		return repositories.ErrNotFound
	}
	if numLikes < 0 {
		numLikes = 0
	}
	post.NumLikes = numLikes
	post.IsLikedByCurrentUser = isLiked
	s.Writes["SetPostLikes"]++
	return nil
}

func (s *PostStore) IsPostLikedByCurrentUser(blogID, postID int64) (bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	post, exists := s.posts[postKey{blogID, postID}]
	return exists && post.IsLikedByCurrentUser, nil
}

func (s *PostStore) GetNumLikesForPost(blogID, postID int64) (int, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if post, exists := s.posts[postKey{blogID, postID}]; exists {
		return post.NumLikes, nil
	}
	return 0, nil
}

func (s *LikeStore) GetLikesForPost(blogID, postID int64) (models.UserIDList, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return append(models.UserIDList{}, s.likes[postKey{blogID, postID}]...), nil
}

func (s *LikeStore) SetLikesForPost(blogID, postID int64, ids models.UserIDList) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.likes[postKey{blogID, postID}] = append(models.UserIDList{}, ids...)
	s.Writes["SetLikingUsers"]++
	return nil
}

func (s *LikeStore) SetCurrentUserLikesPost(blogID, postID int64, isLiked bool) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.CurrentUserID == 0 {
		return nil
	}
	k := postKey{blogID, postID}
	if isLiked {
		s.likes[k] = s.likes[k].With(s.CurrentUserID)
	} else {
		s.likes[k] = s.likes[k].Without(s.CurrentUserID)
	}
	return nil
}

func (s *Store) AddOrUpdateUsers(users models.UserList) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, u := range users {
		c := *u
		s.users[u.UserID] = &c
	}
	s.Writes["AddOrUpdateUsers"]++
	return nil
}

func (s *Store) GetUser(userID int64) (*models.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	u, exists := s.users[userID]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (s *Store) GetUsers(ids models.UserIDList) (models.UserList, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	users := models.UserList{}
	for _, id := range ids {
		if u, exists := s.users[id]; exists {
			c := *u
			users = append(users, &c)
		}
	}
	return users, nil
}

func (s *Store) IsCurrentUserAdminOfBlog(blogID int64) (bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.admins[blogID], nil
}

func (s *Store) SetCurrentUserAdminOfBlog(blogID int64, isAdmin bool) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if isAdmin {
		s.admins[blogID] = true
	} else {
		delete(s.admins, blogID)
	}
	return nil
}
