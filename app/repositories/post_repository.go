package repositories

import (
	"errors"
	"fmt"
	"sort"

	"blogreader/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostStore using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Get retrieves a post by blog and post id
func (r *BadgerPostRepository) Get(blogID, postID int64) (*models.Post, error) {
	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, postKey(blogID, postID), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// AddOrUpdate stores the post, replacing any existing record
func (r *BadgerPostRepository) AddOrUpdate(post *models.Post) error {
	if err := post.Validate(); err != nil {
		return fmt.Errorf("invalid post: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return setEntity(txn, postKey(post.BlogID, post.PostID), post)
	})
}

// List returns cached posts newest first
func (r *BadgerPostRepository) List(limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(PostKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var post models.Post
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal post: %v", err)
			}
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Timestamp > posts[j].Timestamp
	})

	if offset >= len(posts) {
		return []*models.Post{}, nil
	}
	end := len(posts)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return posts[offset:end], nil
}

// Delete removes a post by blog and post id
func (r *BadgerPostRepository) Delete(blogID, postID int64) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := postKey(blogID, postID)
		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// SetLikesForPost updates the like count and liked flag of a stored post
func (r *BadgerPostRepository) SetLikesForPost(blogID, postID int64, numLikes int, isLiked bool) error {
	if numLikes < 0 {
		numLikes = 0
	}
	return r.db.Update(func(txn *badger.Txn) error {
		key := postKey(blogID, postID)
		var post models.Post
		if err := getEntity(txn, key, &post); err != nil {
			return err
		}
		post.NumLikes = numLikes
		post.IsLikedByCurrentUser = isLiked
		return setEntity(txn, key, &post)
	})
}

// IsPostLikedByCurrentUser reports the stored liked flag; missing posts are not liked
func (r *BadgerPostRepository) IsPostLikedByCurrentUser(blogID, postID int64) (bool, error) {
	post, err := r.Get(blogID, postID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return post.IsLikedByCurrentUser, nil
}

// GetNumLikesForPost returns the stored like count; missing posts have none
func (r *BadgerPostRepository) GetNumLikesForPost(blogID, postID int64) (int, error) {
	post, err := r.Get(blogID, postID)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return post.NumLikes, nil
}
