package repositories

import (
	"blogreader/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerLikeRepository implements LikeStore using BadgerDB
type BadgerLikeRepository struct {
	db            *badger.DB
	currentUserID int64
}

// NewBadgerLikeRepository creates a new BadgerLikeRepository. currentUserID is
// the account whose likes SetCurrentUserLikesPost records.
func NewBadgerLikeRepository(db *badger.DB, currentUserID int64) *BadgerLikeRepository {
	return &BadgerLikeRepository{db: db, currentUserID: currentUserID}
}

// GetLikesForPost returns the liking user ids in stored order
func (r *BadgerLikeRepository) GetLikesForPost(blogID, postID int64) (models.UserIDList, error) {
	ids := models.UserIDList{}
	err := r.db.View(func(txn *badger.Txn) error {
		err := getEntity(txn, likesKey(blogID, postID), &ids)
		if err == ErrNotFound {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// SetLikesForPost replaces the liking user list of a post
func (r *BadgerLikeRepository) SetLikesForPost(blogID, postID int64, ids models.UserIDList) error {
	if ids == nil {
		ids = models.UserIDList{}
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return setEntity(txn, likesKey(blogID, postID), ids)
	})
}

// SetCurrentUserLikesPost adds or removes the current user from a post's liking list
func (r *BadgerLikeRepository) SetCurrentUserLikesPost(blogID, postID int64, isLiked bool) error {
	if r.currentUserID == 0 {
		return nil
	}
	return r.db.Update(func(txn *badger.Txn) error {
		key := likesKey(blogID, postID)
		ids := models.UserIDList{}
		if err := getEntity(txn, key, &ids); err != nil && err != ErrNotFound {
			return err
		}
		if isLiked {
			ids = ids.With(r.currentUserID)
		} else {
			ids = ids.Without(r.currentUserID)
		}
		return setEntity(txn, key, ids)
	})
}
