package repositories

import (
	"fmt"

	"blogreader/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerUserRepository implements UserStore using BadgerDB
type BadgerUserRepository struct {
	db *badger.DB
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db}
}

// AddOrUpdateUsers stores all users in a single transaction
func (r *BadgerUserRepository) AddOrUpdateUsers(users models.UserList) error {
	for _, u := range users {
		if err := u.Validate(); err != nil {
			return fmt.Errorf("invalid user: %w", err)
		}
	}
	return r.db.Update(func(txn *badger.Txn) error {
		for _, u := range users {
			if err := setEntity(txn, userKey(u.UserID), u); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetUser retrieves a user by id
func (r *BadgerUserRepository) GetUser(userID int64) (*models.User, error) {
	var user models.User
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, userKey(userID), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsers returns the stored users for ids in order, skipping unknown ids
func (r *BadgerUserRepository) GetUsers(ids models.UserIDList) (models.UserList, error) {
	users := make(models.UserList, 0, len(ids))
	err := r.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			var user models.User
			err := getEntity(txn, userKey(id), &user)
			if err == ErrNotFound {
				continue
			}
			if err != nil {
				return err
			}
			users = append(users, &user)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}
