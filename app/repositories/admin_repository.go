package repositories

import "github.com/dgraph-io/badger/v4"

// BadgerAdminRepository implements AdminStore using BadgerDB
type BadgerAdminRepository struct {
	db *badger.DB
}

// NewBadgerAdminRepository creates a new BadgerAdminRepository
func NewBadgerAdminRepository(db *badger.DB) *BadgerAdminRepository {
	return &BadgerAdminRepository{db: db}
}

func (r *BadgerAdminRepository) IsCurrentUserAdminOfBlog(blogID int64) (bool, error) {
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(adminKey(blogID))
		return err
	})
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *BadgerAdminRepository) SetCurrentUserAdminOfBlog(blogID int64, isAdmin bool) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if isAdmin {
			return txn.Set(adminKey(blogID), []byte{1})
		}
		return txn.Delete(adminKey(blogID))
	})
}
