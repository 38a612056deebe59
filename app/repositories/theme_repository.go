package repositories

import (
	"fmt"
	"sort"

	"blogreader/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerThemeRepository implements ThemeStore using BadgerDB
type BadgerThemeRepository struct {
	db *badger.DB
}

// NewBadgerThemeRepository creates a new BadgerThemeRepository
func NewBadgerThemeRepository(db *badger.DB) *BadgerThemeRepository {
	return &BadgerThemeRepository{db: db}
}

// AddOrUpdate stores a theme by id
func (r *BadgerThemeRepository) AddOrUpdate(theme *models.Theme) error {
	if err := theme.Validate(); err != nil {
		return fmt.Errorf("invalid theme: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return setEntity(txn, themeKey(theme.ID), theme)
	})
}

// List returns all themes sorted by name
func (r *BadgerThemeRepository) List() ([]*models.Theme, error) {
	var themes []*models.Theme
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(ThemeKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var theme models.Theme
			if err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &theme)
			}); err != nil {
				return err
			}
			themes = append(themes, &theme)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(themes, func(i, j int) bool {
		return themes[i].Name < themes[j].Name
	})
	return themes, nil
}
