package repositories

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Repository owns the Badger database behind every reader store.
type Repository struct {
	db       *badger.DB
	mutex    sync.RWMutex
	dbPath   string
	isTestDB bool

	Posts  *BadgerPostRepository
	Likes  *BadgerLikeRepository
	Users  *BadgerUserRepository
	Admins *BadgerAdminRepository
	Themes *BadgerThemeRepository
}

func NewRepository(path string, currentUserID int64) (*Repository, error) {
	isTest := false
	if path == "" || path == "test_db" {
		// If no path is provided or if "test_db" is explicitly used,
		// create a unique temporary directory for testing to ensure isolation.
		tempPath, err := os.MkdirTemp("", "blogreader_test_db_")
		if err != nil {
			return nil, fmt.Errorf("error creating temp dir: %v", err)
		}
		path = tempPath
		isTest = true
	}
	opts := badger.DefaultOptions(path).
		WithLogger(badgerLogger{log.With().Str("component", "badger").Logger()}).
		WithLoggingLevel(badger.WARNING).
		WithSyncWrites(false).
		WithNumVersionsToKeep(1)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Repository{
		db:       db,
		dbPath:   path,
		isTestDB: isTest,
		Posts:    NewBadgerPostRepository(db),
		Likes:    NewBadgerLikeRepository(db, currentUserID),
		Users:    NewBadgerUserRepository(db),
		Admins:   NewBadgerAdminRepository(db),
		Themes:   NewBadgerThemeRepository(db),
	}, nil
}

// DB exposes the underlying Badger handle.
func (r *Repository) DB() *badger.DB {
	return r.db
}

func (r *Repository) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	err := r.db.Close()
	if err != nil {
		return err
	}

	// Clean up test database
	if r.isTestDB {
		err = os.RemoveAll(r.dbPath)
		if err != nil {
			return fmt.Errorf("failed to cleanup test database: %v", err)
		}
	}
	return nil
}

// Clear drops every key in the database.
func (r *Repository) Clear() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.db.DropAll()
}

// Backup writes a full backup of the database to w.
func (r *Repository) Backup(w io.Writer) error {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if _, err := r.db.Backup(w, 0); err != nil {
		return fmt.Errorf("failed to backup database: %w", err)
	}
	return nil
}

// Restore loads a backup produced by Backup.
func (r *Repository) Restore(rd io.Reader) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if err := r.db.Load(rd, 4); err != nil {
		return fmt.Errorf("failed to restore database: %w", err)
	}
	return nil
}

// badgerLogger routes Badger's internal logging through zerolog.
type badgerLogger struct {
	l zerolog.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.l.Error().Msgf(format, args...)
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.l.Warn().Msgf(format, args...)
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.l.Info().Msgf(format, args...)
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.l.Debug().Msgf(format, args...)
}
