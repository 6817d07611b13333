// Package store persists code records and style templates in a single-file
// SQLite database. Every operation absorbs engine errors: failures are
// logged and a conservative zero value is returned, so a corrupt or missing
// database never takes the rest of the application down with it.
package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store wraps one long-lived database handle. A nil *Store is valid and
// behaves as an empty, read-only history.
type Store struct {
	db  *gorm.DB
	log *slog.Logger
}

// Open opens (creating if necessary) the database at path and applies any
// pending migrations. The parent directory is created when missing.
func Open(path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}

	s := &Store{db: db, log: log}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrating database %s: %w", path, err)
	}
	return s, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) ready() bool {
	return s != nil && s.db != nil
}
