package store

import (
	"fmt"

	"gorm.io/gorm"
)

// migration is one schema step. Steps run inside a transaction and are
// recorded in schema_migrations, so each runs at most once per database file.
type migration struct {
	version int
	name    string
	apply   func(tx *gorm.DB) error
}

var migrations = []migration{
	{
		version: 1,
		name:    "create qrcodes table",
		apply: func(tx *gorm.DB) error {
			return tx.Exec(`
				CREATE TABLE IF NOT EXISTS qrcodes (
					id TEXT PRIMARY KEY,
					data TEXT NOT NULL,
					qr_type TEXT NOT NULL,
					version INTEGER DEFAULT 0,
					error_correction TEXT DEFAULT 'H',
					size INTEGER DEFAULT 10,
					border INTEGER DEFAULT 4,
					foreground_color TEXT DEFAULT '#000000',
					background_color TEXT DEFAULT '#FFFFFF',
					logo_path TEXT,
					gradient_start TEXT,
					gradient_end TEXT,
					gradient_type TEXT DEFAULT 'linear',
					created_at TEXT,
					tags TEXT,
					notes TEXT,
					output_format TEXT DEFAULT 'PNG'
				)`).Error
		},
	},
	{
		version: 2,
		name:    "create templates table",
		apply: func(tx *gorm.DB) error {
			return tx.Exec(`
				CREATE TABLE IF NOT EXISTS templates (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					config TEXT NOT NULL,
					category TEXT DEFAULT 'general',
					created_at TEXT
				)`).Error
		},
	},
	{
		version: 3,
		name:    "add logo_scale column",
		apply: func(tx *gorm.DB) error {
			// Files written before the version table existed may already
			// carry the column, and SQLite has no ADD COLUMN IF NOT EXISTS,
			// so this one step probes before altering.
			if tableHasColumn(tx, "qrcodes", "logo_scale") {
				return nil
			}
			return tx.Exec(`ALTER TABLE qrcodes ADD COLUMN logo_scale REAL DEFAULT 0.2`).Error
		},
	},
}

func (s *Store) migrate() error {
	if err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT,
			applied_at TEXT DEFAULT (datetime('now'))
		)`).Error; err != nil {
		return fmt.Errorf("creating migration table: %w", err)
	}

	current := 0
	if err := s.db.Raw(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).
		Scan(&current).Error; err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := m.apply(tx); err != nil {
				return err
			}
			return tx.Exec(`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`,
				m.version, m.name).Error
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		s.log.Debug("applied migration", "version", m.version, "name", m.name)
	}
	return nil
}

func tableHasColumn(tx *gorm.DB, table, column string) bool {
	rows, err := tx.Raw(fmt.Sprintf(`PRAGMA table_info(%s)`, table)).Rows()
	if err != nil {
		return false
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notnull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			continue
		}
		if name == column {
			return true
		}
	}
	return false
}
