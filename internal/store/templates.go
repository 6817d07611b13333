package store

import (
	"encoding/json"
	"time"
)

// Template is a named, reusable style bag. Config holds the partial style
// in the same shape model.Record.Style produces. IDs are assigned by the
// store on first insert.
type Template struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Config    map[string]any `json:"config"`
	Category  string         `json:"category"`
	CreatedAt string         `json:"created_at"`
}

// SaveTemplate persists a template. A zero ID inserts a new row and the
// store assigns the next id; a nonzero ID replaces that row. Returns the
// row id, or 0 when nothing was persisted.
func (s *Store) SaveTemplate(t Template) int64 {
	if !s.ready() {
		return 0
	}
	if t.Category == "" {
		t.Category = "general"
	}
	if t.CreatedAt == "" {
		t.CreatedAt = time.Now().Format(time.RFC3339)
	}
	config, err := json.Marshal(t.Config)
	if err != nil {
		s.log.Error("encoding template config", "name", t.Name, "error", err)
		return 0
	}

	if t.ID != 0 {
		err = s.db.Exec(`
			INSERT OR REPLACE INTO templates (id, name, config, category, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			t.ID, t.Name, string(config), t.Category, t.CreatedAt).Error
		if err != nil {
			s.log.Error("saving template", "name", t.Name, "error", err)
			return 0
		}
		return t.ID
	}

	var id int64
	err = s.db.Raw(`
		INSERT INTO templates (name, config, category, created_at)
		VALUES (?, ?, ?, ?) RETURNING id`,
		t.Name, string(config), t.Category, t.CreatedAt).Scan(&id).Error
	if err != nil {
		s.log.Error("saving template", "name", t.Name, "error", err)
		return 0
	}
	return id
}

// Templates lists saved templates, optionally limited to a category.
func (s *Store) Templates(category string) []Template {
	if !s.ready() {
		return nil
	}
	query := `SELECT id, name, config, category, created_at FROM templates`
	var args []any
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY name`

	rows, err := s.db.Raw(query, args...).Rows()
	if err != nil {
		s.log.Error("listing templates", "error", err)
		return nil
	}
	defer rows.Close()

	var out []Template
	for rows.Next() {
		var t Template
		var config string
		if err := rows.Scan(&t.ID, &t.Name, &config, &t.Category, &t.CreatedAt); err != nil {
			s.log.Warn("skipping undecodable template", "error", err)
			continue
		}
		if err := json.Unmarshal([]byte(config), &t.Config); err != nil {
			s.log.Warn("skipping template with malformed config", "id", t.ID, "error", err)
			continue
		}
		out = append(out, t)
	}
	return out
}

// Template fetches one template by ID, or nil when absent.
func (s *Store) Template(id int64) *Template {
	if !s.ready() {
		return nil
	}
	rows, err := s.db.Raw(`SELECT id, name, config, category, created_at FROM templates WHERE id = ?`, id).Rows()
	if err != nil {
		s.log.Error("loading template", "id", id, "error", err)
		return nil
	}
	defer rows.Close()

	if !rows.Next() {
		return nil
	}
	var t Template
	var config string
	if err := rows.Scan(&t.ID, &t.Name, &config, &t.Category, &t.CreatedAt); err != nil {
		s.log.Warn("skipping undecodable template", "id", id, "error", err)
		return nil
	}
	if err := json.Unmarshal([]byte(config), &t.Config); err != nil {
		s.log.Warn("template has malformed config", "id", id, "error", err)
		return nil
	}
	return &t
}

// DeleteTemplate removes a template and reports whether a row was deleted.
func (s *Store) DeleteTemplate(id int64) bool {
	if !s.ready() {
		return false
	}
	res := s.db.Exec(`DELETE FROM templates WHERE id = ?`, id)
	if res.Error != nil {
		s.log.Error("deleting template", "id", id, "error", res.Error)
		return false
	}
	return res.RowsAffected > 0
}
