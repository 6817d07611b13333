package store

import (
	"encoding/json"
	"strings"

	"github.com/qrstudio/qrstudio/internal/model"
)

// recordColumns fixes the column order every record query selects, so the
// positional decode in rows.go stays in one place.
const recordColumns = `id, data, qr_type, version, error_correction, size, border,
	foreground_color, background_color, logo_path, logo_scale,
	gradient_start, gradient_end, gradient_type, created_at, tags, notes,
	output_format`

// Save upserts a record under its ID and reports whether it was persisted.
func (s *Store) Save(r model.Record) bool {
	if !s.ready() {
		return false
	}
	r.Normalize()

	tags, err := json.Marshal(r.Tags)
	if err != nil {
		s.log.Error("encoding tags", "id", r.ID, "error", err)
		tags = []byte("[]")
	}

	err = s.db.Exec(`
		INSERT OR REPLACE INTO qrcodes (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Data, string(r.Kind), r.Version, string(r.ErrorCorrection),
		r.Size, r.Border, r.ForegroundColor, r.BackgroundColor,
		r.LogoPath, r.LogoScale, r.GradientStart, r.GradientEnd,
		string(r.GradientType), r.CreatedAt, string(tags), r.Notes,
		string(r.OutputFormat)).Error
	if err != nil {
		s.log.Error("saving record", "id", r.ID, "error", err)
		return false
	}
	return true
}

// Load fetches one record by ID, or nil when absent or undecodable.
func (s *Store) Load(id string) *model.Record {
	if !s.ready() {
		return nil
	}
	rows, err := s.db.Raw(`SELECT `+recordColumns+` FROM qrcodes WHERE id = ?`, id).Rows()
	if err != nil {
		s.log.Error("loading record", "id", id, "error", err)
		return nil
	}
	defer rows.Close()

	if !rows.Next() {
		return nil
	}
	r, err := scanRecord(rows)
	if err != nil {
		s.log.Warn("skipping undecodable record", "id", id, "error", err)
		return nil
	}
	return &r
}

// Delete removes a record and reports whether a row was actually deleted.
func (s *Store) Delete(id string) bool {
	if !s.ready() {
		return false
	}
	res := s.db.Exec(`DELETE FROM qrcodes WHERE id = ?`, id)
	if res.Error != nil {
		s.log.Error("deleting record", "id", id, "error", res.Error)
		return false
	}
	return res.RowsAffected > 0
}

// ListAll returns every record, newest first. Undecodable rows are logged
// and skipped, never surfaced.
func (s *Store) ListAll() []model.Record {
	if !s.ready() {
		return nil
	}
	rows, err := s.db.Raw(`SELECT ` + recordColumns + ` FROM qrcodes ORDER BY created_at DESC`).Rows()
	if err != nil {
		s.log.Error("listing records", "error", err)
		return nil
	}
	defer rows.Close()

	var out []model.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			s.log.Warn("skipping undecodable record", "error", err)
			continue
		}
		out = append(out, r)
	}
	return out
}

// Search filters the history by keyword (substring over payload and notes),
// kind (exact) and tags (every requested tag must appear), newest first.
// It returns one page plus the total match count across all pages.
func (s *Store) Search(keyword string, kind model.Kind, tags []string, limit, offset int) ([]model.Record, int) {
	if !s.ready() {
		return nil, 0
	}

	where := []string{"1=1"}
	var args []any
	if keyword != "" {
		where = append(where, "(data LIKE ? OR notes LIKE ?)")
		pattern := "%" + keyword + "%"
		args = append(args, pattern, pattern)
	}
	if kind != "" {
		where = append(where, "qr_type = ?")
		args = append(args, string(kind))
	}
	// Tags are stored as a serialized JSON list; matching the quoted form
	// keeps "art" from matching "smart".
	for _, tag := range tags {
		where = append(where, "tags LIKE ?")
		args = append(args, `%"`+tag+`"%`)
	}
	cond := strings.Join(where, " AND ")

	total := 0
	if err := s.db.Raw(`SELECT COUNT(*) FROM qrcodes WHERE `+cond, args...).Scan(&total).Error; err != nil {
		s.log.Error("counting search results", "error", err)
		return nil, 0
	}

	if limit <= 0 {
		limit = 50
	}
	pageArgs := append(append([]any{}, args...), limit, offset)
	rows, err := s.db.Raw(`SELECT `+recordColumns+` FROM qrcodes WHERE `+cond+
		` ORDER BY created_at DESC LIMIT ? OFFSET ?`, pageArgs...).Rows()
	if err != nil {
		s.log.Error("searching records", "error", err)
		return nil, 0
	}
	defer rows.Close()

	var out []model.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			s.log.Warn("skipping undecodable record", "error", err)
			continue
		}
		out = append(out, r)
	}
	return out, total
}
