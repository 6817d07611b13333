package store

import (
	"database/sql"

	"github.com/qrstudio/qrstudio/internal/model"
)

// scanRecord decodes one row of recordColumns. Everything beyond id and
// payload is optional: nulls and malformed values degrade to the documented
// defaults through model.FromMap, so rows written by older versions of the
// schema still load.
func scanRecord(rows *sql.Rows) (model.Record, error) {
	var (
		id, data       string
		kind           sql.NullString
		version        sql.NullInt64
		ec             sql.NullString
		size, border   sql.NullInt64
		fg, bg         sql.NullString
		logoPath       sql.NullString
		logoScale      any
		gradStart      sql.NullString
		gradEnd        sql.NullString
		gradType       sql.NullString
		createdAt      sql.NullString
		tags, notes    sql.NullString
		outputFormat   sql.NullString
	)
	if err := rows.Scan(&id, &data, &kind, &version, &ec, &size, &border,
		&fg, &bg, &logoPath, &logoScale, &gradStart, &gradEnd, &gradType,
		&createdAt, &tags, &notes, &outputFormat); err != nil {
		return model.Record{}, err
	}

	m := map[string]any{
		"id":      id,
		"data":    data,
		"qr_type": kind.String,
		"version": int(version.Int64),
	}
	if ec.Valid {
		m["error_correction"] = ec.String
	}
	if size.Valid {
		m["size"] = int(size.Int64)
	}
	if border.Valid {
		m["border"] = int(border.Int64)
	}
	if fg.Valid && fg.String != "" {
		m["foreground_color"] = fg.String
	}
	if bg.Valid && bg.String != "" {
		m["background_color"] = bg.String
	}
	m["logo_path"] = logoPath.String
	if b, ok := logoScale.([]byte); ok {
		logoScale = string(b)
	}
	m["logo_scale"] = logoScale
	m["gradient_start"] = gradStart.String
	m["gradient_end"] = gradEnd.String
	if gradType.Valid && gradType.String != "" {
		m["gradient_type"] = gradType.String
	}
	m["created_at"] = createdAt.String
	m["tags"] = tags.String
	m["notes"] = notes.String
	if outputFormat.Valid {
		m["output_format"] = outputFormat.String
	}

	return model.FromMap(m), nil
}
