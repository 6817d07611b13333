package batch

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/qrstudio/qrstudio/internal/model"
)

// Entry is one batch input line before it becomes a record.
type Entry struct {
	Data  string
	Tags  []string
	Notes string
}

// LoadEntries reads batch input from a file. Files ending in .csv are
// parsed as payload[,tags[,notes]] rows with tags split on ';'; anything
// else is one payload per line. Blank lines and '#' comments are skipped.
func LoadEntries(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening batch input %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ParseCSV(f)
	}
	return ParseLines(f)
}

// ParseCSV decodes payload[,tags[,notes]] rows.
func ParseCSV(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var entries []Entry
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing csv input: %w", err)
		}
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" || strings.HasPrefix(row[0], "#") {
			continue
		}
		entry := Entry{Data: strings.TrimSpace(row[0])}
		if len(row) > 1 && row[1] != "" {
			for _, tag := range strings.Split(row[1], ";") {
				if tag = strings.TrimSpace(tag); tag != "" {
					entry.Tags = append(entry.Tags, tag)
				}
			}
		}
		if len(row) > 2 {
			entry.Notes = strings.TrimSpace(row[2])
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ParseLines decodes one payload per line.
func ParseLines(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, Entry{Data: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading batch input: %w", err)
	}
	return entries, nil
}

// Records turns entries into records, all sharing the given style base.
// The base's payload-specific fields are replaced per entry.
func Records(entries []Entry, base model.Record) []model.Record {
	out := make([]model.Record, 0, len(entries))
	for _, e := range entries {
		rec := base
		rec.ID = model.NewID(e.Data)
		rec.Data = e.Data
		rec.Tags = e.Tags
		rec.Notes = e.Notes
		rec.CreatedAt = ""
		rec.Normalize()
		out = append(out, rec)
	}
	return out
}
