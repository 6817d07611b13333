// Package export writes scan results and history records to interchange
// formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/qrstudio/qrstudio/internal/model"
	"github.com/qrstudio/qrstudio/internal/scan"
)

// scanCSVHeader is fixed; downstream spreadsheets key on these names.
var scanCSVHeader = []string{"source", "type", "data", "confidence", "timestamp"}

// ScanResultsCSV writes scan results as CSV with the fixed header.
func ScanResultsCSV(w io.Writer, results []scan.Result) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(scanCSVHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range results {
		row := []string{
			r.Source,
			r.Format,
			r.Data,
			strconv.FormatFloat(r.Confidence, 'f', 2, 64),
			r.Timestamp,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ScanResultsJSON writes scan results as indented JSON. Non-ASCII payloads
// stay readable: HTML escaping is off.
func ScanResultsJSON(w io.Writer, results []scan.Result) error {
	if results == nil {
		results = []scan.Result{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(results)
}

// ScanResultsText writes a plain-text dump, one block per result.
func ScanResultsText(w io.Writer, results []scan.Result) error {
	for i, r := range results {
		var b strings.Builder
		fmt.Fprintf(&b, "Result %d\n", i+1)
		fmt.Fprintf(&b, "  Source:     %s\n", r.Source)
		fmt.Fprintf(&b, "  Type:       %s\n", r.Format)
		fmt.Fprintf(&b, "  Data:       %s\n", r.Data)
		fmt.Fprintf(&b, "  Confidence: %.2f\n", r.Confidence)
		fmt.Fprintf(&b, "  Timestamp:  %s\n", r.Timestamp)
		if r.Orientation != "" {
			fmt.Fprintf(&b, "  Orientation: %s\n", r.Orientation)
		}
		b.WriteString("\n")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return fmt.Errorf("writing text dump: %w", err)
		}
	}
	return nil
}

// HistoryJSON writes the full record history as indented JSON.
func HistoryJSON(w io.Writer, records []model.Record) error {
	if records == nil {
		records = []model.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}

// ScanResultsFile writes results to path, picking the format from the
// extension: .csv, .json, anything else plain text.
func ScanResultsFile(path string, results []scan.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ScanResultsCSV(f, results)
	case ".json":
		return ScanResultsJSON(f, results)
	default:
		return ScanResultsText(f, results)
	}
}
