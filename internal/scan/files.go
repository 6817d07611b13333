package scan

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/disintegration/imaging"
)

// FileScanner decodes QR symbols from image files.
type FileScanner struct {
	// MinConfidence drops results scored below it. Above 0.5 the scanner
	// also preprocesses more aggressively before decoding.
	MinConfidence float64

	Log *slog.Logger
}

// NewFileScanner creates a scanner with the given confidence floor.
func NewFileScanner(minConfidence float64, log *slog.Logger) *FileScanner {
	if log == nil {
		log = slog.Default()
	}
	return &FileScanner{MinConfidence: minConfidence, Log: log}
}

// ScanFile decodes every readable symbol in one image file.
func (s *FileScanner) ScanFile(path string) ([]Result, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("image file not found: %s: %w", path, err)
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading image %s: %w", path, err)
	}

	prepared := imaging.Grayscale(img)
	if s.MinConfidence > 0.5 {
		// A strict floor means the caller cares about marginal symbols, so
		// spend extra work cleaning the frame up first.
		prepared = imaging.AdjustContrast(prepared, 20)
		prepared = imaging.Blur(prepared, 0.5)
	}

	results := decodeImage(prepared, path)
	if len(results) == 0 {
		// Preprocessing can also destroy an otherwise clean symbol.
		results = decodeImage(img, path)
	}

	filtered := results[:0]
	for _, r := range results {
		if r.Confidence >= s.MinConfidence {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// ScanFiles decodes a list of files. Unreadable files are logged and
// skipped so one bad path never sinks the whole scan.
func (s *FileScanner) ScanFiles(paths []string) []Result {
	var out []Result
	for _, path := range paths {
		results, err := s.ScanFile(path)
		if err != nil {
			s.Log.Warn("skipping unreadable image", "path", path, "error", err)
			continue
		}
		out = append(out, results...)
	}
	return out
}
