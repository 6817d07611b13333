package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".gif":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// DiscoverImageFiles expands the given arguments into a flat list of image
// files. Directory arguments are walked recursively; plain files pass
// through regardless of extension so an explicit argument is never second-
// guessed.
func DiscoverImageFiles(args []string) ([]string, error) {
	var imageFiles []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if !info.IsDir() {
			imageFiles = append(imageFiles, arg)
			continue
		}

		err = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			if imageExtensions[strings.ToLower(filepath.Ext(path))] {
				imageFiles = append(imageFiles, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", arg, err)
		}
	}
	return imageFiles, nil
}
