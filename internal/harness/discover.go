package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// SuiteNotFoundError is returned when a requested suite path doesn't exist.
type SuiteNotFoundError struct {
	Path string
}

// Error implements the error interface.
func (e *SuiteNotFoundError) Error() string {
	return fmt.Sprintf("suite path %q does not exist", e.Path)
}

// FindSuites expands paths into suite files. Files are kept as given;
// directories contribute their *.yaml and *.yml files (not recursively),
// sorted by name. Duplicates are dropped, keeping the first occurrence.
func FindSuites(paths []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			out = append(out, clean)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			return nil, &SuiteNotFoundError{Path: path}
		}
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var files []string
		for _, entry := range entries {
			switch filepath.Ext(entry.Name()) {
			case ".yaml", ".yml":
				if !entry.IsDir() {
					files = append(files, filepath.Join(path, entry.Name()))
				}
			}
		}
		sort.Strings(files)
		for _, f := range files {
			add(f)
		}
	}
	return out, nil
}
