package driver

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// skipped directories: build output, fetched deps, VCS and editor dirs.
func skipDir(name string) bool {
	if name == "_build" || name == "deps" || name == "node_modules" {
		return true
	}
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// ListSourceFiles returns the sorted list of Elixir source files under
// dir: *.ex and *.exs, excluding _build, deps and hidden directories.
func ListSourceFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".ex") || strings.HasSuffix(path, ".exs") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// deterministic scan order
	sort.Strings(files)
	return files, nil
}
