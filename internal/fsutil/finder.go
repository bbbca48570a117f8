// Package fsutil provides the file discovery helpers used to locate build
// inputs: tool jars, source APKs, and files matched by glob pattern.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"sort"
)

// FindByPattern recursively searches rootPath for files whose base name
// matches the glob pattern (filepath.Match syntax). Results are sorted for
// deterministic ordering.
func FindByPattern(rootPath, pattern string) ([]string, error) {
	if pattern == "" {
		panic("pattern must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ok, matchErr := filepath.Match(pattern, d.Name())
		if matchErr != nil {
			return matchErr
		}
		if ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// FirstMatch returns the first file directly inside dir whose name matches
// the glob pattern, or "" when nothing matches or the directory does not
// exist.
func FirstMatch(dir, pattern string) string {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil || len(matches) == 0 {
		return ""
	}
	sort.Strings(matches)
	return matches[0]
}
