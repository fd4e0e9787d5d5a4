// Package discovery implements the CLI's zero-argument bulk mode: a
// recursive scan of a directory tree for files XmlCleanup can process.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// defaultPatterns matches XmlCleanup.cpp's findXmlAndXsdFiles extension
// check, expressed as doublestar globs so a caller can extend the set
// (e.g. "**/*.config") without a second discovery code path.
var defaultPatterns = []string{"**/*.xml", "**/*.xsd"}

// FindXMLFiles recursively walks root and returns every regular file
// matching patterns (doublestar.Match against the root-relative path),
// sorted for deterministic processing order. An unreadable root returns
// an error rather than a partial result, matching the original's
// exists/is_directory guard.
func FindXMLFiles(root string, patterns []string) ([]string, error) {
	if patterns == nil {
		patterns = defaultPatterns
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("discovery: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("discovery: %s is not a directory", root)
	}

	var matches []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// Fault-tolerant: skip unreadable entries rather than aborting
			// the whole walk.
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		for _, pattern := range patterns {
			ok, err := doublestar.Match(pattern, rel)
			if err == nil && ok {
				matches = append(matches, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovery: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}
