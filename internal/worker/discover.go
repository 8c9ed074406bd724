package worker

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensions are the claim file extensions discovered in an input
// directory. Matching is case-insensitive and a trailing .gz is allowed
// on any of them.
var DefaultExtensions = []string{".txt", ".edi", ".x12", ".837"}

// Discover returns all claim files directly under inputDir with one of
// the given extensions (DefaultExtensions when nil), sorted by name.
func Discover(inputDir string, extensions []string) ([]string, error) {
	if extensions == nil {
		extensions = DefaultExtensions
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if matchesExtension(e.Name(), extensions) {
			files = append(files, filepath.Join(inputDir, e.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}

func matchesExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	lower = strings.TrimSuffix(lower, ".gz")
	for _, ext := range extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
