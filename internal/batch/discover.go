package batch

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// Extension is the case-sensitive suffix of candidate files.
const Extension = ".epub"

// Discover walks each root recursively and returns the regular files whose
// name ends in Extension, in walk order. Roots are walked in the order given.
func Discover(roots ...string) ([]string, error) {
	var paths []string
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() && strings.HasSuffix(d.Name(), Extension) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}
	return paths, nil
}
