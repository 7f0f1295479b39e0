package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Expand matches include patterns against root and drops anything matching an
// exclude pattern. Patterns use doublestar syntax with forward slashes.
// Returned paths are slash-separated, relative to root, de-duplicated and
// sorted. Include patterns that matched no regular file are returned in
// missing.
func Expand(root string, include, exclude []string) (files []string, missing []string, err error) {
	for _, p := range exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	fsys := os.DirFS(root)
	seen := map[string]bool{}
	for _, raw := range include {
		pattern := strings.TrimPrefix(strings.TrimSpace(raw), "./")
		if pattern == "" {
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			return nil, nil, fmt.Errorf("invalid include pattern %q", raw)
		}
		hits, gerr := doublestar.Glob(fsys, pattern)
		if gerr != nil {
			return nil, nil, fmt.Errorf("expand include %q: %w", raw, gerr)
		}
		matched := false
		for _, hit := range hits {
			if !isRegularFile(fsys, hit) || excluded(hit, exclude) {
				continue
			}
			matched = true
			seen[hit] = true
		}
		if !matched {
			missing = append(missing, raw)
		}
	}
	files = make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, missing, nil
}

func excluded(rel string, exclude []string) bool {
	for _, p := range exclude {
		p = strings.TrimPrefix(strings.TrimSpace(p), "./")
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		// A bare directory pattern excludes everything beneath it.
		if ok, _ := doublestar.Match(path.Join(p, "**"), rel); ok {
			return true
		}
	}
	return false
}

func isRegularFile(fsys fs.FS, name string) bool {
	st, err := fs.Stat(fsys, name)
	return err == nil && st.Mode().IsRegular()
}
