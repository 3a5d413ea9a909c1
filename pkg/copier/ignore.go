package copier

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// ValidatePattern checks that pattern is a usable ignore pattern.
func ValidatePattern(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return fmt.Errorf("empty pattern")
	}

	trimmed := strings.TrimSuffix(strings.TrimPrefix(filepath.ToSlash(pattern), "**/"), "/")
	if _, err := path.Match(trimmed, "probe"); err != nil {
		return fmt.Errorf("invalid pattern syntax %q: %w", pattern, err)
	}
	return nil
}

// matchIgnore reports which pattern, if any, excludes the entry at rel
// (slash separated, relative to the source root).
//
//	name        base name of any file or directory
//	*.log       extension glob on the base name
//	build/      directories only, at any level
//	docs/*.tmp  glob on the full relative path
//	**/*.tmp    glob on the base name at any level
func matchIgnore(rel string, isDir bool, patterns []string) (string, bool) {
	rel = filepath.ToSlash(rel)
	base := path.Base(rel)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)

		if strings.HasSuffix(pattern, "/") {
			if !isDir {
				continue
			}
			dirPattern := strings.TrimSuffix(pattern, "/")
			if matched, _ := path.Match(dirPattern, base); matched {
				return pattern, true
			}
			if matched, _ := path.Match(dirPattern, rel); matched {
				return pattern, true
			}
			continue
		}

		if strings.HasPrefix(pattern, "**/") {
			if matched, _ := path.Match(strings.TrimPrefix(pattern, "**/"), base); matched {
				return pattern, true
			}
			continue
		}

		if strings.Contains(pattern, "/") {
			if matched, _ := path.Match(pattern, rel); matched {
				return pattern, true
			}
			continue
		}

		if matched, _ := path.Match(pattern, base); matched {
			return pattern, true
		}
	}

	return "", false
}
