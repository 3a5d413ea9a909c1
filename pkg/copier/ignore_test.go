package copier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchIgnore(t *testing.T) {
	tests := []struct {
		name     string
		rel      string
		isDir    bool
		patterns []string
		want     bool
	}{
		{name: "no patterns", rel: "a/b.txt", want: false},
		{name: "base name", rel: "a/.git", isDir: true, patterns: []string{".git"}, want: true},
		{name: "base name on file", rel: "x/node_modules", patterns: []string{"node_modules"}, want: true},
		{name: "extension", rel: "logs/app.log", patterns: []string{"*.log"}, want: true},
		{name: "extension miss", rel: "logs/app.txt", patterns: []string{"*.log"}, want: false},
		{name: "directory pattern on dir", rel: "src/build", isDir: true, patterns: []string{"build/"}, want: true},
		{name: "directory pattern on file", rel: "src/build", patterns: []string{"build/"}, want: false},
		{name: "directory path pattern", rel: "src/test/fixtures", isDir: true, patterns: []string{"src/test/fixtures/"}, want: true},
		{name: "path glob", rel: "docs/a.tmp", patterns: []string{"docs/*.tmp"}, want: true},
		{name: "path glob other dir", rel: "src/a.tmp", patterns: []string{"docs/*.tmp"}, want: false},
		{name: "recursive prefix", rel: "a/b/c/x.tmp", patterns: []string{"**/*.tmp"}, want: true},
		{name: "second pattern matches", rel: "dist", isDir: true, patterns: []string{"*.log", "dist"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got := matchIgnore(tt.rel, tt.isDir, tt.patterns)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidatePattern(t *testing.T) {
	tests := []struct {
		pattern string
		wantErr bool
	}{
		{pattern: "*.log"},
		{pattern: "build/"},
		{pattern: "**/*.tmp"},
		{pattern: "docs/[a-z]*.md"},
		{pattern: "", wantErr: true},
		{pattern: "[", wantErr: true},
		{pattern: "**/[", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			err := ValidatePattern(tt.pattern)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
