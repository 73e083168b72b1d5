package cloud

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSlug(t *testing.T) {
	tests := []struct {
		title   string
		pattern string
	}{
		{"Todo", `^todo-[a-z0-9]{4}$`},
		{"  Hello,, World!! ", `^hello-world-[a-z0-9]{4}$`},
		{"Crème brûlée", `^cr-me-br-l-e-[a-z0-9]{4}$`},
		{"!!!", `^untitled-[a-z0-9]{4}$`},
		{"", `^untitled-[a-z0-9]{4}$`},
		{"Release 2.0", `^release-2-0-[a-z0-9]{4}$`},
	}

	for _, tt := range tests {
		slug := NewSlug(tt.title)
		assert.Regexp(t, regexp.MustCompile(tt.pattern), slug, "title %q", tt.title)
	}
}

func TestNewSlugIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		slug := NewSlug("Todo")
		assert.False(t, seen[slug], "identical titles must still get distinct slugs")
		seen[slug] = true
	}
}
