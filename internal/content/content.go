// Package content interprets note content on behalf of the rest of the
// system, which otherwise treats it as an opaque blob. Notes carry
// markdown text.
package content

import (
	"strings"
	"unicode"
)

// Inspector answers the one question the save/share preconditions need
// from the editor side: is this content effectively empty?
type Inspector interface {
	IsEmpty(content string) bool
}

// MarkdownInspector treats content as empty when it has no visible
// text and no embedded media. Markdown scaffolding alone (hyphens,
// heading markers, blank list items) does not count as text.
type MarkdownInspector struct{}

func (MarkdownInspector) IsEmpty(content string) bool {
	if strings.Contains(content, "![") || strings.Contains(strings.ToLower(content), "<img") {
		return false
	}
	for _, r := range content {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
