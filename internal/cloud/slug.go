package cloud

import (
	"math/rand"
	"strings"
)

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
const suffixLength = 4

// NewSlug derives a URL-safe identifier from a title: lowercase, runs
// of non-alphanumeric characters collapsed to a single hyphen, leading
// and trailing hyphens stripped, "untitled" when nothing is left. A
// short random suffix keeps slugs globally unique even for identical
// titles.
func NewSlug(title string) string {
	base := slugify(title)
	if base == "" {
		base = "untitled"
	}

	suffix := make([]byte, suffixLength)
	for i := range suffix {
		suffix[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return base + "-" + string(suffix)
}

func slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // swallow leading hyphens
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
