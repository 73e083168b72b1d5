package models

import (
	"strings"
	"time"
)

// MaxPinned is the system-wide cap on pinned notes.
const MaxPinned = 4

// Note is the durable local record of a note. Timestamps are epoch
// milliseconds. CloudSlug is set if and only if the note is currently
// shared; an empty string is never persisted.
type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
	CloudSlug string `json:"cloudSlug,omitempty"`
	Pinned    bool   `json:"pinned,omitempty"`
}

// Shared reports whether the note currently has a public copy.
func (n *Note) Shared() bool {
	return n.CloudSlug != ""
}

// Clone returns a copy of the note so stored records cannot be
// mutated through returned pointers.
func (n *Note) Clone() *Note {
	c := *n
	return &c
}

// NormalizeTitle produces the uniqueness key for titles: trimmed and
// lowercased. No two local notes may share a normalized title.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// NowMillis is the timestamp source for note records.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
