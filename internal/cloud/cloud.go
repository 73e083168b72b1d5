package cloud

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Fetch for a slug with no shared copy.
var ErrNotFound = errors.New("shared note not found")

// SharedCopy is the publicly fetchable snapshot of a note, keyed by
// slug. It only changes when the owner re-shares.
type SharedCopy struct {
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
}

// Publisher is the cloud document store behind the share feature.
//
// Publish with an empty existingSlug creates a new shared copy under a
// fresh slug; with a non-empty existingSlug it overwrites that record
// in place and returns the same slug, so re-sharing never changes a
// note's public URL.
type Publisher interface {
	Publish(ctx context.Context, title, content, existingSlug string) (string, error)
	Fetch(ctx context.Context, slug string) (*SharedCopy, error)
	Remove(ctx context.Context, slug string) error
}
