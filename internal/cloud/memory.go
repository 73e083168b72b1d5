package cloud

import (
	"context"
	"sync"

	"github.com/zeronotes/sharenote/internal/models"
)

// MemoryPublisher holds shared copies in process memory. Used for
// tests and for running the server without a sharing backend.
type MemoryPublisher struct {
	mu     sync.RWMutex
	copies map[string]*SharedCopy
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{
		copies: make(map[string]*SharedCopy),
	}
}

func (p *MemoryPublisher) Publish(ctx context.Context, title, content, existingSlug string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	slug := existingSlug
	createdAt := models.NowMillis()
	if slug == "" {
		slug = NewSlug(title)
	} else if existing, exists := p.copies[slug]; exists {
		createdAt = existing.CreatedAt
	}

	p.copies[slug] = &SharedCopy{
		Slug:      slug,
		Title:     title,
		Content:   content,
		CreatedAt: createdAt,
	}
	return slug, nil
}

func (p *MemoryPublisher) Fetch(ctx context.Context, slug string) (*SharedCopy, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if copy, exists := p.copies[slug]; exists {
		c := *copy
		return &c, nil
	}
	return nil, ErrNotFound
}

func (p *MemoryPublisher) Remove(ctx context.Context, slug string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.copies, slug)
	return nil
}
