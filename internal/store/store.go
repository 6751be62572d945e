package store

import (
	"context"

	"github.com/lnkday/page-engine/internal/page"
)

// Store defines the interface for page record storage operations
type Store interface {
	// Page operations
	Create(ctx context.Context, p *page.Page) error
	Get(ctx context.Context, id string) (*page.Page, error)
	GetBySlug(ctx context.Context, slug string) (*page.Page, error)
	List(ctx context.Context) ([]*page.Page, error)
	Save(ctx context.Context, p *page.Page) error
	Delete(ctx context.Context, slug string) error

	// Counter increment; the rollups themselves are computed elsewhere
	IncrementViews(ctx context.Context, id string, unique bool) error

	// Lifecycle
	Close() error
}
