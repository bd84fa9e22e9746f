package page

import (
	"context"

	"github.com/webtor-io/lazy-embed/services/assets"
)

// Page is the state of a single render: whether the output goes to a feed,
// the reader's locale and the assets enqueued along the way.
type Page struct {
	Feed   bool
	Locale string
	Queue  *assets.Queue
}

type pageKey struct{}

func WithPage(ctx context.Context, p *Page) context.Context {
	return context.WithValue(ctx, pageKey{}, p)
}

// FromContext returns page attached to ctx or an empty one
func FromContext(ctx context.Context) *Page {
	if p, ok := ctx.Value(pageKey{}).(*Page); ok && p != nil {
		return p
	}
	return &Page{}
}

func IsFeed(ctx context.Context) bool {
	return FromContext(ctx).Feed
}
