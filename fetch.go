package choices

import "context"

// Page is one response of a Fetcher. Total is optional; when nil the last
// known total is kept, or the result length when none is known.
type Page struct {
	Total  *int     `json:"total,omitempty"`
	Result []Option `json:"result"`
}

// Fetcher retrieves a window of remote options matching search.
type Fetcher interface {
	Fetch(ctx context.Context, search string, offset, limit int) (*Page, error)
}

// FetcherFunc adapts a function to Fetcher. A nil FetcherFunc behaves like
// a missing fetcher.
type FetcherFunc func(ctx context.Context, search string, offset, limit int) (*Page, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, search string, offset, limit int) (*Page, error) {
	if f == nil {
		return nil, ErrMissingFetcher
	}
	return f(ctx, search, offset, limit)
}

// Resolver looks options up by id. Unknown ids may simply be absent from
// the result.
type Resolver interface {
	Resolve(ctx context.Context, ids []OptionID) ([]Option, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, ids []OptionID) ([]Option, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(ctx context.Context, ids []OptionID) ([]Option, error) {
	if f == nil {
		return nil, nil
	}
	return f(ctx, ids)
}

// PageTotal is a convenience for building a Page total.
func PageTotal(n int) *int { return &n }
