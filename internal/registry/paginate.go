package registry

import (
	"context"
	"fmt"
)

// DefaultMaxPages bounds a single drain. ECR pages hold up to 1000 entries,
// so this is far above any real registry.
const DefaultMaxPages = 10000

// Page is one response of a cursor-paginated listing.
type Page[T any] struct {
	Items      []T
	NextCursor *string
}

// FetchFunc fetches the page starting at cursor. A nil cursor requests the
// first page. Every other request field is fixed by the closure.
type FetchFunc[T any] func(ctx context.Context, cursor *string) (Page[T], error)

// DrainOptions names the operation for error messages and bounds the drain.
type DrainOptions struct {
	// Op is used in RemoteError, e.g. "list images".
	Op string
	// EmptyMessage is the NotFoundError message for an empty page.
	EmptyMessage string
	// MaxPages defaults to DefaultMaxPages when zero.
	MaxPages int
}

// Drain fetches every page and returns their items concatenated in page
// order. An empty page at any position fails with ErrNotFound, a fetch
// failure stops the drain with a RemoteError. No partial result is returned.
func Drain[T any](ctx context.Context, fetch FetchFunc[T], opts DrainOptions) ([]T, error) {
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var items []T
	var cursor *string
	seen := make(map[string]struct{})

	for pages := 0; ; pages++ {
		if pages >= maxPages {
			return nil, fmt.Errorf("%s: more than %d pages: %w", opts.Op, maxPages, ErrPaginationRunaway)
		}

		page, err := fetch(ctx, cursor)
		if err != nil {
			return nil, &RemoteError{Op: opts.Op, Err: err}
		}

		if len(page.Items) == 0 {
			return nil, &NotFoundError{Message: opts.EmptyMessage}
		}

		items = append(items, page.Items...)

		if page.NextCursor == nil {
			return items, nil
		}

		next := *page.NextCursor
		if _, dup := seen[next]; dup {
			return nil, fmt.Errorf("%s: cursor %q returned twice: %w", opts.Op, next, ErrPaginationRunaway)
		}
		seen[next] = struct{}{}
		cursor = &next
	}
}
