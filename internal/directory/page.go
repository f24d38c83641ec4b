// Package directory fetches users, teams, and services from the remote
// incident-management directory, aggregating paginated list endpoints into
// full collections.
package directory

import (
	"context"
	"fmt"
)

// PageSize is the fixed page size used for every directory list request.
const PageSize = 100

// Page is one bounded chunk of a directory list response.
type Page[T any] struct {
	Items  []T
	More   bool
	Offset int
	Limit  int
}

// PageFunc fetches a single page at the given offset.
type PageFunc[T any] func(ctx context.Context, limit, offset int) (Page[T], error)

// FetchError reports a failed page request during aggregation. No partial
// result accompanies it; the aggregation is all-or-nothing.
type FetchError struct {
	Resource string
	Offset   int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("directory fetch failed: resource=%s offset=%d: %v", e.Resource, e.Offset, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// FetchAll drains a paginated list endpoint. Pages are requested strictly in
// order at a fixed limit, starting at offset 0, until a page reports no
// continuation. Items are returned in server order, never deduplicated or
// sorted. Any page failure aborts the whole aggregation and no items are
// returned. Retry policy belongs to the page fetcher, not this loop.
func FetchAll[T any](ctx context.Context, resource string, fetch PageFunc[T]) ([]T, error) {
	var out []T
	for offset := 0; ; offset += PageSize {
		page, err := fetch(ctx, PageSize, offset)
		if err != nil {
			return nil, &FetchError{Resource: resource, Offset: offset, Err: err}
		}
		out = append(out, page.Items...)
		if !page.More {
			return out, nil
		}
	}
}
