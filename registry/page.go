package registry

import (
	"encoding/base64"
	"fmt"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Page represents a single page of results with an optional cursor for fetching
// the next page.
//
// Items is never nil; NewPage normalizes nil input to an empty slice for
// ergonomics at call sites. NextCursor is nil on the final page.
type Page[T any] struct {
	Items      []T
	NextCursor *string
}

// PageOption configures a Page constructed via NewPage.
type PageOption[T any] func(*Page[T])

// WithNextCursor sets the next cursor on the Page to indicate that more
// results are available.
func WithNextCursor[T any](cursor string) PageOption[T] {
	return func(p *Page[T]) {
		p.NextCursor = &cursor
	}
}

// NewPage constructs a Page with the provided items and optional configuration
// options. If items is nil, it will be replaced with an empty slice.
func NewPage[T any](items []T, opts ...PageOption[T]) Page[T] {
	if items == nil {
		items = make([]T, 0)
	}
	p := Page[T]{
		Items:      items,
		NextCursor: nil,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// encodeCursor turns an offset into the opaque token handed to callers.
func encodeCursor(offset int) string {
	return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

// decodeCursor parses a token produced by encodeCursor. A nil cursor means
// "start from the beginning". size is the current collection length; offsets
// past it are stale.
func decodeCursor(cursor *string, size int) (int, error) {
	if cursor == nil {
		return 0, nil
	}
	raw, err := base64.StdEncoding.DecodeString(*cursor)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCursor, *cursor)
	}
	offset, err := strconv.Atoi(string(raw))
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCursor, *cursor)
	}
	if offset > size {
		return 0, fmt.Errorf("%w: %q is past the end of the collection", ErrInvalidCursor, *cursor)
	}
	return offset, nil
}

// paginate slices an ordered collection in insertion order. A non-positive
// limit returns everything from the cursor onward.
func paginate[V any](m *orderedmap.OrderedMap[string, V], limit int, cursor *string) (Page[V], error) {
	size := m.Len()
	start, err := decodeCursor(cursor, size)
	if err != nil {
		return Page[V]{}, err
	}
	end := size
	if limit > 0 && limit < size-start {
		end = start + limit
	}

	items := make([]V, 0, end-start)
	i := 0
	for pair := m.Oldest(); pair != nil && i < end; pair = pair.Next() {
		if i >= start {
			items = append(items, pair.Value)
		}
		i++
	}

	if end < size {
		return NewPage(items, WithNextCursor[V](encodeCursor(end))), nil
	}
	return NewPage(items), nil
}
