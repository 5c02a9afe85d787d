// Package paging implements generic traversal of paged provider
// collections: accumulate items across successive pages, then
// deduplicate by a provider supplied identifier field.
package paging

import (
	"context"
	"fmt"
)

// Page is one page of a paged provider response. Next holds the
// provider's next-page marker; an empty Next means the last page.
type Page struct {
	Items []map[string]any
	Next  string
}

// NextFunc fetches the page following p. Returning (nil, nil) ends the
// traversal.
type NextFunc func(ctx context.Context, p *Page) (*Page, error)

// Collect accumulates Items across pages, starting from first and
// following Next markers via next, then deduplicates by the idKey field
// with last-write-wins semantics: when the same identifier occurs on
// several pages, the later page's item replaces the earlier one while
// keeping its first-seen position. Items lacking idKey are kept as-is.
//
// Transient provider failures propagate unwrapped; no retries happen at
// this layer.
func Collect(ctx context.Context, first *Page, next NextFunc, idKey string) ([]map[string]any, error) {
	var items []map[string]any

	for page := first; page != nil; {
		items = append(items, page.Items...)
		if page.Next == "" {
			break
		}

		np, err := next(ctx, page)
		if err != nil {
			return nil, err
		}
		page = np
	}

	return DedupeByKey(items, idKey), nil
}

// DedupeByKey removes duplicate items sharing the same identifier
// value. The last occurrence wins but keeps the position of the first,
// so the result order is deterministic and follows first appearance.
// Items whose identifier is missing are never merged.
func DedupeByKey(items []map[string]any, idKey string) []map[string]any {
	if len(items) == 0 {
		return items
	}

	position := make(map[string]int, len(items))
	deduped := make([]map[string]any, 0, len(items))

	for _, item := range items {
		id, ok := item[idKey]
		if !ok {
			deduped = append(deduped, item)
			continue
		}

		key := fmt.Sprint(id)
		if at, seen := position[key]; seen {
			deduped[at] = item
			continue
		}

		position[key] = len(deduped)
		deduped = append(deduped, item)
	}

	return deduped
}
