package paging

import (
	"context"
	"errors"
	"testing"
)

// pagesNext returns a NextFunc serving the given pages in order after
// the first.
func pagesNext(pages []*Page) NextFunc {
	i := 0
	return func(ctx context.Context, p *Page) (*Page, error) {
		if i >= len(pages) {
			return nil, nil
		}
		next := pages[i]
		i++
		return next, nil
	}
}

func item(id, payload string) map[string]any {
	return map[string]any{"id": id, "payload": payload}
}

func TestCollect(t *testing.T) {
	t.Run("Deduplicates Across Pages Last Write Wins", func(t *testing.T) {
		first := &Page{Items: []map[string]any{item("a", "p1"), item("b", "p1")}, Next: "page2"}
		rest := []*Page{
			{Items: []map[string]any{item("c", "p2"), item("d", "p2")}, Next: "page3"},
			{Items: []map[string]any{item("e", "p3"), item("b", "p3")}},
		}

		got, err := Collect(context.Background(), first, pagesNext(rest), "id")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		wantIDs := []string{"a", "b", "c", "d", "e"}
		if len(got) != len(wantIDs) {
			t.Fatalf("expected %d items, got %d", len(wantIDs), len(got))
		}
		for i, id := range wantIDs {
			if got[i]["id"] != id {
				t.Errorf("item %d: expected id %s, got %v", i, id, got[i]["id"])
			}
		}

		// the page-3 version of the duplicate wins, in its first-seen slot
		if got[1]["payload"] != "p3" {
			t.Errorf("expected duplicate to carry page-3 payload, got %v", got[1]["payload"])
		}
	})

	t.Run("Stops Without Next Marker", func(t *testing.T) {
		first := &Page{Items: []map[string]any{item("a", "p1")}}

		called := false
		next := func(ctx context.Context, p *Page) (*Page, error) {
			called = true
			return nil, nil
		}

		got, err := Collect(context.Background(), first, next, "id")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if called {
			t.Error("continuation must not run when no next marker is present")
		}
		if len(got) != 1 {
			t.Errorf("expected 1 item, got %d", len(got))
		}
	})

	t.Run("Stops When Continuation Returns No Page", func(t *testing.T) {
		first := &Page{Items: []map[string]any{item("a", "p1")}, Next: "page2"}

		got, err := Collect(context.Background(), first, pagesNext(nil), "id")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 1 {
			t.Errorf("expected 1 item, got %d", len(got))
		}
	})

	t.Run("Propagates Continuation Errors", func(t *testing.T) {
		first := &Page{Items: []map[string]any{item("a", "p1")}, Next: "page2"}

		wantErr := errors.New("provider failure")
		next := func(ctx context.Context, p *Page) (*Page, error) {
			return nil, wantErr
		}

		if _, err := Collect(context.Background(), first, next, "id"); !errors.Is(err, wantErr) {
			t.Errorf("expected provider error to propagate, got %v", err)
		}
	})

	t.Run("Nil First Page", func(t *testing.T) {
		got, err := Collect(context.Background(), nil, pagesNext(nil), "id")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no items, got %d", len(got))
		}
	})
}

func TestDedupeByKey(t *testing.T) {
	t.Run("Items Without Identifier Are Kept", func(t *testing.T) {
		items := []map[string]any{
			{"payload": "one"},
			item("a", "first"),
			{"payload": "two"},
			item("a", "second"),
		}

		got := DedupeByKey(items, "id")

		if len(got) != 3 {
			t.Fatalf("expected 3 items, got %d", len(got))
		}
		if got[0]["payload"] != "one" || got[2]["payload"] != "two" {
			t.Error("expected identifier-less items in original positions")
		}
		if got[1]["payload"] != "second" {
			t.Errorf("expected last write to win, got %v", got[1]["payload"])
		}
	})

	t.Run("Empty Input", func(t *testing.T) {
		if got := DedupeByKey(nil, "id"); len(got) != 0 {
			t.Errorf("expected empty result, got %v", got)
		}
	})
}
