package history

import (
	"context"
	"testing"

	"github.com/angelmondragon/nexora-storefront/internal/catalog"
	"github.com/angelmondragon/nexora-storefront/pkg/storage"
)

func TestRecordViewKeepsCappedMRUWithoutDuplicates(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(ctx, Params{KV: storage.NewMemoryKV()})

	for id := 1; id <= 20; id++ {
		tr.RecordView(ctx, id)
	}
	got := tr.RecordView(ctx, 10)

	if len(got) != ViewedCap {
		t.Fatalf("expected %d ids, got %d", ViewedCap, len(got))
	}
	if got[0] != 10 {
		t.Fatalf("expected most recent first, got %v", got)
	}
	seen := map[int]bool{}
	for _, id := range got {
		if seen[id] {
			t.Fatalf("duplicate id %d in %v", id, got)
		}
		seen[id] = true
	}
	// 20..5 after the loop, then 10 moves to the front and 5 stays last.
	if got[1] != 20 || got[len(got)-1] != 5 {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestTrackerPersists(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	NewTracker(ctx, Params{KV: kv}).RecordView(ctx, 3)

	if got := NewTracker(ctx, Params{KV: kv}).ReadViewed(); len(got) != 1 || got[0] != 3 {
		t.Fatalf("expected persisted id 3, got %v", got)
	}

	if err := kv.Set(ctx, storage.KeyRecentlyViewed, `"oops"`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if got := NewTracker(ctx, Params{KV: kv}).ReadViewed(); len(got) != 0 {
		t.Fatalf("expected malformed state to read empty, got %v", got)
	}
}

type finder map[int]catalog.Product

func (f finder) FindByID(id int) (catalog.Product, bool) {
	p, ok := f[id]
	return p, ok
}

func TestProductsResolvesInOrder(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(ctx, Params{KV: storage.NewMemoryKV()})
	for _, id := range []int{1, 2, 3, 4} {
		tr.RecordView(ctx, id)
	}
	catalogue := finder{
		1: {ID: 1, Name: "One"},
		2: {ID: 2, Name: "Two"},
		4: {ID: 4, Name: "Four"},
	}

	got := tr.Products(catalogue, 4, 0)
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 1 {
		t.Fatalf("unexpected products %+v", got)
	}
	if limited := tr.Products(catalogue, 0, 1); len(limited) != 1 || limited[0].ID != 4 {
		t.Fatalf("unexpected limited products %+v", limited)
	}
}
