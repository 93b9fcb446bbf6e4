package wishlist

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/nexora-storefront/internal/catalog"
	"github.com/angelmondragon/nexora-storefront/internal/notifications"
	"github.com/angelmondragon/nexora-storefront/pkg/storage"
)

var fixedNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newStore(kv storage.KV) (*Store, *notifications.Recorder) {
	rec := notifications.NewRecorder(nil)
	s := NewStore(context.Background(), Params{
		KV:       kv,
		Notifier: rec,
		Now:      func() time.Time { return fixedNow },
	})
	return s, rec
}

func item(id int, name string) catalog.Product {
	return catalog.Product{
		ID:            id,
		Slug:          catalog.Slugify(name),
		Name:          name,
		Brand:         "Acme",
		Price:         2000,
		DiscountPrice: 1500,
		Stock:         4,
		RatingAvg:     4.2,
		ReviewCount:   31,
		Images:        []string{"https://img.example/" + catalog.Slugify(name) + ".jpg", "https://img.example/alt.jpg"},
	}
}

func TestToggleTwiceRestoresMembership(t *testing.T) {
	ctx := context.Background()
	s, rec := newStore(storage.NewMemoryKV())
	p := item(7, "Trail Jacket")

	if !s.Toggle(ctx, p) {
		t.Fatal("expected first toggle to save")
	}
	if !s.IsInWishlist(7) {
		t.Fatal("expected product to be saved")
	}
	if s.Toggle(ctx, p) {
		t.Fatal("expected second toggle to remove")
	}
	if s.IsInWishlist(7) || s.Count() != 0 {
		t.Fatal("expected membership restored to absent")
	}

	notes := rec.Drain()
	if len(notes) != 2 {
		t.Fatalf("expected two notifications, got %+v", notes)
	}
	if notes[0].Title != "Added to wishlist" || notes[0].Description != "Trail Jacket was saved for later." {
		t.Fatalf("unexpected add notification %+v", notes[0])
	}
	if notes[1].Title != "Removed from wishlist" || notes[1].Description != "Trail Jacket was removed from your wishlist." {
		t.Fatalf("unexpected remove notification %+v", notes[1])
	}
}

func TestToggleSnapshotsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(storage.NewMemoryKV())
	s.Toggle(ctx, item(1, "First"))
	s.Toggle(ctx, item(2, "Second"))

	items := s.Items()
	if len(items) != 2 || items[0].ID != 2 || items[1].ID != 1 {
		t.Fatalf("expected newest first, got %+v", items)
	}
	e := items[0]
	if e.Image != "https://img.example/second.jpg" || e.SavedAt != fixedNow.UnixMilli() || e.ReviewCount != 31 {
		t.Fatalf("unexpected snapshot %+v", e)
	}
}

func TestRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	s, rec := newStore(storage.NewMemoryKV())
	s.Toggle(ctx, item(1, "First"))
	s.Toggle(ctx, item(2, "Second"))
	rec.Drain()

	s.Remove(ctx, 99)
	if len(rec.Drain()) != 0 {
		t.Fatal("expected no notification for missing entry")
	}
	s.Remove(ctx, 1)
	if s.IsInWishlist(1) || !s.IsInWishlist(2) {
		t.Fatal("unexpected membership after remove")
	}
	s.Clear(ctx)
	if s.Count() != 0 {
		t.Fatal("expected empty wishlist after clear")
	}
}

func TestPersistenceAndCorruptState(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	s, _ := newStore(kv)
	s.Toggle(ctx, item(3, "Desk Lamp"))

	reloaded, _ := newStore(kv)
	if !reloaded.IsInWishlist(3) {
		t.Fatal("expected entry to survive reload")
	}

	if err := kv.Set(ctx, storage.KeyWishlistItems, `[{"id":`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	broken, _ := newStore(kv)
	if broken.Count() != 0 {
		t.Fatal("expected corrupt wishlist to start empty")
	}
}

type finder map[int]catalog.Product

func (f finder) FindByID(id int) (catalog.Product, bool) {
	p, ok := f[id]
	return p, ok
}

func TestResolvePrefersLiveProduct(t *testing.T) {
	live := item(1, "Live Item")
	live.DiscountPrice = 999
	entries := []Entry{
		entryOf(item(1, "Live Item"), fixedNow),
		entryOf(item(2, "Retired Item"), fixedNow),
	}

	resolved := Resolve(entries, finder{1: live})
	if len(resolved) != 2 {
		t.Fatalf("expected two resolved entries, got %d", len(resolved))
	}
	if !resolved[0].Live || resolved[0].Product.DiscountPrice != 999 {
		t.Fatalf("expected live product for id 1, got %+v", resolved[0])
	}
	if resolved[1].Live || resolved[1].Product.Name != "Retired Item" || len(resolved[1].Product.Images) != 1 {
		t.Fatalf("expected snapshot fallback for id 2, got %+v", resolved[1])
	}
	if got := Products(resolved); got[1].ID != 2 {
		t.Fatalf("unexpected flattened products %+v", got)
	}
}
