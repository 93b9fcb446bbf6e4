package wishlist

import (
	"time"

	"github.com/angelmondragon/nexora-storefront/internal/catalog"
)

// Entry is the product snapshot saved to the wishlist.
type Entry struct {
	ID            int     `json:"id"`
	Slug          string  `json:"slug"`
	Name          string  `json:"name"`
	Brand         string  `json:"brand"`
	DiscountPrice int     `json:"discountPrice"`
	Price         int     `json:"price"`
	RatingAvg     float64 `json:"ratingAvg"`
	ReviewCount   int     `json:"reviewCount"`
	Image         string  `json:"image"`
	Stock         int     `json:"stock"`
	SavedAt       int64   `json:"savedAt"`
}

func entryOf(p catalog.Product, savedAt time.Time) Entry {
	return Entry{
		ID:            p.ID,
		Slug:          p.Slug,
		Name:          p.Name,
		Brand:         p.Brand,
		DiscountPrice: p.DiscountPrice,
		Price:         p.Price,
		RatingAvg:     p.RatingAvg,
		ReviewCount:   p.ReviewCount,
		Image:         p.PrimaryImage(),
		Stock:         p.Stock,
		SavedAt:       savedAt.UnixMilli(),
	}
}

// Product rebuilds a display product from the snapshot alone.
func (e Entry) Product() catalog.Product {
	var images []string
	if e.Image != "" {
		images = []string{e.Image}
	}
	return catalog.Product{
		ID:            e.ID,
		Slug:          e.Slug,
		Name:          e.Name,
		Brand:         e.Brand,
		Price:         e.Price,
		DiscountPrice: e.DiscountPrice,
		Stock:         e.Stock,
		RatingAvg:     e.RatingAvg,
		ReviewCount:   e.ReviewCount,
		Images:        images,
	}
}

// Resolved pairs a saved entry with the product to display. Live is false when the
// product is gone from the catalog and the snapshot stands in for it.
type Resolved struct {
	Entry   Entry           `json:"entry"`
	Product catalog.Product `json:"product"`
	Live    bool            `json:"live"`
}

// ProductFinder is the catalog lookup Resolve needs.
type ProductFinder interface {
	FindByID(id int) (catalog.Product, bool)
}

// Resolve joins entries to live catalog products, falling back to the snapshot.
func Resolve(entries []Entry, products ProductFinder) []Resolved {
	out := make([]Resolved, 0, len(entries))
	for _, e := range entries {
		if p, ok := products.FindByID(e.ID); ok {
			out = append(out, Resolved{Entry: e, Product: p, Live: true})
			continue
		}
		out = append(out, Resolved{Entry: e, Product: e.Product()})
	}
	return out
}

// Products flattens resolved entries to their display products.
func Products(resolved []Resolved) []catalog.Product {
	out := make([]catalog.Product, 0, len(resolved))
	for _, r := range resolved {
		out = append(out, r.Product)
	}
	return out
}
