package catalog

// Product is one immutable catalog record.
type Product struct {
	ID             int            `json:"id"`
	Slug           string         `json:"slug"`
	Name           string         `json:"name"`
	Brand          string         `json:"brand"`
	CategorySlug   string         `json:"categorySlug"`
	Subcategory    string         `json:"subcategory"`
	Price          int            `json:"price"`
	DiscountPrice  int            `json:"discountPrice"`
	Stock          int            `json:"stock"`
	RatingAvg      float64        `json:"ratingAvg"`
	ReviewCount    int            `json:"reviewCount"`
	Images         []string       `json:"images"`
	Specifications map[string]any `json:"specifications,omitempty"`
	Description    string         `json:"description"`
}

// PrimaryImage returns the first image URL.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// DiscountFraction is (price - discountPrice) / price, or 0 when price is 0.
func (p Product) DiscountFraction() float64 {
	if p.Price <= 0 || p.DiscountPrice >= p.Price {
		return 0
	}
	return float64(p.Price-p.DiscountPrice) / float64(p.Price)
}

// Category groups products under a browsable slug.
type Category struct {
	ID            int      `json:"id"`
	Slug          string   `json:"slug"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Subcategories []string `json:"subcategories"`
	ImageURL      string   `json:"imageUrl"`
}

// PriceRange bounds discount prices in a product set.
type PriceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FallbackPriceRange is reported for empty product sets.
var FallbackPriceRange = PriceRange{Min: 0, Max: 100000}

// PriceRangeOf computes the discount price bounds of products.
func PriceRangeOf(products []Product) PriceRange {
	if len(products) == 0 {
		return FallbackPriceRange
	}
	rng := PriceRange{Min: products[0].DiscountPrice, Max: products[0].DiscountPrice}
	for _, p := range products[1:] {
		rng.Min = min(rng.Min, p.DiscountPrice)
		rng.Max = max(rng.Max, p.DiscountPrice)
	}
	return rng
}
