package cart

import (
	"github.com/angelmondragon/nexora-storefront/internal/catalog"
	"github.com/shopspring/decimal"
)

// ProductSnapshot is the subset of product fields copied into a line item at add time.
type ProductSnapshot struct {
	ID            int     `json:"id"`
	Slug          string  `json:"slug"`
	Name          string  `json:"name"`
	Brand         string  `json:"brand"`
	Price         int     `json:"price"`
	DiscountPrice int     `json:"discountPrice"`
	Stock         int     `json:"stock"`
	RatingAvg     float64 `json:"ratingAvg"`
	Image         string  `json:"image"`
}

// SnapshotOf copies the cart-relevant fields of p.
func SnapshotOf(p catalog.Product) ProductSnapshot {
	return ProductSnapshot{
		ID:            p.ID,
		Slug:          p.Slug,
		Name:          p.Name,
		Brand:         p.Brand,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		Stock:         p.Stock,
		RatingAvg:     p.RatingAvg,
		Image:         p.PrimaryImage(),
	}
}

// LineItem is one product in the cart with its quantity.
type LineItem struct {
	Product  ProductSnapshot `json:"product"`
	Quantity int             `json:"quantity"`
}

// LineTotal is discount price times quantity.
func (li LineItem) LineTotal() int {
	return li.Product.DiscountPrice * li.Quantity
}

// Pricing is the tax and shipping policy applied to totals.
type Pricing struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold int
	ShippingFee           int
}

// DefaultPricing is 18% tax, free shipping from 999, otherwise 99.
func DefaultPricing() Pricing {
	return Pricing{
		TaxRate:               decimal.NewFromFloat(0.18),
		FreeShippingThreshold: 999,
		ShippingFee:           99,
	}
}

// Summary is the derived totals view of a cart.
type Summary struct {
	Items     []LineItem `json:"items"`
	ItemCount int        `json:"item_count"`
	Subtotal  int        `json:"subtotal"`
	Tax       int        `json:"tax"`
	Shipping  int        `json:"shipping"`
	Total     int        `json:"total"`
}
