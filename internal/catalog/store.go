package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	pkgerrors "github.com/angelmondragon/nexora-storefront/pkg/errors"
	"github.com/samber/lo"
)

//go:embed data/catalog.json
var seedCatalog []byte

// Store is the read-only product and category collection. It is safe for concurrent use.
type Store struct {
	products   []Product
	categories []Category

	byID       map[int]int
	bySlug     map[string]int
	catIndex   map[string]int
	byCategory map[string][]int

	sellers      []Seller
	sellerBySlug map[string]int
}

type seedFile struct {
	Categories []Category `json:"categories"`
	Products   []Product  `json:"products"`
}

var loadDefault = sync.OnceValues(func() (*Store, error) {
	return Load(bytes.NewReader(seedCatalog))
})

// Default returns the store built from the embedded seed catalog.
func Default() (*Store, error) {
	return loadDefault()
}

// LoadFile reads a catalog JSON document from disk.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %q: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a {"categories": [...], "products": [...]} document and validates it.
func Load(r io.Reader) (*Store, error) {
	var seed seedFile
	dec := json.NewDecoder(r)
	if err := dec.Decode(&seed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode catalog")
	}
	return New(seed.Categories, seed.Products)
}

// New validates the records and indexes them. Missing product slugs are derived from names.
func New(categories []Category, products []Product) (*Store, error) {
	s := &Store{
		products:   make([]Product, 0, len(products)),
		categories: make([]Category, 0, len(categories)),
		byID:       make(map[int]int, len(products)),
		bySlug:     make(map[string]int, len(products)),
		catIndex:   make(map[string]int, len(categories)),
		byCategory: make(map[string][]int, len(categories)),
	}

	for _, c := range categories {
		if strings.TrimSpace(c.Slug) == "" {
			return nil, invalidf("category %d has no slug", c.ID)
		}
		if _, dup := s.catIndex[c.Slug]; dup {
			return nil, invalidf("duplicate category slug %q", c.Slug)
		}
		c.Subcategories = append([]string(nil), c.Subcategories...)
		s.catIndex[c.Slug] = len(s.categories)
		s.categories = append(s.categories, c)
	}

	for _, p := range products {
		if p.Slug == "" {
			p.Slug = Slugify(p.Name)
		}
		if err := validateProduct(p); err != nil {
			return nil, err
		}
		if _, dup := s.byID[p.ID]; dup {
			return nil, invalidf("duplicate product id %d", p.ID)
		}
		if _, dup := s.bySlug[p.Slug]; dup {
			return nil, invalidf("duplicate product slug %q", p.Slug)
		}
		if len(s.catIndex) > 0 {
			if _, ok := s.catIndex[p.CategorySlug]; !ok {
				return nil, invalidf("product %d references unknown category %q", p.ID, p.CategorySlug)
			}
		}
		idx := len(s.products)
		s.byID[p.ID] = idx
		s.bySlug[p.Slug] = idx
		s.byCategory[p.CategorySlug] = append(s.byCategory[p.CategorySlug], idx)
		s.products = append(s.products, p)
	}

	s.sellers = buildSellers(s.products)
	s.sellerBySlug = make(map[string]int, len(s.sellers))
	for i, seller := range s.sellers {
		s.sellerBySlug[seller.Slug] = i
	}
	return s, nil
}

func validateProduct(p Product) error {
	switch {
	case p.ID <= 0:
		return invalidf("product id must be positive, got %d", p.ID)
	case strings.TrimSpace(p.Name) == "":
		return invalidf("product %d has no name", p.ID)
	case p.Slug == "":
		return invalidf("product %d has no usable slug", p.ID)
	case p.Price < 0 || p.DiscountPrice < 0:
		return invalidf("product %d has a negative price", p.ID)
	case p.DiscountPrice > p.Price:
		return invalidf("product %d discount price %d exceeds price %d", p.ID, p.DiscountPrice, p.Price)
	case p.Stock < 0:
		return invalidf("product %d has negative stock", p.ID)
	case p.RatingAvg < 0 || p.RatingAvg > 5:
		return invalidf("product %d rating %.1f outside 0-5", p.ID, p.RatingAvg)
	case p.ReviewCount < 0:
		return invalidf("product %d has negative review count", p.ID)
	case len(p.Images) == 0:
		return invalidf("product %d has no images", p.ID)
	}
	for key, value := range p.Specifications {
		switch value.(type) {
		case string, float64, int:
		default:
			return invalidf("product %d specification %q must be a string or number", p.ID, key)
		}
	}
	return nil
}

func invalidf(format string, args ...any) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid catalog: "+format, args...))
}

// All returns every product in catalog order.
func (s *Store) All() []Product {
	return append([]Product(nil), s.products...)
}

// Categories returns every category in catalog order.
func (s *Store) Categories() []Category {
	return append([]Category(nil), s.categories...)
}

// FindBySlug looks up a product by slug.
func (s *Store) FindBySlug(slug string) (Product, bool) {
	idx, ok := s.bySlug[slug]
	if !ok {
		return Product{}, false
	}
	return s.products[idx], true
}

// FindByID looks up a product by id.
func (s *Store) FindByID(id int) (Product, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return Product{}, false
	}
	return s.products[idx], true
}

// FindCategory looks up a category by slug.
func (s *Store) FindCategory(slug string) (Category, bool) {
	idx, ok := s.catIndex[slug]
	if !ok {
		return Category{}, false
	}
	return s.categories[idx], true
}

// ProductsInCategory returns the category's products in catalog order.
func (s *Store) ProductsInCategory(slug string) []Product {
	indexes := s.byCategory[slug]
	out := make([]Product, 0, len(indexes))
	for _, idx := range indexes {
		out = append(out, s.products[idx])
	}
	return out
}

// BrandsForCategory returns the distinct brands in a category, alphabetically.
func (s *Store) BrandsForCategory(slug string) []string {
	brands := lo.Uniq(lo.Map(s.ProductsInCategory(slug), func(p Product, _ int) string {
		return p.Brand
	}))
	sort.Strings(brands)
	return brands
}

// PriceRangeForCategory bounds discount prices in a category; empty categories get FallbackPriceRange.
func (s *Store) PriceRangeForCategory(slug string) PriceRange {
	return PriceRangeOf(s.ProductsInCategory(slug))
}

// Brands returns distinct brands in first-seen catalog order.
func (s *Store) Brands() []string {
	return lo.Uniq(lo.Map(s.products, func(p Product, _ int) string {
		return p.Brand
	}))
}
