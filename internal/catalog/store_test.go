package catalog

import (
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/nexora-storefront/pkg/errors"
)

func fixtureProduct(id int, name, brand, category string, price, discount int) Product {
	return Product{
		ID:            id,
		Name:          name,
		Brand:         brand,
		CategorySlug:  category,
		Subcategory:   "General",
		Price:         price,
		DiscountPrice: discount,
		Stock:         5,
		RatingAvg:     4,
		ReviewCount:   10,
		Images:        []string{"https://img.test/" + Slugify(name) + ".jpg"},
	}
}

func TestDefaultCatalogLoads(t *testing.T) {
	store, err := Default()
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}
	if len(store.All()) != 72 {
		t.Fatalf("expected 72 products, got %d", len(store.All()))
	}
	if len(store.Categories()) != 9 {
		t.Fatalf("expected 9 categories, got %d", len(store.Categories()))
	}
	for _, p := range store.All() {
		if p.Slug == "" {
			t.Fatalf("product %d has no slug after load", p.ID)
		}
		if p.DiscountPrice > p.Price {
			t.Fatalf("product %d has discount above price", p.ID)
		}
	}

	derived, ok := store.FindByID(3)
	if !ok {
		t.Fatal("expected product 3")
	}
	if derived.Slug != Slugify(derived.Name) {
		t.Fatalf("expected derived slug %q, got %q", Slugify(derived.Name), derived.Slug)
	}
}

func TestLookupsReportAbsence(t *testing.T) {
	store, err := Default()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := store.FindBySlug("no-such-product"); ok {
		t.Fatal("expected unknown slug to be absent")
	}
	if _, ok := store.FindByID(999999); ok {
		t.Fatal("expected unknown id to be absent")
	}
	if _, ok := store.FindCategory("garden"); ok {
		t.Fatal("expected unknown category to be absent")
	}
	p, ok := store.FindBySlug("samsung-galaxy-s24-ultra")
	if !ok || p.ID != 1 {
		t.Fatalf("expected product 1 by slug, got %+v %v", p, ok)
	}
}

func TestCategoryHelpers(t *testing.T) {
	store, err := Default()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	brands := store.BrandsForCategory("laptops-computers")
	want := []string{"Apple", "Asus", "Dell", "HP", "Lenovo"}
	if strings.Join(brands, ",") != strings.Join(want, ",") {
		t.Fatalf("expected brands %v, got %v", want, brands)
	}

	rng := store.PriceRangeForCategory("laptops-computers")
	if rng.Min != 27599 || rng.Max != 142499 {
		t.Fatalf("unexpected price range %+v", rng)
	}

	if got := store.PriceRangeForCategory("garden"); got != FallbackPriceRange {
		t.Fatalf("expected fallback range for empty category, got %+v", got)
	}
	if got := store.BrandsForCategory("garden"); len(got) != 0 {
		t.Fatalf("expected no brands, got %v", got)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	store, err := New(nil, []Product{fixtureProduct(1, "Alpha", "A", "x", 100, 90)})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	all := store.All()
	all[0].Name = "mutated"
	if p, _ := store.FindByID(1); p.Name != "Alpha" {
		t.Fatalf("store was mutated through All(): %q", p.Name)
	}
}

func TestNewRejectsInvalidRecords(t *testing.T) {
	cases := map[string][]Product{
		"duplicate id": {
			fixtureProduct(1, "Alpha", "A", "x", 100, 90),
			fixtureProduct(1, "Beta", "A", "x", 100, 90),
		},
		"duplicate slug": {
			fixtureProduct(1, "Alpha Phone", "A", "x", 100, 90),
			fixtureProduct(2, "alpha phone", "A", "x", 100, 90),
		},
		"discount above price": {
			fixtureProduct(1, "Alpha", "A", "x", 100, 120),
		},
		"negative stock": func() []Product {
			p := fixtureProduct(1, "Alpha", "A", "x", 100, 90)
			p.Stock = -1
			return []Product{p}
		}(),
		"no images": func() []Product {
			p := fixtureProduct(1, "Alpha", "A", "x", 100, 90)
			p.Images = nil
			return []Product{p}
		}(),
		"bad specification": func() []Product {
			p := fixtureProduct(1, "Alpha", "A", "x", 100, 90)
			p.Specifications = map[string]any{"ports": []string{"usb"}}
			return []Product{p}
		}(),
	}

	for name, products := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(nil, products)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation code, got %v", err)
			}
		})
	}
}

func TestNewRejectsUnknownCategory(t *testing.T) {
	categories := []Category{{ID: 1, Slug: "phones", Name: "Phones"}}
	_, err := New(categories, []Product{fixtureProduct(1, "Alpha", "A", "laptops", 100, 90)})
	if err == nil {
		t.Fatal("expected unknown category error")
	}
}

func TestLoadDecodesJSON(t *testing.T) {
	doc := `{"categories":[{"id":1,"slug":"audio","name":"Audio","subcategories":["Earbuds"]}],
	"products":[{"id":7,"name":"Bass Buds Pro","brand":"Sonic","categorySlug":"audio","subcategory":"Earbuds",
	"price":2999,"discountPrice":1999,"stock":3,"ratingAvg":4.2,"reviewCount":12,"images":["a.jpg"],
	"specifications":{"Battery (h)":30,"Color":"Black"}}]}`

	store, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p, ok := store.FindBySlug("bass-buds-pro")
	if !ok {
		t.Fatal("expected slug derived from name")
	}
	if p.PrimaryImage() != "a.jpg" {
		t.Fatalf("unexpected primary image %q", p.PrimaryImage())
	}

	if _, err := Load(strings.NewReader("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Levi's 511 Slim Fit Jeans": "levi-s-511-slim-fit-jeans",
		"  H&M  ":                   "h-m",
		"RF 50mm f/1.8":             "rf-50mm-f-1-8",
		"---":                       "",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDiscountFraction(t *testing.T) {
	if got := (Product{Price: 0, DiscountPrice: 0}).DiscountFraction(); got != 0 {
		t.Fatalf("expected 0 for free product, got %v", got)
	}
	if got := (Product{Price: 200, DiscountPrice: 150}).DiscountFraction(); got != 0.25 {
		t.Fatalf("expected 0.25, got %v", got)
	}
}
