package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/nexora-storefront/internal/browse"
	"github.com/angelmondragon/nexora-storefront/internal/cart"
	"github.com/angelmondragon/nexora-storefront/internal/catalog"
	"github.com/angelmondragon/nexora-storefront/internal/checkout"
	"github.com/angelmondragon/nexora-storefront/internal/notifications"
	"github.com/angelmondragon/nexora-storefront/internal/search"
	"github.com/angelmondragon/nexora-storefront/internal/session"
	"github.com/angelmondragon/nexora-storefront/pkg/config"
	"github.com/angelmondragon/nexora-storefront/pkg/logger"
	"github.com/angelmondragon/nexora-storefront/pkg/metrics"
	"github.com/angelmondragon/nexora-storefront/pkg/storage"
)

const testSession = "shopper-1"

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Toasts []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"toasts"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type productRef struct {
	ID   int    `json:"id"`
	Slug string `json:"slug"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return newTestRouterWithDelay(t, 0)
}

func newTestRouterWithDelay(t *testing.T, processingDelay time.Duration) http.Handler {
	t.Helper()
	cfg := &config.Config{App: config.AppConfig{Env: "test", CORSOrigins: []string{"http://localhost:3000"}}}
	logg := logger.Nop()

	store, err := catalog.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	index := search.NewIndex(store, search.Options{})

	reg := prometheus.NewRegistry()
	storefrontMetrics := metrics.NewStorefrontMetrics(reg)

	browseService, err := browse.NewService(browse.ServiceParams{Catalog: store, Index: index, Metrics: storefrontMetrics})
	if err != nil {
		t.Fatalf("browse service: %v", err)
	}
	checkoutService := checkout.NewService(checkout.ServiceParams{
		ProcessingDelay: processingDelay,
		CouponDiscount:  checkout.DefaultCouponDiscount,
		Logger:          logg,
	})

	sessions := session.NewProvider(session.Params{
		Backend:  storage.NewMemoryBackend(),
		Pricing:  cart.DefaultPricing(),
		Notifier: notifications.NewDispatcher(nil),
		Logger:   logg,
		Metrics:  storefrontMetrics,
	})

	return NewRouter(cfg, logg, store, index, browseService, checkoutService, sessions, storefrontMetrics,
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}

func do(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode body %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, dst any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func sessionHeaders() map[string]string {
	return map[string]string{"X-Session-Id": testSession}
}

func ids(products []productRef) []int {
	out := make([]int, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestRouter(t)

	rec, _ := do(t, h, http.MethodGet, "/health/live", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("live status = %d", rec.Code)
	}
	if got := rec.Header().Get("X-Nexora-Env"); got != "test" {
		t.Fatalf("env header = %q", got)
	}

	rec, env := do(t, h, http.MethodGet, "/health/ready", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ready status = %d body=%s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	decodeData(t, env, &body)
	if body["storage"] != "memory" {
		t.Fatalf("ready storage = %q", body["storage"])
	}
}

func TestCategoryListing(t *testing.T) {
	h := newTestRouter(t)

	rec, env := do(t, h, http.MethodGet, "/api/v1/categories/laptops-computers?brand=Dell&sort=price-low", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var page struct {
		Sort     string `json:"sort"`
		Products struct {
			Items []productRef `json:"items"`
			Total int          `json:"total"`
		} `json:"products"`
	}
	decodeData(t, env, &page)
	if got := ids(page.Products.Items); !equalInts(got, []int{14, 9}) {
		t.Fatalf("dell laptops = %v", got)
	}
	if page.Sort != "price-low" {
		t.Fatalf("sort = %q", page.Sort)
	}

	rec, _ = do(t, h, http.MethodGet, "/api/v1/categories/not-a-category", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown category status = %d", rec.Code)
	}

	rec, env = do(t, h, http.MethodGet, "/api/v1/categories/laptops-computers?brand=Dell&sort=cheapest", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unknown sort status = %d body=%s", rec.Code, rec.Body.String())
	}
	var unsorted struct {
		Sort     string `json:"sort"`
		Products struct {
			Items []productRef `json:"items"`
		} `json:"products"`
	}
	decodeData(t, env, &unsorted)
	if unsorted.Sort != "relevance" {
		t.Fatalf("unknown sort should fall back to relevance, got %q", unsorted.Sort)
	}
	if got := ids(unsorted.Products.Items); len(got) != 2 {
		t.Fatalf("dell laptops with unknown sort = %v", got)
	}
}

func TestDealsListing(t *testing.T) {
	h := newTestRouter(t)

	rec, env := do(t, h, http.MethodGet, "/api/v1/deals?limit=5", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var page struct {
		Sort  string `json:"sort"`
		Deals struct {
			Items []struct {
				ID              int `json:"id"`
				DiscountPercent int `json:"discount_percent"`
				SoldPercent     int `json:"sold_percent"`
			} `json:"items"`
			Total      int    `json:"total"`
			NextCursor string `json:"next_cursor"`
		} `json:"deals"`
	}
	decodeData(t, env, &page)
	if page.Sort != "discount" || len(page.Deals.Items) != 5 || page.Deals.Total != 20 || page.Deals.NextCursor == "" {
		t.Fatalf("unexpected deals page %+v", page)
	}
	for _, item := range page.Deals.Items {
		if item.DiscountPercent <= 0 || item.SoldPercent != 30+item.ID%63 {
			t.Fatalf("unexpected deal %+v", item)
		}
	}

	rec, _ = do(t, h, http.MethodGet, "/api/v1/deals?min_price=abc", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid price status = %d", rec.Code)
	}
}

func TestCategoryPagination(t *testing.T) {
	h := newTestRouter(t)

	type pageBody struct {
		Products struct {
			Items      []productRef `json:"items"`
			Total      int          `json:"total"`
			NextCursor string       `json:"next_cursor"`
		} `json:"products"`
	}

	_, env := do(t, h, http.MethodGet, "/api/v1/categories/laptops-computers?limit=3", "", nil)
	var first pageBody
	decodeData(t, env, &first)
	if len(first.Products.Items) != 3 || first.Products.Total != 8 || first.Products.NextCursor == "" {
		t.Fatalf("first page = %+v", first.Products)
	}

	rec, env := do(t, h, http.MethodGet, "/api/v1/categories/laptops-computers?limit=3&cursor="+first.Products.NextCursor, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("second page status = %d body=%s", rec.Code, rec.Body.String())
	}
	var second pageBody
	decodeData(t, env, &second)
	if len(second.Products.Items) != 3 {
		t.Fatalf("second page size = %d", len(second.Products.Items))
	}
	if second.Products.Items[0].ID == first.Products.Items[0].ID {
		t.Fatalf("second page repeated first item %d", second.Products.Items[0].ID)
	}
}

func TestProductDetailTracksRecentlyViewed(t *testing.T) {
	h := newTestRouter(t)

	rec, env := do(t, h, http.MethodGet, "/api/v1/products/dell-xps-13-plus", "", sessionHeaders())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Session-Id"); got != testSession {
		t.Fatalf("session header = %q", got)
	}
	var detail struct {
		Product        productRef   `json:"product"`
		InCart         bool         `json:"in_cart"`
		RecentlyViewed []productRef `json:"recently_viewed"`
	}
	decodeData(t, env, &detail)
	if detail.Product.ID != 9 || detail.InCart || len(detail.RecentlyViewed) != 0 {
		t.Fatalf("first detail = %+v", detail)
	}

	_, env = do(t, h, http.MethodGet, "/api/v1/products/hp-victus-gaming-laptop-15", "", sessionHeaders())
	decodeData(t, env, &detail)
	if detail.Product.ID != 10 || !equalInts(ids(detail.RecentlyViewed), []int{9}) {
		t.Fatalf("second detail = %+v", detail)
	}

	_, env = do(t, h, http.MethodGet, "/api/v1/recently-viewed", "", sessionHeaders())
	var viewed []productRef
	decodeData(t, env, &viewed)
	if got := ids(viewed); !equalInts(got, []int{10, 9}) {
		t.Fatalf("recently viewed = %v", got)
	}

	rec, _ = do(t, h, http.MethodGet, "/api/v1/products/missing-product", "", sessionHeaders())
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing product status = %d", rec.Code)
	}
}

func TestSearchSuggestAndRecent(t *testing.T) {
	h := newTestRouter(t)

	rec, env := do(t, h, http.MethodGet, "/api/v1/search/suggest?q=headphones", "", sessionHeaders())
	if rec.Code != http.StatusOK {
		t.Fatalf("suggest status = %d body=%s", rec.Code, rec.Body.String())
	}
	var suggest struct {
		Products []productRef `json:"products"`
	}
	decodeData(t, env, &suggest)
	if len(suggest.Products) == 0 {
		t.Fatalf("expected headphone suggestions")
	}

	rec, _ = do(t, h, http.MethodPost, "/api/v1/search/recent", `{"term":"  Headphones "}`, sessionHeaders())
	if rec.Code != http.StatusCreated {
		t.Fatalf("commit status = %d body=%s", rec.Code, rec.Body.String())
	}
	_, env = do(t, h, http.MethodGet, "/api/v1/search/recent", "", sessionHeaders())
	var terms []string
	decodeData(t, env, &terms)
	if len(terms) != 1 || terms[0] != "Headphones" {
		t.Fatalf("recent = %v", terms)
	}

	rec, _ = do(t, h, http.MethodPost, "/api/v1/search/recent", `{}`, sessionHeaders())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank commit status = %d", rec.Code)
	}

	metricsRec, _ := do(t, h, http.MethodGet, "/metrics", "", nil)
	if !strings.Contains(metricsRec.Body.String(), "storefront_searches_total") {
		t.Fatalf("metrics missing search counter")
	}
}

func TestCartAndWishlistFlow(t *testing.T) {
	h := newTestRouter(t)

	rec, env := do(t, h, http.MethodPost, "/api/v1/cart/items", `{"productId":14,"quantity":2}`, sessionHeaders())
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d body=%s", rec.Code, rec.Body.String())
	}
	if len(env.Toasts) != 1 || env.Toasts[0].Title != "Added to cart" {
		t.Fatalf("toasts = %+v", env.Toasts)
	}
	var summary struct {
		ItemCount int `json:"item_count"`
		Subtotal  int `json:"subtotal"`
	}
	decodeData(t, env, &summary)
	if summary.ItemCount != 2 || summary.Subtotal != 2*27599 {
		t.Fatalf("summary = %+v", summary)
	}

	rec, env = do(t, h, http.MethodPatch, "/api/v1/cart/items/14", `{"quantity":0}`, sessionHeaders())
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d body=%s", rec.Code, rec.Body.String())
	}
	decodeData(t, env, &summary)
	if summary.ItemCount != 1 {
		t.Fatalf("clamped item count = %d", summary.ItemCount)
	}

	rec, _ = do(t, h, http.MethodPost, "/api/v1/cart/items", `{"productId":9999}`, sessionHeaders())
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown product status = %d", rec.Code)
	}

	rec, env = do(t, h, http.MethodPost, "/api/v1/wishlist/toggle", `{"slug":"samsung-galaxy-s24-ultra"}`, sessionHeaders())
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d body=%s", rec.Code, rec.Body.String())
	}
	var toggled struct {
		ProductID int  `json:"productId"`
		Saved     bool `json:"saved"`
		Count     int  `json:"count"`
	}
	decodeData(t, env, &toggled)
	if toggled.ProductID != 1 || !toggled.Saved || toggled.Count != 1 {
		t.Fatalf("toggle = %+v", toggled)
	}

	_, env = do(t, h, http.MethodGet, "/api/v1/products/samsung-galaxy-s24-ultra", "", sessionHeaders())
	var detail struct {
		InWishlist bool `json:"in_wishlist"`
	}
	decodeData(t, env, &detail)
	if !detail.InWishlist {
		t.Fatalf("expected product to be wishlisted")
	}

	// A different session sees none of it.
	_, env = do(t, h, http.MethodGet, "/api/v1/cart", "", map[string]string{"X-Session-Id": "shopper-2"})
	decodeData(t, env, &summary)
	if summary.ItemCount != 0 {
		t.Fatalf("other session item count = %d", summary.ItemCount)
	}
}

func TestThemePreference(t *testing.T) {
	h := newTestRouter(t)

	var pref struct {
		Theme string `json:"theme"`
	}
	_, env := do(t, h, http.MethodGet, "/api/v1/preferences/theme", "", sessionHeaders())
	decodeData(t, env, &pref)
	if pref.Theme != "light" {
		t.Fatalf("default theme = %q", pref.Theme)
	}

	_, env = do(t, h, http.MethodPost, "/api/v1/preferences/theme/toggle", "", sessionHeaders())
	decodeData(t, env, &pref)
	if pref.Theme != "dark" {
		t.Fatalf("toggled theme = %q", pref.Theme)
	}

	rec, _ := do(t, h, http.MethodPut, "/api/v1/preferences/theme", `{"theme":"sepia"}`, sessionHeaders())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid theme status = %d", rec.Code)
	}
}

const checkoutBody = `{
	"firstName": "Asha",
	"lastName": "Rao",
	"email": "asha@example.com",
	"phone": "9876543210",
	"address": "12 MG Road",
	"city": "Bengaluru",
	"state": "Karnataka",
	"zip": "560001",
	"cardName": "Asha Rao",
	"cardNumber": "4111 1111 1111 1111",
	"expiry": "12/29",
	"cvc": "123",
	"paymentMethod": "card",
	"couponCode": "WELCOME"
}`

func TestCheckoutIsIdempotent(t *testing.T) {
	h := newTestRouter(t)

	rec, _ := do(t, h, http.MethodPost, "/api/v1/cart/items", `{"productId":14}`, sessionHeaders())
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d", rec.Code)
	}

	_, env := do(t, h, http.MethodGet, "/api/v1/checkout/quote?coupon=WELCOME", "", sessionHeaders())
	var quote struct {
		Total          int `json:"total"`
		CouponDiscount int `json:"coupon_discount"`
		Payable        int `json:"payable"`
	}
	decodeData(t, env, &quote)
	if quote.Total != 32567 || quote.CouponDiscount != 199 || quote.Payable != 32368 {
		t.Fatalf("quote = %+v", quote)
	}

	headers := map[string]string{"X-Session-Id": testSession, "Idempotency-Key": "order-1"}
	rec, env = do(t, h, http.MethodPost, "/api/v1/checkout", checkoutBody, headers)
	if rec.Code != http.StatusCreated {
		t.Fatalf("checkout status = %d body=%s", rec.Code, rec.Body.String())
	}
	var first struct {
		OrderID string `json:"order_id"`
		Total   int    `json:"total"`
		Step    string `json:"step"`
	}
	decodeData(t, env, &first)
	if first.OrderID == "" || first.Total != 32368 {
		t.Fatalf("confirmation = %+v", first)
	}
	if len(env.Toasts) != 1 || env.Toasts[0].Title != "Payment successful" {
		t.Fatalf("toasts = %+v", env.Toasts)
	}

	rec, env = do(t, h, http.MethodPost, "/api/v1/checkout", checkoutBody, headers)
	if rec.Code != http.StatusCreated {
		t.Fatalf("replay status = %d body=%s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Idempotent-Replay") != "true" {
		t.Fatalf("expected replay header")
	}
	var replay struct {
		OrderID string `json:"order_id"`
	}
	decodeData(t, env, &replay)
	if replay.OrderID != first.OrderID {
		t.Fatalf("replay order = %q, want %q", replay.OrderID, first.OrderID)
	}

	rec, env = do(t, h, http.MethodPost, "/api/v1/checkout", checkoutBody, sessionHeaders())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty cart status = %d", rec.Code)
	}
	if env.Error.Message != "cart is empty" {
		t.Fatalf("empty cart message = %q", env.Error.Message)
	}
}

func TestCheckoutConcurrentRetryPlacesOneOrder(t *testing.T) {
	h := newTestRouterWithDelay(t, 150*time.Millisecond)
	if rec, _ := do(t, h, http.MethodPost, "/api/v1/cart/items", `{"productId":14}`, sessionHeaders()); rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d", rec.Code)
	}

	recorders := []*httptest.ResponseRecorder{httptest.NewRecorder(), httptest.NewRecorder()}
	var wg sync.WaitGroup
	for _, rec := range recorders {
		wg.Add(1)
		go func(rec *httptest.ResponseRecorder) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(checkoutBody))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Session-Id", testSession)
			req.Header.Set("Idempotency-Key", "order-1")
			h.ServeHTTP(rec, req)
		}(rec)
	}
	wg.Wait()

	orderIDs := map[string]struct{}{}
	replays := 0
	for i, rec := range recorders {
		if rec.Code != http.StatusCreated {
			t.Fatalf("response %d status = %d body=%s", i, rec.Code, rec.Body.String())
		}
		if rec.Header().Get("Idempotent-Replay") == "true" {
			replays++
		}
		var env envelope
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("response %d: decode %q: %v", i, rec.Body.String(), err)
		}
		var conf struct {
			OrderID string `json:"order_id"`
		}
		decodeData(t, env, &conf)
		orderIDs[conf.OrderID] = struct{}{}
	}
	if len(orderIDs) != 1 || replays != 1 {
		t.Fatalf("expected one order and one replay, got orders=%v replays=%d", orderIDs, replays)
	}

	_, env := do(t, h, http.MethodGet, "/api/v1/cart", "", sessionHeaders())
	var summary struct {
		ItemCount int `json:"item_count"`
	}
	decodeData(t, env, &summary)
	if summary.ItemCount != 0 {
		t.Fatalf("cart item count after checkout = %d", summary.ItemCount)
	}
}

func TestCheckoutValidationErrors(t *testing.T) {
	h := newTestRouter(t)

	do(t, h, http.MethodPost, "/api/v1/cart/items", `{"productId":9}`, sessionHeaders())
	rec, env := do(t, h, http.MethodPost, "/api/v1/checkout", `{"paymentMethod":"card"}`, sessionHeaders())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if env.Error.Message != "Please complete required fields" {
		t.Fatalf("message = %q", env.Error.Message)
	}

	_, env = do(t, h, http.MethodGet, "/api/v1/cart", "", sessionHeaders())
	var summary struct {
		ItemCount int `json:"item_count"`
	}
	decodeData(t, env, &summary)
	if summary.ItemCount != 1 {
		t.Fatalf("cart should survive failed checkout, item count = %d", summary.ItemCount)
	}
}
