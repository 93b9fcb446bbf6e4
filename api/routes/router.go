package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/nexora-storefront/api/controllers"
	"github.com/angelmondragon/nexora-storefront/api/middleware"
	"github.com/angelmondragon/nexora-storefront/internal/browse"
	"github.com/angelmondragon/nexora-storefront/internal/catalog"
	checkoutsvc "github.com/angelmondragon/nexora-storefront/internal/checkout"
	"github.com/angelmondragon/nexora-storefront/internal/search"
	"github.com/angelmondragon/nexora-storefront/internal/session"
	"github.com/angelmondragon/nexora-storefront/pkg/config"
	"github.com/angelmondragon/nexora-storefront/pkg/logger"
	"github.com/angelmondragon/nexora-storefront/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	catalogStore *catalog.Store,
	searchIndex *search.Index,
	browseService browse.Service,
	checkoutService checkoutsvc.Service,
	sessions *session.Provider,
	storefrontMetrics *metrics.StorefrontMetrics,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, sessions))
	})
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	idempotencyStore := func(req *http.Request) middleware.IdempotencyStore {
		return sessions.KV(middleware.SessionIDFromContext(req.Context()))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", controllers.CategoryList(catalogStore))
		r.Get("/categories/{slug}", controllers.CategoryDetail(browseService, logg))
		r.Get("/products/{slug}/related", controllers.ProductRelated(catalogStore, logg))
		r.Get("/deals", controllers.DealsList(browseService, logg))
		r.Get("/sellers", controllers.SellerList(catalogStore))
		r.Get("/sellers/{slug}", controllers.SellerDetail(catalogStore, logg))
		r.Get("/checkout/addresses", controllers.CheckoutAddresses())

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(logg))
			r.Use(middleware.Idempotency(idempotencyStore, logg))

			r.Get("/home", controllers.HomeFeed(browseService, catalogStore, sessions, logg))
			r.Get("/products/{slug}", controllers.ProductDetail(catalogStore, sessions, logg))

			r.Route("/search", func(r chi.Router) {
				r.Get("/", controllers.SearchResults(browseService, catalogStore, sessions, logg))
				r.Get("/suggest", controllers.SearchSuggest(searchIndex, sessions, storefrontMetrics, logg))
				r.Get("/recent", controllers.SearchRecentList(sessions, logg))
				r.Post("/recent", controllers.SearchRecentCommit(sessions, logg))
				r.Delete("/recent", controllers.SearchRecentClear(sessions, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(sessions, logg))
				r.Delete("/", controllers.CartClear(sessions, logg))
				r.Post("/items", controllers.CartAddItem(catalogStore, sessions, logg))
				r.Patch("/items/{productId}", controllers.CartUpdateItem(sessions, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(sessions, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistFetch(catalogStore, sessions, logg))
				r.Delete("/", controllers.WishlistClear(sessions, logg))
				r.Post("/toggle", controllers.WishlistToggle(catalogStore, sessions, logg))
				r.Delete("/{productId}", controllers.WishlistRemove(catalogStore, sessions, logg))
			})

			r.Get("/recently-viewed", controllers.RecentlyViewed(catalogStore, sessions, logg))

			r.Route("/preferences/theme", func(r chi.Router) {
				r.Get("/", controllers.ThemeFetch(sessions, logg))
				r.Put("/", controllers.ThemeUpdate(sessions, logg))
				r.Post("/toggle", controllers.ThemeToggle(sessions, logg))
			})

			r.Get("/checkout/quote", controllers.CheckoutQuote(checkoutService, sessions, logg))
			r.Post("/checkout", controllers.CheckoutSubmit(checkoutService, sessions, logg))
		})
	})

	return r
}
