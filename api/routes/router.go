package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kvarga/webshop-backend/api/controllers"
	"github.com/kvarga/webshop-backend/api/middleware"
	"github.com/kvarga/webshop-backend/internal/auth"
	"github.com/kvarga/webshop-backend/internal/products"
	"github.com/kvarga/webshop-backend/internal/users"
	"github.com/kvarga/webshop-backend/internal/wishlist"
	"github.com/kvarga/webshop-backend/pkg/auth/session"
	"github.com/kvarga/webshop-backend/pkg/config"
	"github.com/kvarga/webshop-backend/pkg/logger"
	"github.com/kvarga/webshop-backend/pkg/metrics"
	"github.com/kvarga/webshop-backend/pkg/redis"
)

// Deps holds everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       *redis.Client
	Sessions    session.AccessSessionChecker
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry

	AuthService     auth.Service
	ProductService  products.Service
	UserService     users.Service
	WishlistService wishlist.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.App.CORSAllowedOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.RateLimit.LoginWindow,
		cfg.RateLimit.LoginIPLimit,
		cfg.RateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.RateLimit.RegisterWindow,
		cfg.RateLimit.RegisterIPLimit,
		cfg.RateLimit.RegisterEmailLimit,
	)

	requireAuth := middleware.Auth(cfg.JWT, deps.Sessions, logg)
	requireAdmin := middleware.RequireAdmin(logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(map[string]controllers.Pinger{
			"database": deps.DB,
			"redis":    pingerOrNil(deps.Redis),
		}, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, rateStoreOrNil(deps.Redis), logg)).
			Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, rateStoreOrNil(deps.Redis), logg)).
			Post("/login", controllers.AuthLogin(deps.AuthService, logg))

		r.Get("/products", controllers.ProductsList(deps.ProductService, logg))
		r.Get("/products/{id}", controllers.ProductsGet(deps.ProductService, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))

			r.Get("/wishlists", controllers.WishlistList(deps.WishlistService, logg))
			r.Post("/wishlists", controllers.WishlistAdd(deps.WishlistService, logg))
			r.Get("/wishlists/{id}", controllers.WishlistGet(deps.WishlistService, logg))
			r.Delete("/wishlists/{id}", controllers.WishlistRemove(deps.WishlistService, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)

				r.Post("/products", controllers.ProductsCreate(deps.ProductService, logg))
				r.Put("/products/{id}", controllers.ProductsUpdate(deps.ProductService, logg))
				r.Delete("/products/{id}", controllers.ProductsDelete(deps.ProductService, logg))

				r.Get("/users", controllers.UsersList(deps.UserService, logg))
				r.Get("/users/{id}", controllers.UsersGet(deps.UserService, logg))
				r.Put("/users/{id}", controllers.UsersUpdate(deps.UserService, logg))
				r.Delete("/users/{id}", controllers.UsersDelete(deps.UserService, logg))
				r.Post("/users/{id}/restore", controllers.UsersRestore(deps.UserService, logg))

				r.Get("/admin/wishlists", controllers.WishlistListAll(deps.WishlistService, logg))
				r.Get("/admin/users/{userId}/wishlists", controllers.WishlistListForUser(deps.WishlistService, logg))
			})
		})
	})

	return r
}

// pingerOrNil keeps a typed-nil redis client from passing the interface nil check.
func pingerOrNil(client *redis.Client) controllers.Pinger {
	if client == nil {
		return nil
	}
	return client
}

func rateStoreOrNil(client *redis.Client) middleware.RateStore {
	if client == nil {
		return nil
	}
	return client
}
