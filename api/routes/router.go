package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/api/controllers"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/api/middleware"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/config"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/enums"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/logger"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/metrics"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/redis"
)

// Deps are the services and health checks the router mounts.
type Deps struct {
	Users interface {
		controllers.UserService
		controllers.Authenticator
		middleware.PrincipalLookup
	}
	Products controllers.ProductService
	Orders   controllers.OrderService
	Cart     controllers.CartService

	DB    controllers.Pinger
	Redis *redis.Client

	// Gatherer serves /metrics; Registerer receives the HTTP metrics. Both
	// may be nil.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	if logg == nil {
		logg = logger.Nop()
	}
	r := chi.NewRouter()
	enforce := cfg.FeatureFlags.EnforceRoles

	var redisPinger controllers.Pinger
	var limiter middleware.WindowLimiter
	if deps.Redis != nil {
		redisPinger = deps.Redis
		limiter = deps.Redis
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(metrics.NewHTTPMetrics(deps.Registerer)),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Auth(cfg.JWT, logg),
	)

	loginPolicy := middleware.RateLimitPolicy{
		Name:       "login",
		Window:     cfg.AuthRateLimit.LoginWindow,
		IPLimit:    cfg.AuthRateLimit.LoginIPLimit,
		EmailLimit: cfg.AuthRateLimit.LoginEmailLimit,
	}
	registerPolicy := middleware.RateLimitPolicy{
		Name:    "register",
		Window:  cfg.AuthRateLimit.RegisterWindow,
		IPLimit: cfg.AuthRateLimit.RegisterIPLimit,
	}

	requireAuth := middleware.RequireAuth(deps.Users, logg)
	requireAdmin := middleware.RequireRole(enums.RoleAdmin, enforce, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisPinger))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).
		Post("/auth/login", controllers.AuthLogin(deps.Users, logg))

	r.Route("/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(deps.Products, logg))
		r.Get("/{productId}", controllers.ProductGet(deps.Products, logg))
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, requireAdmin)
			r.Post("/", controllers.ProductCreate(deps.Products, enforce, logg))
			r.Put("/{productId}", controllers.ProductReplace(deps.Products, enforce, logg))
			r.Delete("/{productId}", controllers.ProductDelete(deps.Products, enforce, logg))
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, limiter, logg)).
			Post("/", controllers.UserCreate(deps.Users, logg))
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.With(requireAdmin).Get("/", controllers.UserList(deps.Users, enforce, logg))
			r.Get("/{userId}", controllers.UserGet(deps.Users, enforce, logg))
			r.Patch("/{userId}", controllers.UserPatch(deps.Users, enforce, logg))
		})
	})

	r.Route("/orders", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", controllers.OrderList(deps.Orders, enforce, logg))
		r.Get("/{orderId}", controllers.OrderGet(deps.Orders, enforce, logg))
		r.Post("/", controllers.OrderCreate(deps.Orders, enforce, logg))
		r.With(requireAdmin).Put("/{orderId}", controllers.OrderReplace(deps.Orders, enforce, logg))
	})

	r.Route("/cart", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", controllers.CartList(deps.Cart, enforce, logg))
		r.Post("/", controllers.CartCreate(deps.Cart, enforce, logg))
		r.Patch("/{rowId}", controllers.CartPatch(deps.Cart, enforce, logg))
		r.Delete("/{rowId}", controllers.CartDelete(deps.Cart, enforce, logg))
	})

	return r
}
