package http

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Fras28/dynnamo-cart/pkg/health"
	"github.com/Fras28/dynnamo-cart/pkg/middleware"
)

// RouterConfig bundles the dependencies of the HTTP surface.
type RouterConfig struct {
	Cart           *CartHandler
	Health         *health.Handler
	Logger         *slog.Logger
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewRouter assembles the service's chi router with the full middleware
// chain: recovery, compression, timeouts, logging, metrics and tracing.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.RealIP)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(cfg.requestTimeout()))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("cart"))
	r.Use(middleware.Tracing("cart-service"))
	r.Use(middleware.RequestLogger(cfg.Logger))

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsCfg.AllowedOrigins = cfg.AllowedOrigins
	}
	r.Use(middleware.CORS(corsCfg))

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(RequireSession)

		r.Get("/", cfg.Cart.Get)
		r.Delete("/", cfg.Cart.Clear)
		r.Put("/open", cfg.Cart.SetOpen)
		r.Post("/checkout", cfg.Cart.Checkout)

		r.Post("/items", cfg.Cart.AddItem)
		r.Put("/items/{productID}", cfg.Cart.UpdateQuantity)
		r.Delete("/items/{productID}", cfg.Cart.RemoveItem)
	})

	return r
}

func (cfg RouterConfig) requestTimeout() time.Duration {
	if cfg.RequestTimeout > 0 {
		return cfg.RequestTimeout
	}
	return 30 * time.Second
}
