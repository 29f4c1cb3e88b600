package router

import (
	"net/http"

	_ "pet-feeding-ranking/internal/docs"
	"pet-feeding-ranking/internal/domain/ranking"
	"pet-feeding-ranking/internal/middleware"
	"pet-feeding-ranking/internal/platform/logger"
	"pet-feeding-ranking/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Ranking *ranking.Service

	Logger logger.Logger

	// Opcional: sin gatherer no se monta /metrics.
	Gatherer prometheus.Gatherer

	// Opcional: limita solo /rankings (health y metrics quedan libres).
	RateLimiter *middleware.RateLimiter
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if opts.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(opts.Gatherer))
	}

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Rankings
	r.Group(func(rr chi.Router) {
		if opts.RateLimiter != nil {
			rr.Use(opts.RateLimiter.Middleware)
		}
		ranking.RegisterRoutes(rr, opts.Ranking)
	})

	return r
}
