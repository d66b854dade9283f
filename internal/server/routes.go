package server

import (
	"github.com/Lutefd/nbu-rates/internal/handler"
	api_middleware "github.com/Lutefd/nbu-rates/internal/middleware"
	"github.com/Lutefd/nbu-rates/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes(rateService service.RateServiceInterface) {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Logger)
	router.Use(api_middleware.Metrics)

	rateHandler := handler.NewRateHandler(rateService)
	rateLimiter := api_middleware.NewRateLimiter(s.config.AllowedRPS)

	router.Get("/", rateHandler.Index)
	router.Get("/healthz", handler.HandlerReadiness)
	router.Handle("/metrics", promhttp.Handler())
	router.With(rateLimiter.Limit).Get("/update_rates", rateHandler.UpdateRates)
	router.Get("/test_nbu", rateHandler.TestNBU)
	s.router = router
}
