package api

import (
	v1 "github.com/flexprice/taxadmin/internal/api/v1"
	"github.com/flexprice/taxadmin/internal/config"
	"github.com/flexprice/taxadmin/internal/logger"
	"github.com/flexprice/taxadmin/internal/metrics"
	"github.com/flexprice/taxadmin/internal/rest/middleware"
	"github.com/flexprice/taxadmin/internal/sentry"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health  *v1.HealthHandler
	Tax     *v1.TaxHandler
	Country *v1.CountryHandler
}

func NewRouter(
	handlers Handlers,
	cfg *config.Configuration,
	logger *logger.Logger,
	reporter *sentry.Service,
	m *metrics.Metrics,
) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.SentryMiddleware(cfg),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.LoggingMiddleware(logger),
		middleware.ErrorHandler(reporter),
	)

	router.GET("/health", handlers.Health.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	taxes := router.Group("/taxes")
	{
		taxes.GET("", handlers.Tax.ListTaxes)
		taxes.PUT("/:id", handlers.Tax.UpdateTax)
	}

	countries := router.Group("/countries")
	{
		countries.GET("", handlers.Country.ListCountries)
	}
}
