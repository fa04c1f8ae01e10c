package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/flexprice/taxadmin/internal/api"
	v1 "github.com/flexprice/taxadmin/internal/api/v1"
	"github.com/flexprice/taxadmin/internal/cache"
	"github.com/flexprice/taxadmin/internal/config"
	"github.com/flexprice/taxadmin/internal/fallback"
	"github.com/flexprice/taxadmin/internal/httpclient"
	"github.com/flexprice/taxadmin/internal/logger"
	"github.com/flexprice/taxadmin/internal/metrics"
	"github.com/flexprice/taxadmin/internal/query"
	"github.com/flexprice/taxadmin/internal/remote"
	"github.com/flexprice/taxadmin/internal/sentry"
	"github.com/flexprice/taxadmin/internal/service"
	"github.com/flexprice/taxadmin/internal/types"
	"github.com/flexprice/taxadmin/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// @title Tax Admin API
// @version 1.0
// @description Lists and edits taxes held by a remote tax service
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	// Initialize Fx application
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Monitoring
			sentry.NewSentryService,
			metrics.New,

			// Cache
			cache.Initialize,

			// HTTP Client
			httpclient.NewDefaultClient,

			// Remote tax service
			fallback.NewDataset,
			remote.NewClient,
			query.NewCache,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,
			service.NewTaxService,
			service.NewCountryService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			api.NewRouter,
		),
		fx.Invoke(
			// Validator
			validator.NewValidator,

			sentry.RegisterHooks,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	taxService service.TaxService,
	countryService service.CountryService,
) api.Handlers {
	return api.Handlers{
		Health:  v1.NewHealthHandler(logger),
		Tax:     v1.NewTaxHandler(taxService, logger),
		Country: v1.NewCountryHandler(countryService, logger),
	}
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal:
		log.Infow("running in local mode", "remote", cfg.Remote.BaseURL)
		startAPIServer(lc, r, cfg, log)
	case types.ModeAPI:
		gin.SetMode(gin.ReleaseMode)
		startAPIServer(lc, r, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return srv.Shutdown(ctx)
		},
	})
}
