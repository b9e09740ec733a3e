package app

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"bundle-manager/app/controller"
	"bundle-manager/app/router"
	"bundle-manager/config"
	"bundle-manager/db"
	"bundle-manager/pricing"
	"bundle-manager/repository"
	"bundle-manager/service"
	"bundle-manager/view"
)

// Services are the application services shared by the HTTP server and the CLI commands
type Services struct {
	Bundle  *service.BundleService
	Product *service.ProductService
	Export  *service.ExportService
	Import  *service.ImportService
}

// NewServices wires repositories and services. The database must be initialized.
func NewServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	// Initialize repositories
	bundleRepo := repository.NewBundleRepository()
	sessionRepo := repository.NewSessionRepository()
	reconciliationRepo := repository.NewReconciliationRepository()

	platformService := service.NewPlatformService(cfg.Shopify)

	engine, err := pricing.NewEngine(cfg.PricingConfigPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load pricing config")
	}

	optimizer := service.NewImageOptimizer(cfg.ThumbnailCacheDir)
	if err := optimizer.EnsureCacheDir(); err != nil {
		return nil, err
	}

	bundleService := service.NewBundleService(bundleRepo, sessionRepo, reconciliationRepo, platformService, engine)

	// Bulk import is only available with Drive credentials
	var importService *service.ImportService
	if cfg.GoogleCredentialsPath != "" {
		driveService, err := service.NewDriveService(ctx, cfg.GoogleCredentialsPath)
		if err != nil {
			return nil, err
		}
		importService = service.NewImportService(driveService, bundleService)
	} else {
		log.Println("⚠️  GOOGLE_APPLICATION_CREDENTIALS is not set, bulk import is disabled")
		importService = service.NewImportService(nil, bundleService)
	}

	return &Services{
		Bundle:  bundleService,
		Product: service.NewProductService(sessionRepo, platformService, optimizer),
		Export:  service.NewExportService(cfg.ChromePath),
		Import:  importService,
	}, nil
}

// Initialize initializes the application and returns its HTTP handler
func Initialize(ctx context.Context, cfg *config.Config) (http.Handler, error) {
	connStr, err := cfg.Database.ConnectionString()
	if err != nil {
		return nil, err
	}

	// Initialize database connection
	if err := db.InitDB(ctx, connStr); err != nil {
		return nil, errors.Wrap(err, "failed to initialize database")
	}

	services, err := NewServices(ctx, cfg)
	if err != nil {
		return nil, err
	}

	view.SetAPIKey(cfg.Shopify.APIKey)

	// Create controllers
	controllers := &router.Controllers{
		Dashboard: controller.NewDashboardController(services.Bundle),
		Bundle:    controller.NewBundleController(services.Bundle, services.Export, services.Import),
		Product:   controller.NewProductController(services.Product),
	}

	return router.SetupRoutes(controllers, router.Auth{
		APIKey:    cfg.Shopify.APIKey,
		APISecret: cfg.Shopify.APISecret,
	}), nil
}
