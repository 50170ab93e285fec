package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	loggerAdapter "github.com/showroomhq/commission-service/internal/adapters/logger"
	"github.com/showroomhq/commission-service/internal/adapters/postgres"
	"github.com/showroomhq/commission-service/internal/adapters/secrets"
	"github.com/showroomhq/commission-service/internal/adapters/shopify"
	"github.com/showroomhq/commission-service/internal/adapters/xero"
	"github.com/showroomhq/commission-service/internal/config"
	"github.com/showroomhq/commission-service/internal/domain/ports"
	"github.com/showroomhq/commission-service/internal/handlers/api"
	reconcileService "github.com/showroomhq/commission-service/internal/services/reconcile"
	reportService "github.com/showroomhq/commission-service/internal/services/report"
	vendorService "github.com/showroomhq/commission-service/internal/services/vendor"
	"github.com/showroomhq/commission-service/pkg/middleware"
)

func main() {
	logger := initLogger()
	defer logger.Sync()

	logger.Info("Starting commission service",
		zap.String("version", "0.1.0"),
	)

	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	dbPool, err := initDatabase(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbPool.Close()

	logger.Info("Database connection established",
		zap.String("database", cfg.Database.Database),
	)

	deps := initDependencies(dbPool, cfg, logger)

	// Rate limiter: 10 requests per second per IP, burst of 20
	rateLimiter := middleware.NewRateLimiter(10, 20)
	defer rateLimiter.Shutdown()

	router := api.NewRouter(api.Handlers{
		Reports:    deps.reportHandler,
		Vendors:    deps.vendorHandler,
		Reconcile:  deps.reconcileHandler,
		Statements: deps.statementHandler,
		Xero:       deps.xeroHandler,
	}, rateLimiter)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening",
			zap.String("address", httpServer.Addr),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to serve HTTP", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	logger.Info("Server stopped")
}

// Dependencies holds all initialized services and handlers
type Dependencies struct {
	reportHandler    *api.ReportHandler
	vendorHandler    *api.VendorHandler
	reconcileHandler *api.ReconcileHandler
	statementHandler *api.StatementHandler
	xeroHandler      *api.XeroHandler
}

// initLogger initializes the logger
func initLogger() *zap.Logger {
	env := os.Getenv("ENVIRONMENT")

	if env == "production" {
		zapCfg := zap.NewProductionConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		logger, _ := zapCfg.Build()
		return logger
	}

	logger, _ := zap.NewDevelopment()
	return logger
}

// initDatabase initializes the PostgreSQL connection pool
func initDatabase(cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	poolConfig.MaxConns = cfg.Database.MaxConns
	poolConfig.MinConns = cfg.Database.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// initSecretManager selects the secret backend from configuration
func initSecretManager(ctx context.Context, cfg *config.Config, logger *zap.Logger) ports.SecretManager {
	if cfg.Secrets.Backend == "aws" {
		sm, err := secrets.NewAWSSecretManager(ctx, secrets.DefaultAWSConfig(cfg.Secrets.Region), logger)
		if err != nil {
			logger.Fatal("Failed to initialize AWS Secrets Manager", zap.Error(err))
		}
		logger.Info("Using AWS Secrets Manager",
			zap.String("region", cfg.Secrets.Region),
		)
		return sm
	}

	logger.Info("Using environment secret backend")
	return secrets.NewEnvSecretManager()
}

// resolveSecret fills in a credential from the secret backend when it was not
// provided through the environment. A missing credential is not fatal: the
// Shopify source degrades to the sample dataset, and Xero endpoints report
// auth required.
func resolveSecret(ctx context.Context, sm ports.SecretManager, cfg *config.Config, current, name string, logger *zap.Logger) string {
	if current != "" {
		return current
	}
	path := fmt.Sprintf("%s/%s", cfg.Secrets.Prefix, name)
	secret, err := sm.GetSecret(ctx, path)
	if err != nil {
		logger.Warn("Secret not available",
			zap.String("path", path),
			zap.Error(err),
		)
		return ""
	}
	return secret.Value
}

// initDependencies initializes all adapters, services and handlers
func initDependencies(dbPool *pgxpool.Pool, cfg *config.Config, logger *zap.Logger) *Dependencies {
	ctx := context.Background()
	logPort := loggerAdapter.NewZap(logger)

	db := postgres.NewDBExecutor(dbPool)
	vendorRepo := postgres.NewVendorRepository(db)
	reportRepo := postgres.NewReportRepository(db)
	integrationRepo := postgres.NewIntegrationRepository(db)

	secretManager := initSecretManager(ctx, cfg, logger)

	shopifyCfg := shopify.DefaultConfig()
	shopifyCfg.StoreDomain = cfg.Shopify.StoreDomain
	shopifyCfg.AccessToken = resolveSecret(ctx, secretManager, cfg, cfg.Shopify.AccessToken, "shopify-admin-access-token", logger)
	shopifyCfg.Timeout = time.Duration(cfg.Shopify.Timeout) * time.Second
	shopifyHTTP := &http.Client{Timeout: shopifyCfg.Timeout}
	liveSource := shopify.NewClient(shopifyCfg, shopifyHTTP, logPort)
	sampleSource := shopify.NewSampleSource(cfg.Shopify.SamplePath)

	xeroCfg := xero.DefaultConfig()
	xeroCfg.ClientID = cfg.Xero.ClientID
	xeroCfg.ClientSecret = resolveSecret(ctx, secretManager, cfg, cfg.Xero.ClientSecret, "xero-client-secret", logger)
	xeroCfg.RedirectURI = cfg.Xero.RedirectURI
	xeroCfg.Timeout = time.Duration(cfg.Xero.Timeout) * time.Second
	xeroHTTP := &http.Client{Timeout: xeroCfg.Timeout}
	xeroClient := xero.NewClient(xeroCfg, integrationRepo, xeroHTTP, logPort)

	reportSvc := reportService.NewService(db, reportRepo, vendorRepo, liveSource, sampleSource, logPort)
	vendorSvc := vendorService.NewService(vendorRepo, logPort)
	reconcileSvc := reconcileService.NewService(db, reportRepo, vendorRepo, xeroClient, logPort)

	return &Dependencies{
		reportHandler:    api.NewReportHandler(reportSvc, logger),
		vendorHandler:    api.NewVendorHandler(vendorSvc, logger),
		reconcileHandler: api.NewReconcileHandler(reconcileSvc, logger),
		statementHandler: api.NewStatementHandler(reportSvc, logger),
		xeroHandler:      api.NewXeroHandler(xeroClient, logger),
	}
}
