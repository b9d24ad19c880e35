package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/municipal-assets/internal/auth"
	"github.com/ukydev/municipal-assets/internal/client"
	"github.com/ukydev/municipal-assets/internal/config"
	"github.com/ukydev/municipal-assets/internal/db"
	"github.com/ukydev/municipal-assets/internal/handlers"
	"github.com/ukydev/municipal-assets/internal/logger"
	"github.com/ukydev/municipal-assets/internal/middleware"
	"github.com/ukydev/municipal-assets/internal/notify"
	"github.com/ukydev/municipal-assets/internal/service"
	"github.com/ukydev/municipal-assets/internal/storage"
	"go.mongodb.org/mongo-driver/mongo"
)

// mongoConnectTimeout bounds the journal connection at startup.
const mongoConnectTimeout = 15 * time.Second

// deps are the collaborators that need a network connection to build.
type deps struct {
	Doer       client.Doer
	Store      service.ObjectStore
	Dispatcher service.Dispatcher
	Checks     map[string]handlers.HealthCheck
}

// newRouter wires services and handlers over the configured backends.
func newRouter(cfg *config.Config, d deps) *handlers.Router {
	maintenanceClient := client.NewMaintenanceClient(cfg.Backends.MaintenanceURL, d.Doer)
	receiptClient := client.NewReceiptClient(cfg.Backends.ReceiptsURL, d.Doer)
	directoryClient := client.NewDirectoryClient(cfg.Backends.DirectoryURL, d.Doer)

	authService := auth.NewService(cfg.JWT.Secret, cfg.JWT.Expiry)

	return &handlers.Router{
		Auth:        middleware.NewAuthMiddleware(authService),
		Profile:     handlers.NewAuthHandler(),
		RateLimiter: middleware.NewRateLimitMiddleware(),
		RateLimit:   cfg.RateLimit.Requests,
		RateWindow:  cfg.RateLimit.WindowSeconds,
		Maintenance: handlers.NewMaintenanceHandler(service.NewMaintenanceService(maintenanceClient, d.Dispatcher)),
		Receipts:    handlers.NewReceiptHandler(service.NewReceiptService(receiptClient, directoryClient)),
		Directory:   handlers.NewDirectoryHandler(service.NewDirectoryService(directoryClient)),
		Uploads:     handlers.NewUploadHandler(service.NewUploadService(d.Store, cfg.MaxUploadBytes()), cfg.MaxUploadBytes()),
		Checks:      d.Checks,
	}
}

// newServer applies the configured timeouts to handler.
func newServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Address(),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       2 * cfg.Server.WriteTimeout,
	}
}

// openJournal connects to the notification journal. The portal runs without
// one when Mongo is unreachable; failed notifications are then only logged.
func openJournal(ctx context.Context, cfg config.MongoConfig) (db.NotificationCollection, *mongo.Client) {
	cctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	mc, err := db.ConnectMongo(cctx, cfg.URI)
	if err != nil {
		log.WithError(err).Warn("notification journal unavailable, failed notifications will not be replayed")
		return nil, nil
	}
	journal, err := db.NewNotificationCollection(cctx, mc, cfg.Database, cfg.Collection)
	if err != nil {
		log.WithError(err).Warn("notification journal unavailable, failed notifications will not be replayed")
		_ = mc.Disconnect(context.Background())
		return nil, nil
	}
	log.WithField("database", cfg.Database).Info("connected to notification journal")
	return journal, mc
}

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "Path to an optional YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	if cfg.UsesDefaultSecret() {
		log.Warn("JWT_SECRET is not set, using the development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		log.WithError(err).Fatal("Failed to configure object storage")
	}

	doer := client.NewHTTPClient(cfg.Backends.Timeout)
	transport, closeTransport, err := notify.NewTransport(cfg, doer)
	if err != nil {
		log.WithError(err).Fatal("Failed to configure asset notifications")
	}
	defer closeTransport()

	checks := map[string]handlers.HealthCheck{}
	journal, mongoClient := openJournal(ctx, cfg.Mongo)
	if mongoClient != nil {
		defer func() { _ = mongoClient.Disconnect(context.Background()) }()
		checks["journal"] = func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }
	}

	router := newRouter(cfg, deps{
		Doer:       doer,
		Store:      store,
		Dispatcher: notify.NewBestEffort(transport, journal),
		Checks:     checks,
	})
	srv := newServer(cfg, router.Handler())

	go func() {
		log.WithFields(log.Fields{
			"addr":      srv.Addr,
			"transport": cfg.Notifications.Transport,
		}).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}
	log.Info("HTTP server stopped")
}
