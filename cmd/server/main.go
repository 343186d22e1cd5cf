package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"wellity/backend/internal/api"
	"wellity/backend/internal/config"
	"wellity/backend/internal/logger"
	"wellity/backend/internal/repository"
	"wellity/backend/internal/repository/mongo"
	"wellity/backend/internal/service"
	"wellity/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// @title Wellity Fitness API
// @version 1.0
// @description Adaptive workout generation and subscription payment simulation.
// @contact.name API Support
// @contact.email support@example.com
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run wires the server and blocks until a signal or a serve error. Errors are
// logged before they are returned so deferred cleanup still runs.
func run() error {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		// No logger yet; the config decides its level.
		logger.New("info", false).Errorw("Could not load config", "error", err)
		return err
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Development)
	defer log.Sync()

	log.Infow("Starting Wellity server",
		"version", api.Version,
		"address", cfg.Server.Address,
		"persistence", cfg.Persistence.Driver)

	// --- Initialize Gin Engine ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	// gin trusts X-Forwarded-For from every peer by default; the rate limiter keys on ClientIP.
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		log.Errorw("Invalid trusted proxies", "proxies", cfg.Server.TrustedProxies, "error", err)
		return err
	}

	// --- Workout Store ---
	store, closeStore, err := newWorkoutStore(context.Background(), cfg, log)
	if err != nil {
		log.Errorw("Could not initialize workout store", "driver", cfg.Persistence.Driver, "error", err)
		return err
	}
	defer closeStore()

	// --- Initialize Services ---
	workoutService := service.NewWorkoutService(store, service.DefaultRandom(), log)
	paymentService := service.NewPaymentService(service.DefaultRandom(), log)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	limiter := api.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log)
	limiter.StartCleanup(ctx, time.Minute)

	api.SetupRoutes(router, workoutService, paymentService, limiter, log)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	return serve(server, quit, cfg.Server.ShutdownTimeout, log)
}

// serve runs the server until quit fires or ListenAndServe fails, then shuts it
// down gracefully. A listen failure is returned; a signal-driven stop returns nil.
func serve(server *http.Server, quit <-chan os.Signal, shutdownTimeout time.Duration, log *logger.Logger) error {
	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	log.Infow("Server listening", "address", server.Addr)

	// --- Graceful Shutdown ---
	var runErr error
	select {
	case sig := <-quit:
		log.Infow("Shutting down server...", "signal", sig.String())
	case runErr = <-serverErr:
		log.Errorw("ListenAndServe error", "error", runErr)
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}

	log.Infow("Server exiting.")
	return runErr
}

// newWorkoutStore builds the store selected by persistence.driver. The returned
// close func is always safe to call.
func newWorkoutStore(ctx context.Context, cfg config.Config, log *logger.Logger) (repository.WorkoutStore, func(), error) {
	noop := func() {}

	switch cfg.Persistence.Driver {
	case config.DriverMongo:
		client, err := mongo.ConnectDB(ctx, cfg.Database.URI)
		if err != nil {
			return nil, noop, err
		}
		db := client.Database(cfg.Database.Name)
		log.Infow("Database connection established", "database", cfg.Database.Name)

		// Index creation runs in the background so a slow server doesn't block startup.
		go func() {
			idxCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := mongo.EnsureWorkoutIndexes(idxCtx, db); err != nil {
				log.Warnw("Failed to create workout indexes", "error", err)
				return
			}
			log.Debugw("Workout indexes ensured")
		}()

		closeFn := func() {
			log.Infow("Disconnecting MongoDB...")
			if err := mongo.DisconnectDB(client); err != nil {
				log.Errorw("Failed to disconnect MongoDB", "error", err)
			}
		}
		return mongo.NewMongoWorkoutRepository(db), closeFn, nil

	case config.DriverS3:
		store, err := storage.NewS3WorkoutStore(ctx, cfg.S3, log)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	}

	log.Infow("Workout persistence disabled; plans are acknowledged only")
	return repository.AckStore{}, noop, nil
}
