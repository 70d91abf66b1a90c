package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jd-backend/internal/auth"
	"jd-backend/internal/config"
	"jd-backend/internal/db"
	"jd-backend/internal/httpapi"
	"jd-backend/internal/logger"
	"jd-backend/internal/metrics"
	"jd-backend/internal/middleware"
	"jd-backend/internal/order"
	"jd-backend/internal/product"
	"jd-backend/internal/storage"
	"jd-backend/internal/user"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const shutdownGrace = 30 * time.Second

var (
	initDBFunc      = db.InitDB
	startServerFunc = serve
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler, limiter, err := newServer(cfg, database)
	if err != nil {
		return err
	}
	go limiter.Run(ctx)

	addr := ":" + cfg.AppPort
	logger.L().Info("JD backend listening",
		zap.String("addr", addr),
		zap.String("env", cfg.AppEnv),
		zap.String("catalog_mode", cfg.CatalogMode),
		zap.String("total_policy", cfg.TotalPolicy),
	)
	return startServerFunc(ctx, addr, handler)
}

// newServer wires repositories, services and the HTTP stack.
func newServer(cfg *config.Config, database *sql.DB) (http.Handler, *middleware.RateLimiter, error) {
	store, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		return nil, nil, err
	}

	serverMetrics := metrics.NewServerMetrics()

	orderSvc := order.NewService(order.NewRepository(database), order.Rules{
		Catalog: order.CatalogMode(cfg.CatalogMode),
		Total:   order.TotalPolicy(cfg.TotalPolicy),
	}, serverMetrics)
	productSvc := product.NewService(product.NewRepository(database), store)
	userSvc := user.NewService(user.NewRepository(database), store)

	authorizer := auth.NewAuthorizer(cfg.AdminKey, cfg.AdminKeyHash, cfg.JWTSecret)
	if !authorizer.Enabled() {
		logger.L().Warn("no admin credentials configured, admin routes will reject every request")
	}

	api := &httpapi.Handler{
		Orders:   orderSvc,
		Products: productSvc,
		Users:    userSvc,
		Tokens:   authorizer,
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	return setupRouter(cfg, api, authorizer, serverMetrics, store, database, limiter), limiter, nil
}

func setupRouter(
	cfg *config.Config,
	api *httpapi.Handler,
	admin middleware.AdminChecker,
	serverMetrics *metrics.ServerMetrics,
	store *storage.DiskStore,
	database httpapi.Pinger,
	limiter *middleware.RateLimiter,
) http.Handler {

	r := mux.NewRouter()
	r.Use(serverMetrics.Middleware)

	r.HandleFunc("/", httpapi.Root).Methods(http.MethodGet)
	r.HandleFunc("/health", httpapi.Health(database)).Methods(http.MethodGet)
	r.Handle("/metrics", serverMetrics.Handler()).Methods(http.MethodGet)
	r.PathPrefix(storage.PublicPrefix).Handler(
		http.StripPrefix(storage.PublicPrefix, http.FileServer(http.Dir(store.Root()))),
	).Methods(http.MethodGet, http.MethodHead)

	api.Register(r, middleware.AdminOnly(admin))

	var h http.Handler = r
	h = middleware.Timeout(cfg.RequestTimeout)(h)
	h = limiter.Middleware(h)
	h = middleware.Recover(h)
	h = middleware.CORS(cfg.CORSOrigin)(h)
	h = logger.LoggingMiddleware(h)
	h = logger.RequestIDMiddleware(h)
	return h
}

// serve runs until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down", zap.Duration("grace", shutdownGrace))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
