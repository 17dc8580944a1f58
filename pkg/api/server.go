package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/azybler/map_distance/pkg/config"
	"github.com/azybler/map_distance/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// NewHandler builds the router with all routes and the middleware chain.
func NewHandler(cfg config.ServerConfig, handlers *Handlers, log *zap.Logger) http.Handler {
	log = logger.OrNop(log)

	router := httprouter.New()
	router.GET("/api/v1/distance", handlers.HandleDistance)
	router.POST("/api/v1/route", handlers.HandleRoute)
	router.GET("/api/v1/health", handlers.HandleHealth)
	router.GET("/api/v1/stats", handlers.HandleStats)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "")
	})
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	})

	chain := alice.New(recoverPanic(log), observe(log), securityHeaders)
	// No origins means no CORS headers at all.
	if len(cfg.CORSOrigins) > 0 {
		corsHandler := cors.New(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		})
		chain = chain.Append(corsHandler.Handler)
	}
	if cfg.RateLimit > 0 {
		chain = chain.Append(rateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)))
	}
	chain = chain.Append(limitConcurrency(max(cfg.MaxConcurrent, 1)), timeout(cfg.RequestTimeout))

	return chain.Then(router)
}

// NewServer creates an HTTP server with all routes and middleware.
func NewServer(cfg config.ServerConfig, handlers *Handlers, log *zap.Logger) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      NewHandler(cfg, handlers, log),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// ListenAndServe runs srv until ctx is canceled, then shuts it down
// gracefully.
func ListenAndServe(ctx context.Context, srv *http.Server, log *zap.Logger) error {
	log = logger.OrNop(log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down", zap.Error(context.Cause(ctx)))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
