package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"orderpdf/internal/config"
	"orderpdf/internal/host"
	"orderpdf/internal/infrastructure/database"
	"orderpdf/internal/infrastructure/i18n"
	"orderpdf/internal/plugin/orderpdf"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := host.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	version := host.MustParseVersion(cfg.HostVersion)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		log.Fatalf("migrations: %v", err)
	}
	pool, err := database.NewPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	app := host.NewApplication(host.Options{
		Config:        cfg.HostConfig(),
		Version:       version,
		Locale:        cfg.Locale,
		Translator:    i18n.NewTranslator(cfg.Locale, logger),
		EntityManager: database.NewEntityManager(pool),
		Logger:        logger,
	})
	if err := app.Register(orderpdf.NewProvider()); err != nil {
		log.Fatalf("register add-ons: %v", err)
	}
	if err := app.Boot(); err != nil {
		log.Fatalf("boot: %v", err)
	}

	reg := prometheus.NewRegistry()
	routes, err := app.Handler(reg)
	if err != nil {
		log.Fatalf("routes: %v", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/", adminFromHeader(routes))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	host.Logger(app.Container()).Info("host: listening", "addr", cfg.HTTPAddr, "version", version.String())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("http: %v", err)
	}
}

// adminFromHeader trusts the X-Admin-Id header set by the authenticating
// reverse proxy in front of this process.
func adminFromHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, err := strconv.ParseInt(r.Header.Get("X-Admin-Id"), 10, 64); err == nil && id > 0 {
			r = r.WithContext(host.WithAdmin(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}
