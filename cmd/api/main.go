package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crm-leads/internal/cache"
	"crm-leads/internal/config"
	"crm-leads/internal/leads"
	"crm-leads/internal/middleware"
	"crm-leads/internal/programs"
	"crm-leads/internal/transport"
	"crm-leads/internal/validation"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		var err error
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if cfg.RedisURL != "" {
			logger.Info("redis connected (url)")
		} else {
			logger.Info("redis connected", slog.String("addr", cfg.RedisAddr))
		}
		defer redisCache.Close()
		cacheStore = redisCache
	}

	metrics := leads.NewMetrics(nil)
	val := validation.New()

	catalog := programs.NewClient(cfg.CRMBaseURL, logger,
		programs.WithHTTPClient(&http.Client{Timeout: cfg.CRMTimeout}),
		programs.WithRetry(cfg.ProgramsRetryMax, 200*time.Millisecond, 2*time.Second),
		programs.WithCache(cacheStore, cfg.CacheTTL()),
	)
	gateway := leads.NewGateway(cfg.CRMBaseURL, logger,
		leads.WithGatewayHTTPClient(&http.Client{Timeout: cfg.CRMTimeout}),
		leads.WithGatewayMetrics(metrics),
		leads.WithExternalIdentity(cfg.ExternalCampaignID, cfg.ExternalUserID),
	)
	service := leads.NewService(
		leads.NewPipeline(val, leads.WithStrictPrograms(cfg.StrictPrograms)),
		gateway,
		catalog,
		leads.Defaults{CampaignID: cfg.DefaultCampaignID, UserID: cfg.DefaultUserID},
		metrics,
		logger,
	)

	programsHandler := programs.NewHandler(catalog, logger)
	leadsHandler := leads.NewHandler(service, val, logger, cfg.CRMTimeout+5*time.Second)

	// Warm the catalog so the first form load does not wait on the CRM.
	go func() {
		warmCtx, warmCancel := context.WithTimeout(context.Background(), cfg.CRMTimeout)
		defer warmCancel()
		logger.Info("programs catalog warmed", slog.Int("count", catalog.Catalog(warmCtx).Len()))
	}()

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigin))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	externalLimiter := middleware.NewRateLimiter(cfg.RateLimitExternal, cfg.RateLimitWindow())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Get("/programs", programsHandler.List)
		api.Post("/leads", leadsHandler.Create)
		api.With(externalLimiter.Middleware).Post("/leads/external", leadsHandler.CreateExternal)
		api.Get("/leads/{id}", leadsHandler.Get)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr), slog.String("env", cfg.Env), slog.String("crm", cfg.CRMBaseURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
