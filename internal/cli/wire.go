package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"crm-leads/internal/cache"
	"crm-leads/internal/config"
	"crm-leads/internal/leads"
	"crm-leads/internal/programs"
)

// FromConfig wires the app from the environment, the same way the API server does.
func FromConfig(ctx context.Context, log *slog.Logger) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	store, closeCache, err := openCache(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	catalog := programs.NewClient(cfg.CRMBaseURL, log,
		programs.WithHTTPClient(&http.Client{Timeout: cfg.CRMTimeout}),
		programs.WithRetry(cfg.ProgramsRetryMax, 200*time.Millisecond, 2*time.Second),
		programs.WithCache(store, cfg.CacheTTL()),
	)
	gateway := leads.NewGateway(cfg.CRMBaseURL, log,
		leads.WithGatewayHTTPClient(&http.Client{Timeout: cfg.CRMTimeout}),
		leads.WithExternalIdentity(cfg.ExternalCampaignID, cfg.ExternalUserID),
	)
	defaults := leads.Defaults{CampaignID: cfg.DefaultCampaignID, UserID: cfg.DefaultUserID}
	pipeline := leads.NewPipeline(nil, leads.WithStrictPrograms(cfg.StrictPrograms))

	return &App{
		Programs: catalog,
		Leads:    leads.NewService(pipeline, gateway, catalog, defaults, nil, log),
		Defaults: defaults,
		Log:      log,
		Close:    closeCache,
	}, nil
}

func openCache(ctx context.Context, cfg *config.Config, log *slog.Logger) (cache.Cache, func() error, error) {
	if cfg.RedisURL == "" && cfg.RedisAddr == "" {
		return cache.NewNoop(), nil, nil
	}

	var rc *cache.RedisCache
	if cfg.RedisURL != "" {
		var err error
		rc, err = cache.NewRedisFromURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("redis url: %w", err)
		}
	} else {
		rc = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		// The catalog still works without a cache.
		log.Warn("redis ping: failed, continuing without cache", slog.String("error", err.Error()))
		_ = rc.Close()
		return cache.NewNoop(), nil, nil
	}
	return rc, rc.Close, nil
}
