package main

import (
	"fmt"
	"log/slog"

	"github.com/justchokingaround/anistream/internal/aggregator"
	"github.com/justchokingaround/anistream/internal/config"
	"github.com/justchokingaround/anistream/internal/providers"
	providerhttp "github.com/justchokingaround/anistream/internal/providers/http"
	"github.com/justchokingaround/anistream/internal/providers/kuramanime"
	"github.com/justchokingaround/anistream/internal/providers/samehadaku"
)

// backend is everything built from the provider section of the config
type backend struct {
	service  *aggregator.Service
	registry *providers.Registry
}

// buildBackend wires the shared transport, both provider clients, the
// aggregation service and the health registry from c
func buildBackend(c *config.Config, logger *slog.Logger) (*backend, error) {
	transport := providerhttp.NewClient(providerhttp.ClientConfig{
		Timeout:    c.HTTP.Timeout,
		MaxRetries: c.HTTP.MaxRetries,
		UserAgent:  c.HTTP.UserAgent,
		Debug:      c.Advanced.Debug,
		Logger:     logger,
	})

	primary := samehadaku.New(c.Providers.Samehadaku.BaseURL, transport, logger)
	fallback := kuramanime.New(c.Providers.Kuramanime.BaseURL, transport, logger,
		kuramanime.WithHealthQuery(c.Providers.Kuramanime.HealthQuery))

	policy := aggregator.Policy{
		FallbackEnabled:         c.Fallback.Enabled,
		FallbackOnFirstPageOnly: c.Fallback.FirstPageOnly,
		PreferredQuality:        c.Providers.Kuramanime.PreferredQuality,
	}

	registry := providers.NewRegistry(providers.WithUserAgent(c.HTTP.UserAgent))
	if err := registry.Register(primary, providers.RolePrimary); err != nil {
		return nil, fmt.Errorf("failed to register provider: %w", err)
	}
	if err := registry.Register(fallback, providers.RoleFallback); err != nil {
		return nil, fmt.Errorf("failed to register provider: %w", err)
	}

	logger.Debug("backend ready",
		"primary", primary.BaseURL(),
		"fallback", fallback.BaseURL(),
		"fallback_enabled", policy.FallbackEnabled,
	)

	return &backend{
		service:  aggregator.New(primary, fallback, policy, logger),
		registry: registry,
	}, nil
}
