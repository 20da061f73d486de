package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-dashboard/internal/api"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/cache"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/config"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/logger"
)

// session bundles what most subcommands need: the merged config, an API
// client and a schedule store for the resolved location.
type session struct {
	cfg    *config.Config
	client *api.Client
	cache  *cache.Cache
	store  *cache.Store
}

// newSession resolves the location and wires the store for cmd.
func newSession(ctx context.Context, cmd *cobra.Command) (*session, error) {
	cfg := effectiveConfig(cmd)

	dir, err := dataDir(cfg)
	if err != nil {
		return nil, err
	}
	c, err := cache.New(dir)
	if err != nil {
		return nil, err
	}

	loc, err := resolveLocation(ctx, cfg, c)
	if err != nil {
		return nil, err
	}
	logger.Debug("location resolved", "city", loc.City, "country", loc.Country, "method", loc.Method, "school", loc.School)

	client := api.NewClient()
	if apiBaseURL != "" {
		client.BaseURL = apiBaseURL
	}

	store := cache.NewStore(c, loc, cache.NewAPIProvider(client))
	store.Delay = fetchDelay

	return &session{cfg: cfg, client: client, cache: c, store: store}, nil
}

// resolveLocation determines the effective location.
// Priority: CLI flags > config > cached geolocation > IP auto-detect.
func resolveLocation(ctx context.Context, cfg *config.Config, c *cache.Cache) (cache.Location, error) {
	loc := cache.Location{
		City:    cfg.City,
		Country: cfg.Country,
		Method:  cfg.MethodOrDefault(-1),
		School:  cfg.SchoolOrDefault(-1),
	}

	switch {
	case cfg.City != "":
		if cfg.Country == "" {
			return cache.Location{}, fmt.Errorf("--country is required when using --city")
		}
		return loc, nil
	case cfg.Country != "":
		return cache.Location{}, fmt.Errorf("--city is required when using --country")
	}

	// Try cached geolocation first.
	if cached := c.LoadGeo(); cached != nil && cached.City != "" {
		loc.City, loc.Country = cached.City, cached.CountryParam()
		return loc, nil
	}

	// Fall back to IP-based geolocation.
	detected, err := detectLocation(ctx)
	if err != nil {
		// Offline past the TTL: an old fix still names the stored schedule.
		if stale := c.LoadGeoStale(); stale != nil && stale.City != "" {
			logger.Warn("auto-detection failed, using expired cached location", "city", stale.City, "err", err)
			loc.City, loc.Country = stale.City, stale.CountryParam()
			return loc, nil
		}
		return cache.Location{}, fmt.Errorf("no location specified and auto-detection failed: %w", err)
	}
	if detected.City == "" {
		return cache.Location{}, fmt.Errorf("auto-detection returned no city; set one with --city and --country")
	}
	if err := c.SaveGeo(detected); err != nil {
		logger.Warn("caching geolocation failed", "err", err)
	}

	loc.City, loc.Country = detected.City, detected.CountryParam()
	return loc, nil
}
