package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"tableside_server/lib"
	"tableside_server/structs"

	"github.com/MonkyMars/gecho"
)

// MenuService serves the read-only catalog. Items handed to the command stores are copies,
// so later catalog changes never reprice existing lines.
type MenuService struct {
	logger     *gecho.Logger
	cfg        *structs.MenuConfig
	cache      MenuCache
	httpClient *http.Client

	loadMu sync.Mutex
}

func NewMenuService(logger *gecho.Logger, cfg *structs.MenuConfig, cache MenuCache) *MenuService {
	if cache == nil {
		cache = NewMemoryMenuCache()
	}
	return &MenuService{
		logger:     logger,
		cfg:        cfg,
		cache:      cache,
		httpClient: &http.Client{Timeout: cfg.FetchTimeout},
	}
}

// Catalog returns the cached catalog, loading it from the source on a miss.
func (ms *MenuService) Catalog(ctx context.Context) (*structs.Catalog, error) {
	if catalog := ms.cached(ctx); catalog != nil {
		return catalog, nil
	}

	ms.loadMu.Lock()
	defer ms.loadMu.Unlock()

	// another caller may have filled the cache while we waited
	if catalog := ms.cached(ctx); catalog != nil {
		return catalog, nil
	}
	return ms.reload(ctx)
}

// Refresh drops the cached catalog and loads it again from the source.
func (ms *MenuService) Refresh(ctx context.Context) (*structs.Catalog, error) {
	ms.loadMu.Lock()
	defer ms.loadMu.Unlock()

	if err := ms.cache.InvalidateCatalog(ctx); err != nil {
		ms.logger.Warn("Failed to drop cached catalog", gecho.Field("error", err))
	}
	return ms.reload(ctx)
}

func (ms *MenuService) MenuItem(ctx context.Context, id string) (structs.MenuItem, error) {
	catalog, err := ms.Catalog(ctx)
	if err != nil {
		return structs.MenuItem{}, err
	}
	for _, item := range catalog.Items {
		if item.ID == id {
			return item, nil
		}
	}
	return structs.MenuItem{}, lib.ErrMenuItemNotFound
}

func (ms *MenuService) Restaurant(ctx context.Context, id string) (structs.Restaurant, error) {
	catalog, err := ms.Catalog(ctx)
	if err != nil {
		return structs.Restaurant{}, err
	}
	for _, r := range catalog.Restaurants {
		if r.ID == id {
			return r, nil
		}
	}
	return structs.Restaurant{}, lib.ErrRestaurantNotFound
}

func (ms *MenuService) cached(ctx context.Context) *structs.Catalog {
	catalog, err := ms.cache.GetCatalog(ctx)
	if err != nil {
		ms.logger.Warn("Catalog cache read failed, falling back to source", gecho.Field("error", err))
		return nil
	}
	return catalog
}

// reload expects loadMu to be held.
func (ms *MenuService) reload(ctx context.Context) (*structs.Catalog, error) {
	catalog, err := ms.load(ctx)
	if err != nil {
		ms.logger.Error("Failed to load menu catalog", gecho.Field("error", err))
		return nil, fmt.Errorf("%w: %v", lib.ErrMenuUnavailable, err)
	}
	if err := validateCatalog(catalog); err != nil {
		ms.logger.Error("Menu catalog rejected", gecho.Field("error", err))
		return nil, fmt.Errorf("%w: %v", lib.ErrMenuUnavailable, err)
	}

	if err := ms.cache.SetCatalog(ctx, catalog, ms.cfg.CacheTTL); err != nil {
		ms.logger.Warn("Failed to cache menu catalog", gecho.Field("error", err))
	}
	ms.logger.Info("Menu catalog loaded",
		gecho.Field("restaurants", len(catalog.Restaurants)),
		gecho.Field("categories", len(catalog.Categories)),
		gecho.Field("items", len(catalog.Items)),
	)
	return catalog, nil
}

func (ms *MenuService) load(ctx context.Context) (*structs.Catalog, error) {
	if ms.cfg.SourceURL != "" {
		return ms.fetch(ctx)
	}

	f, err := os.Open(ms.cfg.File)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeCatalog(f)
}

func (ms *MenuService) fetch(ctx context.Context) (*structs.Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ms.cfg.SourceURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := ms.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("menu source answered %d", resp.StatusCode)
	}
	return decodeCatalog(resp.Body)
}

func decodeCatalog(r io.Reader) (*structs.Catalog, error) {
	var catalog structs.Catalog
	if err := json.NewDecoder(r).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return &catalog, nil
}

func validateCatalog(c *structs.Catalog) error {
	seen := make(map[string]struct{}, len(c.Items))
	for _, item := range c.Items {
		if item.ID == "" {
			return fmt.Errorf("menu item %q has no id", item.Name)
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("duplicate menu item id %q", item.ID)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("menu item %q has a negative price", item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}
