package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"tableside_server/lib"
	"tableside_server/structs"
	"testing"
	"time"
)

const catalogJSON = `{
  "restaurants": [{"id": "r1", "name": "Chez Test"}],
  "categories": [{"id": "c1", "name": "Mains"}],
  "items": [
    {"id": "p1", "name": "Margherita", "short_name": "MARG", "price": "10.50", "category_id": "c1"},
    {"id": "p2", "name": "Water", "price": "2", "category_id": "c1"}
  ]
}`

func writeMenuFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "menu.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestMenuServiceFromFile(t *testing.T) {
	ms := NewMenuService(testLogger(), &structs.MenuConfig{File: writeMenuFile(t, catalogJSON)}, nil)
	ctx := context.Background()

	item, err := ms.MenuItem(ctx, "p1")
	if err != nil {
		t.Fatalf("MenuItem() error = %v", err)
	}
	if item.Price.String() != "10.5" || item.DisplayShortName() != "MARG" {
		t.Errorf("MenuItem() = %+v", item)
	}

	if _, err := ms.MenuItem(ctx, "nope"); !errors.Is(err, lib.ErrMenuItemNotFound) {
		t.Errorf("MenuItem(unknown) error = %v", err)
	}
	if r, err := ms.Restaurant(ctx, "r1"); err != nil || r.Name != "Chez Test" {
		t.Errorf("Restaurant() = %+v, %v", r, err)
	}
	if _, err := ms.Restaurant(ctx, "r9"); !errors.Is(err, lib.ErrRestaurantNotFound) {
		t.Errorf("Restaurant(unknown) error = %v", err)
	}
}

func TestMenuServiceFromHTTPUsesCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(catalogJSON))
	}))
	defer srv.Close()

	ms := NewMenuService(testLogger(), &structs.MenuConfig{SourceURL: srv.URL, CacheTTL: time.Minute, FetchTimeout: time.Second}, nil)
	ctx := context.Background()

	for range 3 {
		if _, err := ms.Catalog(ctx); err != nil {
			t.Fatalf("Catalog() error = %v", err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("source hit %d times, want 1", hits.Load())
	}

	if _, err := ms.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("source hit %d times after refresh, want 2", hits.Load())
	}
}

func TestMenuServiceSourceFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	tests := []struct {
		name string
		cfg  *structs.MenuConfig
	}{
		{"http status", &structs.MenuConfig{SourceURL: srv.URL, FetchTimeout: time.Second}},
		{"missing file", &structs.MenuConfig{File: filepath.Join(t.TempDir(), "missing.json")}},
		{"bad json", &structs.MenuConfig{File: writeMenuFile(t, "{")}},
		{"duplicate ids", &structs.MenuConfig{File: writeMenuFile(t, `{"items":[{"id":"a","price":"1"},{"id":"a","price":"2"}]}`)}},
		{"negative price", &structs.MenuConfig{File: writeMenuFile(t, `{"items":[{"id":"a","price":"-1"}]}`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := NewMenuService(testLogger(), tt.cfg, nil)
			if _, err := ms.Catalog(context.Background()); !errors.Is(err, lib.ErrMenuUnavailable) {
				t.Errorf("Catalog() error = %v, want ErrMenuUnavailable", err)
			}
		})
	}
}

func TestMemoryMenuCacheExpiry(t *testing.T) {
	now := time.Now()
	cache := &memoryMenuCache{now: func() time.Time { return now }}
	ctx := context.Background()

	cache.SetCatalog(ctx, &structs.Catalog{}, time.Minute)
	if got, _ := cache.GetCatalog(ctx); got == nil {
		t.Fatalf("GetCatalog() = nil before expiry")
	}
	now = now.Add(2 * time.Minute)
	if got, _ := cache.GetCatalog(ctx); got != nil {
		t.Errorf("GetCatalog() = %v after expiry, want nil", got)
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("dial tcp: connection refused"), true},
		{errors.New("i/o timeout"), true},
		{errors.New("WRONGTYPE Operation against a key"), false},
	}
	for _, tt := range tests {
		if got := isRetryableError(tt.err); got != tt.want {
			t.Errorf("isRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
