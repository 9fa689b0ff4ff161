package services

import (
	"context"
	"runtime"
	"time"

	"github.com/MonkyMars/gecho"
)

var uptimeStart = time.Now()

type serverHealthStatus struct {
	Uptime       float64   `json:"uptime"`        // in seconds
	CurrentTime  time.Time `json:"current_time"`  // server current time
	ServiceAlive bool      `json:"service_alive"` // always true if service is running
	RamStats     *RamStats `json:"ram_stats"`
}

type RamStats struct {
	TotalMB     uint64 `json:"total_mb"`
	UsedMB      uint64 `json:"used_mb"`
	FreeMB      uint64 `json:"free_mb"`
	UsedPercent uint64 `json:"used_percent"`
}

type storeHealthStatus struct {
	Commands CommandStoreStats `json:"commands"`
	Sections SectionStoreStats `json:"sections"`
}

// dependencyHealthStatus reports one optional backing service.
type dependencyHealthStatus struct {
	Enabled        bool      `json:"enabled"`
	Connected      bool      `json:"connected"`
	LastChecked    time.Time `json:"last_checked"`
	ResponseTimeMs int64     `json:"response_time_ms"`
}

type pinger interface {
	Ping(ctx context.Context) error
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthService struct {
	logger   *gecho.Logger
	commands *CommandService
	sections *SectionService
	cache    pinger
	database pinger
}

// NewHealthService takes the optional cache and archive; nil means the dependency is disabled.
func NewHealthService(logger *gecho.Logger, commands *CommandService, sections *SectionService, cache *CacheService, archive *ArchiveService) *HealthService {
	hs := &HealthService{
		logger:   logger,
		commands: commands,
		sections: sections,
	}
	if cache != nil {
		hs.cache = cache
	}
	if archive != nil {
		hs.database = pingFunc(archive.Health)
	}
	return hs
}

func getRamStats() *RamStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	totalMB := m.Sys / 1024 / 1024
	usedMB := m.Alloc / 1024 / 1024
	freeMB := totalMB - usedMB
	usedPercent := uint64(0)
	if totalMB > 0 {
		usedPercent = (usedMB * 100) / totalMB
	}

	return &RamStats{
		TotalMB:     totalMB,
		UsedMB:      usedMB,
		FreeMB:      freeMB,
		UsedPercent: usedPercent,
	}
}

func (hs *HealthService) GetServerHealthStatus() serverHealthStatus {
	return serverHealthStatus{
		Uptime:       time.Since(uptimeStart).Seconds(),
		CurrentTime:  time.Now(),
		ServiceAlive: true,
		RamStats:     getRamStats(),
	}
}

func (hs *HealthService) GetStoreHealthStatus() storeHealthStatus {
	return storeHealthStatus{
		Commands: hs.commands.Stats(),
		Sections: hs.sections.Stats(),
	}
}

func (hs *HealthService) GetCacheHealthStatus(ctx context.Context) (dependencyHealthStatus, error) {
	return hs.check(ctx, "cache", hs.cache)
}

func (hs *HealthService) GetDatabaseHealthStatus(ctx context.Context) (dependencyHealthStatus, error) {
	return hs.check(ctx, "database", hs.database)
}

func (hs *HealthService) check(ctx context.Context, name string, p pinger) (dependencyHealthStatus, error) {
	if p == nil {
		return dependencyHealthStatus{LastChecked: time.Now()}, nil
	}

	start := time.Now()
	err := p.Ping(ctx)
	status := dependencyHealthStatus{
		Enabled:        true,
		Connected:      err == nil,
		LastChecked:    time.Now(),
		ResponseTimeMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		hs.logger.Error("Health check failed", gecho.Field("dependency", name), gecho.Field("error", err))
	}
	return status, err
}
