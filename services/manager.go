package services

import (
	"context"
	"errors"
	"tableside_server/database"
	"tableside_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	CacheService       *CacheService
	MenuService        *MenuService
	CommandService     *CommandService
	SectionService     *SectionService
	ReservationService *ReservationService
	SubmissionService  *SubmissionService
	ArchiveService     *ArchiveService
	KitchenService     *KitchenService
	StaffService       *StaffService
	EmailService       *EmailService
	HealthService      *HealthService
}

// NewServiceManager wires the services. db is nil when the archive is disabled; the other
// optional integrations are switched on by their config.
func NewServiceManager(ctx context.Context, logger *gecho.Logger, cfg *structs.Config, db *database.DB) *ServiceManager {
	sm := &ServiceManager{}

	var menuCache MenuCache
	if cfg.Cache.Enabled {
		sm.CacheService = NewCacheService(logger, cfg.Cache)
		menuCache = sm.CacheService
	}
	sm.MenuService = NewMenuService(logger, cfg.Menu, menuCache)

	var hooks Hooks
	if db != nil {
		sm.ArchiveService = NewArchiveService(logger, db)
		hooks.Archive = sm.ArchiveService
	}
	if cfg.Kitchen.AmqpURL != "" {
		sm.KitchenService = NewKitchenService(logger, cfg.Kitchen)
		hooks.Kitchen = sm.KitchenService
	}
	if cfg.Telegram.Token != "" {
		staff, err := NewStaffService(logger, cfg.Telegram)
		if err != nil {
			logger.Warn("Waitstaff alerts disabled", gecho.Field("error", err))
		} else {
			sm.StaffService = staff
			hooks.Staff = staff
		}
	}
	var mailer Mailer
	if cfg.Email.ApiKey != "" {
		sm.EmailService = NewEmailService(logger, cfg.Email)
		mailer = sm.EmailService
	}

	ids := NewIDRegistry()
	sm.CommandService = NewCommandService(logger, ids, hooks)
	sm.SectionService = NewSectionService(logger, ids, hooks, sectionRestaurant(ctx, logger, sm.MenuService, cfg.Restaurant.ID), cfg.Sections)
	sm.ReservationService = NewReservationService(logger, sm.CommandService, sm.MenuService, mailer)
	sm.SubmissionService = NewSubmissionService(logger, NewDiningClient(cfg.Dining), sm.CommandService, sm.SectionService)
	sm.HealthService = NewHealthService(logger, sm.CommandService, sm.SectionService, sm.CacheService, sm.ArchiveService)

	return sm
}

// sectionRestaurant resolves the snapshot shared by all table sections. A missing catalog
// entry is not fatal; sections then carry only the configured id.
func sectionRestaurant(ctx context.Context, logger *gecho.Logger, menu *MenuService, id string) structs.Restaurant {
	restaurant, err := menu.Restaurant(ctx, id)
	if err != nil {
		logger.Warn("Section restaurant not found in catalog", gecho.Field("restaurant_id", id), gecho.Field("error", err))
		return structs.Restaurant{ID: id}
	}
	return restaurant
}

// Close releases the broker and cache connections.
func (sm *ServiceManager) Close() error {
	var errs []error
	if sm.KitchenService != nil {
		errs = append(errs, sm.KitchenService.Close())
	}
	if sm.CacheService != nil {
		errs = append(errs, sm.CacheService.Close())
	}
	return errors.Join(errs...)
}
