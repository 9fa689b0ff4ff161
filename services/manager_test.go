package services

import (
	"context"
	"tableside_server/structs"
	"testing"
	"time"
)

func testConfig(menuFile string) *structs.Config {
	return &structs.Config{
		Restaurant: &structs.RestaurantConfig{ID: "r1"},
		Sections:   &structs.SectionsConfig{ConfirmPolicy: structs.SectionClose, Known: []string{"T1", "T2"}},
		Menu:       &structs.MenuConfig{File: menuFile, CacheTTL: time.Minute},
		Cache:      &structs.CacheConfig{},
		Dining:     &structs.DiningConfig{BaseURL: "http://dining.invalid", Timeout: time.Second},
		Kitchen:    &structs.KitchenConfig{},
		Telegram:   &structs.TelegramConfig{},
		Email:      &structs.EmailConfig{},
	}
}

func TestNewServiceManagerMinimal(t *testing.T) {
	sm := NewServiceManager(context.Background(), testLogger(), testConfig(writeMenuFile(t, catalogJSON)), nil)

	if sm.CacheService != nil || sm.ArchiveService != nil || sm.KitchenService != nil || sm.StaffService != nil || sm.EmailService != nil {
		t.Fatalf("optional integrations wired without config: %+v", sm)
	}
	if sm.CommandService.hooks.Kitchen != nil || sm.CommandService.hooks.Staff != nil || sm.CommandService.hooks.Archive != nil {
		t.Errorf("command hooks = %+v, want all nil", sm.CommandService.hooks)
	}
	if sm.ReservationService.mailer != nil {
		t.Errorf("mailer = %v, want nil", sm.ReservationService.mailer)
	}

	cmd, err := sm.SectionService.Section("T1")
	if err != nil {
		t.Fatalf("Section() error = %v", err)
	}
	if cmd.Restaurant.Name != "Chez Test" {
		t.Errorf("section restaurant = %+v, want the catalog snapshot", cmd.Restaurant)
	}
	if got := sm.SectionService.Policy(); got != structs.SectionClose {
		t.Errorf("Policy() = %q", got)
	}
	if err := sm.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestNewServiceManagerMissingRestaurant(t *testing.T) {
	cfg := testConfig(writeMenuFile(t, catalogJSON))
	cfg.Restaurant.ID = "elsewhere"
	sm := NewServiceManager(context.Background(), testLogger(), cfg, nil)

	cmd, err := sm.SectionService.Section("T9")
	if err != nil {
		t.Fatalf("Section() error = %v", err)
	}
	if cmd.Restaurant.ID != "elsewhere" || cmd.Restaurant.Name != "" {
		t.Errorf("restaurant = %+v, want the bare configured id", cmd.Restaurant)
	}
}
