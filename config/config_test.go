package config

import (
	"tableside_server/structs"
	"testing"
	"time"
)

func TestGetEnvAsTimeDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"go duration", "90s", 90 * time.Second},
		{"minutes", "15m", 15 * time.Minute},
		{"bare seconds", "30", 30 * time.Second},
		{"garbage falls back", "soon", time.Minute},
		{"blank falls back", "  ", time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			got := getEnvAsTimeDuration("TEST_DURATION", time.Minute)
			if got != tt.want {
				t.Errorf("getEnvAsTimeDuration(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestGetEnvAsSlice(t *testing.T) {
	t.Setenv("TEST_SLICE", " terrace, bar ,,window ")
	got := getEnvAsSlice("TEST_SLICE", nil)
	want := []string{"terrace", "bar", "window"}
	if len(got) != len(want) {
		t.Fatalf("getEnvAsSlice() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("getEnvAsSlice()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	if cfg.Sections.ConfirmPolicy != structs.SectionKeepOpen {
		t.Errorf("ConfirmPolicy = %q, want %q", cfg.Sections.ConfirmPolicy, structs.SectionKeepOpen)
	}
	if cfg.Menu.File == "" {
		t.Error("expected a default menu file")
	}
	if cfg.Cache.Enabled || cfg.Database.Enabled {
		t.Error("cache and database should be opt-in")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SECTION_CONFIRM_POLICY", "close")
	t.Setenv("TELEGRAM_STAFF_CHAT_ID", "-100123456789")
	t.Setenv("DB_ENABLED", "true")

	cfg := Load()
	if cfg.Sections.ConfirmPolicy != structs.SectionClose {
		t.Errorf("ConfirmPolicy = %q, want %q", cfg.Sections.ConfirmPolicy, structs.SectionClose)
	}
	if cfg.Telegram.StaffChatID != -100123456789 {
		t.Errorf("StaffChatID = %d, want -100123456789", cfg.Telegram.StaffChatID)
	}
	if !cfg.Database.Enabled {
		t.Error("expected DB_ENABLED=true to enable the archive database")
	}
}
