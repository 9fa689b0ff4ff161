package lib

import (
	"strconv"
	"testing"
)

func TestGenerateCommandID_Base36(t *testing.T) {
	id, err := GenerateCommandID(nil)
	if err != nil {
		t.Fatalf("GenerateCommandID() error = %v", err)
	}
	if id == "" {
		t.Fatal("expected a non-empty id")
	}
	if _, err := strconv.ParseUint(id, 36, 64); err != nil {
		t.Errorf("id %q is not base-36: %v", id, err)
	}
}

func TestGenerateCommandID_SkipsExisting(t *testing.T) {
	seen := map[string]bool{}
	calls := 0
	exists := func(id string) bool {
		calls++
		// reject the first candidate to force a second draw
		if calls == 1 {
			seen[id] = true
			return true
		}
		return seen[id]
	}

	id, err := GenerateCommandID(exists)
	if err != nil {
		t.Fatalf("GenerateCommandID() error = %v", err)
	}
	if seen[id] {
		t.Errorf("GenerateCommandID() returned rejected id %q", id)
	}
	if calls != 2 {
		t.Errorf("exists called %d times, want 2", calls)
	}
}

func TestGenerateCommandID_GivesUp(t *testing.T) {
	_, err := GenerateCommandID(func(string) bool { return true })
	if err == nil {
		t.Fatal("expected an error when every candidate collides")
	}
}

func TestGenerateCommandID_Unique(t *testing.T) {
	ids := map[string]bool{}
	for range 1000 {
		id, err := GenerateCommandID(func(s string) bool { return ids[s] })
		if err != nil {
			t.Fatalf("GenerateCommandID() error = %v", err)
		}
		ids[id] = true
	}
	if len(ids) != 1000 {
		t.Errorf("got %d unique ids, want 1000", len(ids))
	}
}
