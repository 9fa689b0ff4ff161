package services

import (
	"sync"
	"tableside_server/lib"
)

// IDRegistry remembers every command id handed out in this process so that the owner
// store and the section store never produce the same id.
type IDRegistry struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func NewIDRegistry() *IDRegistry {
	return &IDRegistry{ids: make(map[string]struct{})}
}

// Next reserves and returns a fresh command id.
func (r *IDRegistry) Next() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := lib.GenerateCommandID(func(candidate string) bool {
		_, taken := r.ids[candidate]
		return taken
	})
	if err != nil {
		return "", err
	}
	r.ids[id] = struct{}{}
	return id, nil
}

func (r *IDRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ids)
}
