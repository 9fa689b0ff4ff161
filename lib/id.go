package lib

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strconv"
)

// GenerateCommandID returns a random base-36 id. exists is consulted so that the id never
// collides with a command the caller already holds.
func GenerateCommandID(exists func(string) bool) (string, error) {
	for range 8 {
		b := make([]byte, 8)
		if _, err := rand.Read(b); err != nil {
			return "", fmt.Errorf("failed to generate command id: %w", err)
		}
		id := strconv.FormatUint(binary.BigEndian.Uint64(b), 36)
		if exists == nil || !exists(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique command id")
}
