package handling

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	DefaultQRSize = 256
	MaxQRSize     = 1024
)

var ErrInvalidLineID = errors.New("invalid order line id")

// ParseLineID reads the {lineId} URL parameter.
func ParseLineID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "lineId"))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, ErrInvalidLineID
	}
	return id, nil
}

// ParseQRSize reads the optional ?size= query parameter, clamped to [64, MaxQRSize].
func ParseQRSize(r *http.Request) int {
	sizeStr := strings.TrimSpace(r.URL.Query().Get("size"))
	if sizeStr == "" {
		return DefaultQRSize
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil {
		return DefaultQRSize
	}
	return min(max(size, 64), MaxQRSize)
}
