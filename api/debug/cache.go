package debug

import (
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (drm *DebugRoutesManager) CacheStats(w http.ResponseWriter, r *http.Request) {
	if drm.cacheService == nil {
		gecho.Success(w,
			gecho.WithMessage("success.cache.inMemory"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithData(drm.cacheService.GetConnectionStats()),
		gecho.Send(),
	)
}

// ClearCache drops the cached catalog so the next menu read goes back to the source.
func (drm *DebugRoutesManager) ClearCache(w http.ResponseWriter, r *http.Request) {
	if _, err := drm.menuService.Refresh(r.Context()); err != nil {
		drm.logger.Error("Failed to clear menu cache", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.cache.clearFailed"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.cache.cleared"),
		gecho.Send(),
	)
}
