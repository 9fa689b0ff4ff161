package menu

import (
	"net/http"
	"strings"
	"tableside_server/handling"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// FetchCatalog handles GET /menu
func (mrm *MenuRoutesManager) FetchCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := mrm.menuService.Catalog(r.Context())
	if err != nil {
		handling.HandleServiceError(err, "failed to load catalog", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(catalog),
		gecho.Send(),
	)
}

// FetchMenuItem handles GET /menu/items/{itemId}
func (mrm *MenuRoutesManager) FetchMenuItem(w http.ResponseWriter, r *http.Request) {
	itemID := strings.TrimSpace(chi.URLParam(r, "itemId"))
	if itemID == "" {
		gecho.BadRequest(w,
			gecho.WithMessage("error.menu.itemIdRequired"),
			gecho.Send(),
		)
		return
	}

	item, err := mrm.menuService.MenuItem(r.Context(), itemID)
	if err != nil {
		handling.HandleServiceError(err, "failed to load menu item", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"item": item,
		}),
		gecho.Send(),
	)
}

// RefreshCatalog handles POST /menu/refresh
func (mrm *MenuRoutesManager) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := mrm.menuService.Refresh(r.Context())
	if err != nil {
		handling.HandleServiceError(err, "failed to refresh catalog", mrm.logger, w)
		return
	}

	mrm.logger.Info("Menu catalog refreshed", gecho.Field("items", len(catalog.Items)))

	gecho.Success(w,
		gecho.WithMessage("success.menu.refreshed"),
		gecho.WithData(catalog),
		gecho.Send(),
	)
}
