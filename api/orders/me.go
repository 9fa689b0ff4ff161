package orders

import (
	"net/http"
	"strings"
	"tableside_server/api/middleware"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// GetMyArchive returns the archived commands of the guest
func (orm *OrderRoutesManager) GetMyArchive(w http.ResponseWriter, r *http.Request) {
	owner, _ := middleware.OwnerFromContext(r.Context())

	orm.logger.Info("Fetching archived commands", gecho.Field("owner_id", owner))

	commands, err := orm.archiveService.ListByOwner(r.Context(), owner)
	if err != nil {
		orm.logger.Error("Failed to list archived commands", gecho.Field("error", err), gecho.Field("owner_id", owner))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.archive.fetchingCommands"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.archive.commandsFetched"),
		gecho.WithData(map[string]any{
			"commands": commands,
			"count":    len(commands),
		}),
		gecho.Send(),
	)
}

// GetSectionArchive returns the archived commands of a table section
func (orm *OrderRoutesManager) GetSectionArchive(w http.ResponseWriter, r *http.Request) {
	section := strings.TrimSpace(chi.URLParam(r, "sectionId"))
	if section == "" {
		gecho.BadRequest(w, gecho.WithMessage("error.sections.idRequired"), gecho.Send())
		return
	}

	commands, err := orm.archiveService.ListBySection(r.Context(), section)
	if err != nil {
		orm.logger.Error("Failed to list archived section commands", gecho.Field("error", err), gecho.Field("section_id", section))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.archive.fetchingCommands"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.archive.commandsFetched"),
		gecho.WithData(map[string]any{
			"section_id": section,
			"commands":   commands,
			"count":      len(commands),
		}),
		gecho.Send(),
	)
}
