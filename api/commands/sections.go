package commands

import (
	"net/http"
	"tableside_server/handling"
	"tableside_server/services"
	"tableside_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type SectionRoutesManager struct {
	logger         *gecho.Logger
	sectionService *services.SectionService
	lines          *lineHandlers
}

func NewSectionRoutesManager(logger *gecho.Logger, sectionService *services.SectionService, menuService *services.MenuService) *SectionRoutesManager {
	return &SectionRoutesManager{
		logger:         logger,
		sectionService: sectionService,
		lines: &lineHandlers{
			logger: logger,
			menu:   menuService,
			store:  sectionService,
			key:    sectionKey,
		},
	}
}

func sectionKey(r *http.Request) string {
	return chi.URLParam(r, "sectionId")
}

func (srm *SectionRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/sections", func(r chi.Router) {
		r.Get("/", srm.ListSections)
		r.Route("/{sectionId}", func(r chi.Router) {
			r.Get("/", srm.FetchSection)
			r.Get("/history", srm.FetchHistory)
			srm.lines.register(r)
		})
	})
}

// ListSections handles GET /sections
func (srm *SectionRoutesManager) ListSections(w http.ResponseWriter, r *http.Request) {
	sections := srm.sectionService.ListSections()
	gecho.Success(w,
		gecho.WithData(map[string]any{
			"sections":       sections,
			"count":          len(sections),
			"confirm_policy": srm.sectionService.Policy(),
		}),
		gecho.Send(),
	)
}

// FetchSection handles GET /sections/{sectionId}; the first read provisions the command.
func (srm *SectionRoutesManager) FetchSection(w http.ResponseWriter, r *http.Request) {
	cmd, err := srm.sectionService.Section(sectionKey(r))
	if err != nil {
		handling.HandleServiceError(err, "failed to load section", srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(services.NewCommandView(cmd)),
		gecho.Send(),
	)
}

// FetchHistory handles GET /sections/{sectionId}/history
func (srm *SectionRoutesManager) FetchHistory(w http.ResponseWriter, r *http.Request) {
	history, err := srm.sectionService.SectionHistory(sectionKey(r))
	if err != nil {
		handling.HandleServiceError(err, "failed to load section history", srm.logger, w)
		return
	}

	views := make([]structs.CommandView, 0, len(history))
	for _, cmd := range history {
		views = append(views, services.NewCommandView(cmd))
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"commands": views,
			"count":    len(views),
		}),
		gecho.Send(),
	)
}
