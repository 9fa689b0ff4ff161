package orders

import (
	"tableside_server/api/middleware"
	"tableside_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type OrderRoutesManager struct {
	logger            *gecho.Logger
	submissionService *services.SubmissionService
	archiveService    *services.ArchiveService
	mw                *middleware.Middleware
}

// NewOrderRoutesManager takes the optional archive; nil leaves the /archive routes unmounted.
func NewOrderRoutesManager(
	logger *gecho.Logger,
	submissionService *services.SubmissionService,
	archiveService *services.ArchiveService,
	mw *middleware.Middleware,
) *OrderRoutesManager {
	return &OrderRoutesManager{
		logger:            logger,
		submissionService: submissionService,
		archiveService:    archiveService,
		mw:                mw,
	}
}

func (orm *OrderRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.With(orm.mw.OwnerMiddleware).Post("/submit", orm.SubmitCurrent)
		r.Post("/sections/{sectionId}/submit", orm.SubmitSection)
		r.Get("/{orderId}", orm.GetReceipt)
		r.Get("/{orderId}/qr", orm.GetQRCode)
	})

	if orm.archiveService != nil {
		r.Route("/archive", func(r chi.Router) {
			r.With(orm.mw.OwnerMiddleware).Get("/", orm.GetMyArchive)
			r.Get("/sections/{sectionId}", orm.GetSectionArchive)
		})
	}
}
