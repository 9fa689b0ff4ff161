package handling

import (
	"errors"
	"net/http"
	"tableside_server/lib"

	"github.com/MonkyMars/gecho"
)

func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) error {
	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))

	return gecho.InternalServerError(w).Send()
}

// HandleBodyError answers a request whose JSON body could not be decoded or validated.
func HandleBodyError(err error, logger *gecho.Logger, w http.ResponseWriter) error {
	logger.Warn("Failed to extract and validate request body", gecho.Field("error", err))

	var ve *lib.ValidationError
	if errors.As(err, &ve) {
		return gecho.BadRequest(w, gecho.WithMessage("error.validationFailed"), gecho.WithData(ve.Errors)).Send()
	}
	return gecho.BadRequest(w, gecho.WithMessage("error.invalidRequestBody")).Send()
}

// HandleServiceError maps the domain errors to their HTTP answer. Anything unknown is a 500.
func HandleServiceError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) error {
	switch {
	case errors.Is(err, lib.ErrCommandNotFound):
		return gecho.NotFound(w, gecho.WithMessage("error.commands.notFound")).Send()
	case errors.Is(err, lib.ErrLineNotFound):
		return gecho.NotFound(w, gecho.WithMessage("error.commands.lineNotFound")).Send()
	case errors.Is(err, lib.ErrSectionRequired):
		return gecho.BadRequest(w, gecho.WithMessage("error.sections.idRequired")).Send()
	case errors.Is(err, lib.ErrUnknownSection):
		return gecho.NotFound(w, gecho.WithMessage("error.sections.unknown")).Send()

	case errors.Is(err, lib.ErrMenuItemNotFound):
		return gecho.NotFound(w, gecho.WithMessage("error.menu.itemNotFound")).Send()
	case errors.Is(err, lib.ErrRestaurantNotFound):
		return gecho.NotFound(w, gecho.WithMessage("error.menu.restaurantNotFound")).Send()
	case errors.Is(err, lib.ErrMenuUnavailable):
		logger.Error("Menu source unavailable", gecho.Field("error", err))
		return gecho.ServiceUnavailable(w, gecho.WithMessage("error.menu.unavailable")).Send()

	case errors.Is(err, lib.ErrWizardNotFound):
		return gecho.NotFound(w, gecho.WithMessage("error.reservations.notFound")).Send()
	case errors.Is(err, lib.ErrWizardStep):
		return gecho.Conflict(w, gecho.WithMessage("error.reservations.invalidStep")).Send()
	case errors.Is(err, lib.ErrEmptyPreOrder):
		return gecho.BadRequest(w, gecho.WithMessage("error.reservations.emptyPreOrder")).Send()

	case errors.Is(err, lib.ErrNothingToSubmit):
		return gecho.BadRequest(w, gecho.WithMessage("error.orders.nothingToSubmit")).Send()
	case errors.Is(err, lib.ErrNoFreeTable):
		return gecho.ServiceUnavailable(w, gecho.WithMessage("error.orders.noFreeTable")).Send()
	case errors.Is(err, lib.ErrExternalSubmission):
		logger.Error("External order submission failed", gecho.Field("error", err))
		return gecho.ServiceUnavailable(w, gecho.WithMessage("error.orders.submissionFailed"), gecho.WithData(err.Error())).Send()
	case errors.Is(err, lib.ErrReceiptNotFound):
		return gecho.NotFound(w, gecho.WithMessage("error.orders.notFound")).Send()
	}

	return HandleError(err, msg, logger, w)
}
