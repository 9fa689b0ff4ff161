package orders

import (
	"net/http"
	"strconv"
	"tableside_server/api/middleware"
	"tableside_server/handling"
	"tableside_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// SubmitCurrent handles POST /orders/submit
func (orm *OrderRoutesManager) SubmitCurrent(w http.ResponseWriter, r *http.Request) {
	owner, _ := middleware.OwnerFromContext(r.Context())

	receipt, err := orm.submissionService.SubmitCurrent(r.Context(), owner)
	orm.respondReceipt(w, receipt, err)
}

// SubmitSection handles POST /orders/sections/{sectionId}/submit
func (orm *OrderRoutesManager) SubmitSection(w http.ResponseWriter, r *http.Request) {
	receipt, err := orm.submissionService.SubmitSection(r.Context(), chi.URLParam(r, "sectionId"))
	orm.respondReceipt(w, receipt, err)
}

func (orm *OrderRoutesManager) respondReceipt(w http.ResponseWriter, receipt *structs.SubmissionReceipt, err error) {
	if err != nil {
		handling.HandleServiceError(err, "failed to submit order", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.orders.submitted"),
		gecho.WithData(receipt),
		gecho.Send(),
	)
}

// GetReceipt handles GET /orders/{orderId}
func (orm *OrderRoutesManager) GetReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := orm.submissionService.Receipt(chi.URLParam(r, "orderId"))
	if err != nil {
		handling.HandleServiceError(err, "failed to load receipt", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(receipt),
		gecho.Send(),
	)
}

// GetQRCode handles GET /orders/{orderId}/qr and answers with a PNG.
func (orm *OrderRoutesManager) GetQRCode(w http.ResponseWriter, r *http.Request) {
	png, err := orm.submissionService.QRCode(chi.URLParam(r, "orderId"), handling.ParseQRSize(r))
	if err != nil {
		handling.HandleServiceError(err, "failed to render qr code", orm.logger, w)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
