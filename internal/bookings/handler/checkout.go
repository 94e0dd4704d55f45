package handler

import (
	"encoding/json"
	"net/http"

	"steadyhotel/internal/bookings/service"
	httputil "steadyhotel/pkg/http"
	"steadyhotel/pkg/logger"
	"steadyhotel/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type CheckoutHandler struct {
	checkout service.CheckoutService
	log      *logger.Logger
}

func NewCheckoutHandler(checkout service.CheckoutService, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		log:      log,
	}
}

// Submit starts a checkout attempt: validates the booking request,
// initializes the payment and returns the session with the gateway
// authorization URL.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	session := h.checkout.Start(req.AccommodationID)
	view, err := h.checkout.Submit(r.Context(), session, &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, view)
}

// Complete resolves a payment the user finished on the gateway page.
// The transaction is re-verified with the gateway before the booking
// is recorded.
func (h *CheckoutHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reference := ps.ByName("reference")

	view, err := h.checkout.CompletePayment(r.Context(), reference)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, view)
}

// Cancel resolves a payment the user abandoned on the gateway page.
func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reference := ps.ByName("reference")

	view, err := h.checkout.CancelPayment(r.Context(), reference)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, view)
}

func (h *CheckoutHandler) GetSession(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reference := ps.ByName("reference")

	view, err := h.checkout.GetSession(reference)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, view)
}

func (h *CheckoutHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/checkout", h.Submit)
	router.GET("/api/v1/checkout/:reference", h.GetSession)
	router.POST("/api/v1/checkout/:reference/complete", h.Complete)
	router.POST("/api/v1/checkout/:reference/cancel", h.Cancel)
}
