package handler

import (
	"encoding/json"
	"net/http"

	"steadyhotel/internal/bookings/service"
	apperrors "steadyhotel/pkg/errors"
	httputil "steadyhotel/pkg/http"
	"steadyhotel/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

const eventChargeSuccess = "charge.success"

type webhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
	} `json:"data"`
}

// WebhookHandler receives Paystack event notifications. Signature
// verification happens in middleware before the request reaches here.
type WebhookHandler struct {
	checkout service.CheckoutService
	log      *logger.Logger
}

func NewWebhookHandler(checkout service.CheckoutService, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		checkout: checkout,
		log:      log,
	}
}

// HandlePaystack processes a gateway notification. A charge.success event
// resolves the matching checkout session the same way the user redirect
// does; whichever arrives first wins and the other becomes a no-op.
func (h *WebhookHandler) HandlePaystack(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid webhook payload",
		})
		return
	}

	if payload.Event != eventChargeSuccess {
		h.log.Debug("Ignoring webhook event", "event", payload.Event)
		httputil.WriteSuccess(w, map[string]string{"status": "ignored"})
		return
	}

	if payload.Data.Reference == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Webhook payload has no reference",
		})
		return
	}

	h.log.Info("Paystack webhook received",
		"event", payload.Event,
		"reference", payload.Data.Reference,
	)

	view, err := h.checkout.CompletePayment(r.Context(), payload.Data.Reference)
	if err != nil {
		appErr := apperrors.AsAppError(err)
		switch appErr.StatusCode() {
		case http.StatusNotFound, http.StatusConflict:
			// Session already resolved via the redirect path, or another
			// delivery of the same event is in flight. Ack so the gateway
			// stops retrying.
			h.log.Info("Webhook already handled", "reference", payload.Data.Reference, "reason", appErr.Message)
			httputil.WriteSuccess(w, map[string]string{"status": "already_handled"})
		default:
			httputil.WriteError(w, err)
		}
		return
	}

	httputil.WriteSuccess(w, view)
}

func (h *WebhookHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/webhooks/paystack", h.HandlePaystack)
}
