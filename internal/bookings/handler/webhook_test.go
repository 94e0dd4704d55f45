package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	"steadyhotel/internal/bookings/service"
	apperrors "steadyhotel/pkg/errors"
	"steadyhotel/pkg/logger"
	"steadyhotel/pkg/model"
)

type mockCheckoutService struct {
	completeFunc func(ctx context.Context, reference string) (*service.SessionView, error)
	cancelFunc   func(ctx context.Context, reference string) (*service.SessionView, error)
	completed    []string
}

func (m *mockCheckoutService) Start(accommodationID string) *service.CheckoutSession {
	return nil
}

func (m *mockCheckoutService) Submit(ctx context.Context, session *service.CheckoutSession, req *model.BookingRequest) (*service.SessionView, error) {
	return nil, nil
}

func (m *mockCheckoutService) CompletePayment(ctx context.Context, reference string) (*service.SessionView, error) {
	m.completed = append(m.completed, reference)
	if m.completeFunc != nil {
		return m.completeFunc(ctx, reference)
	}
	return &service.SessionView{Reference: reference, State: string(service.StateCompleted)}, nil
}

func (m *mockCheckoutService) CancelPayment(ctx context.Context, reference string) (*service.SessionView, error) {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, reference)
	}
	return nil, nil
}

func (m *mockCheckoutService) GetSession(reference string) (*service.SessionView, error) {
	return nil, nil
}

func (m *mockCheckoutService) SetOnComplete(fn func(bookingID, orderID string)) {}
func (m *mockCheckoutService) SetOnError(fn func(message string))              {}
func (m *mockCheckoutService) Stop()                                           {}

func webhookFixture(mock *mockCheckoutService) *WebhookHandler {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	return NewWebhookHandler(mock, log)
}

func postWebhook(h *WebhookHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/paystack", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.HandlePaystack(w, req, httprouter.Params{})
	return w
}

func TestHandlePaystack_ChargeSuccess(t *testing.T) {
	mock := &mockCheckoutService{}
	h := webhookFixture(mock)

	w := postWebhook(h, `{"event":"charge.success","data":{"reference":"BOOK-1-abc","status":"success"}}`)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if len(mock.completed) != 1 || mock.completed[0] != "BOOK-1-abc" {
		t.Errorf("completed = %v, want [BOOK-1-abc]", mock.completed)
	}
}

func TestHandlePaystack_IgnoresOtherEvents(t *testing.T) {
	mock := &mockCheckoutService{}
	h := webhookFixture(mock)

	w := postWebhook(h, `{"event":"subscription.create","data":{"reference":"SUB-1"}}`)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if len(mock.completed) != 0 {
		t.Error("unrelated events must not resolve checkout sessions")
	}
}

func TestHandlePaystack_InvalidPayload(t *testing.T) {
	h := webhookFixture(&mockCheckoutService{})

	if w := postWebhook(h, `not json`); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if w := postWebhook(h, `{"event":"charge.success","data":{}}`); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d for missing reference, want 400", w.Code)
	}
}

func TestHandlePaystack_AcksAlreadyResolvedSessions(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"session gone", apperrors.NotFoundWithID("Checkout session", "BOOK-1-abc")},
		{"redirect in flight", apperrors.Conflict("Payment is already being processed")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockCheckoutService{
				completeFunc: func(ctx context.Context, reference string) (*service.SessionView, error) {
					return nil, tt.err
				},
			}
			h := webhookFixture(mock)

			w := postWebhook(h, `{"event":"charge.success","data":{"reference":"BOOK-1-abc"}}`)

			// Non-2xx would make the gateway redeliver an event that has
			// nothing left to do.
			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", w.Code)
			}
		})
	}
}

func TestHandlePaystack_GatewayErrorRequestsRedelivery(t *testing.T) {
	mock := &mockCheckoutService{
		completeFunc: func(ctx context.Context, reference string) (*service.SessionView, error) {
			return nil, apperrors.Gateway("Payment verification failed", nil)
		},
	}
	h := webhookFixture(mock)

	w := postWebhook(h, `{"event":"charge.success","data":{"reference":"BOOK-1-abc"}}`)

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502 so the event is redelivered", w.Code)
	}
}
