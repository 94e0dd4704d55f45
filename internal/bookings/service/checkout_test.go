package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"steadyhotel/internal/bookings/validator"
	"steadyhotel/pkg/config"
	apperrors "steadyhotel/pkg/errors"
	"steadyhotel/pkg/kafka"
	"steadyhotel/pkg/logger"
	"steadyhotel/pkg/model"
	"steadyhotel/pkg/paystack"
	mongotx "steadyhotel/pkg/db/mongo"
)

// --- mocks ---

type mockBookingRepository struct {
	createFunc  func(ctx context.Context, booking *model.Booking) error
	findFunc    func(ctx context.Context, accommodationID string, checkIn, checkOut *time.Time, limit int, offset int64) ([]*model.Booking, error)
	createdSeen []*model.Booking
	mu          sync.Mutex
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createFunc != nil {
		if err := m.createFunc(ctx, booking); err != nil {
			return err
		}
	}
	booking.ID = "booking-1"
	m.createdSeen = append(m.createdSeen, booking)
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) FindByPaymentID(ctx context.Context, paymentID string) (*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) FindByAccommodationAndDates(ctx context.Context, accommodationID string, checkIn, checkOut *time.Time, limit int, offset int64) ([]*model.Booking, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, accommodationID, checkIn, checkOut, limit, offset)
	}
	return nil, nil
}

func (m *mockBookingRepository) CountByAccommodationAndDates(ctx context.Context, accommodationID string, checkIn, checkOut *time.Time) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	var sessCtx mongo.SessionContext
	return fn(sessCtx)
}

type mockOrderRepository struct {
	createFunc func(ctx context.Context, order *model.Order) error
	created    []*model.Order
	mu         sync.Mutex
}

func (m *mockOrderRepository) Create(ctx context.Context, order *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createFunc != nil {
		if err := m.createFunc(ctx, order); err != nil {
			return err
		}
	}
	order.ID = "order-1"
	m.created = append(m.created, order)
	return nil
}

func (m *mockOrderRepository) FindByBookingID(ctx context.Context, bookingID string) (*model.Order, error) {
	return nil, nil
}

type mockLockRepository struct {
	createFunc func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error)
	deleted    []string
}

func (m *mockLockRepository) Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	return lock, nil
}

func (m *mockLockRepository) Delete(ctx context.Context, lockID string) error {
	m.deleted = append(m.deleted, lockID)
	return nil
}

type mockGateway struct {
	initializeFunc func(ctx context.Context, req *paystack.InitializeRequest) (*paystack.InitializedTransaction, error)
	verifyFunc     func(ctx context.Context, reference string) (*paystack.Transaction, error)
	initRequests   []*paystack.InitializeRequest
}

func (m *mockGateway) Initialize(ctx context.Context, req *paystack.InitializeRequest) (*paystack.InitializedTransaction, error) {
	m.initRequests = append(m.initRequests, req)
	if m.initializeFunc != nil {
		return m.initializeFunc(ctx, req)
	}
	return &paystack.InitializedTransaction{
		AuthorizationURL: "https://checkout.paystack.com/abc123",
		AccessCode:       "abc123",
		Reference:        req.Reference,
	}, nil
}

func (m *mockGateway) Verify(ctx context.Context, reference string) (*paystack.Transaction, error) {
	if m.verifyFunc != nil {
		return m.verifyFunc(ctx, reference)
	}
	return &paystack.Transaction{
		Status:    paystack.StatusSuccess,
		Reference: reference,
	}, nil
}

type mockPublisher struct {
	mu       sync.Mutex
	messages []kafka.Message
}

func (m *mockPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockPublisher) eventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var types []string
	for _, msg := range m.messages {
		types = append(types, msg.GetEventType())
	}
	return types
}

// --- fixtures ---

type checkoutFixture struct {
	service   *checkoutService
	repo      *mockBookingRepository
	orderRepo *mockOrderRepository
	lockRepo  *mockLockRepository
	gateway   *mockGateway
	publisher *mockPublisher

	completions []string
	errorMsgs   []string
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})

	cfg := &config.Config{
		Log:                log,
		Currency:           "ZAR",
		CheckoutSessionTTL: 30 * time.Minute,
		ReadTimeout:        5 * time.Second,
		WriteTimeout:       5 * time.Second,
	}

	f := &checkoutFixture{
		repo:      &mockBookingRepository{},
		orderRepo: &mockOrderRepository{},
		lockRepo:  &mockLockRepository{},
		gateway:   &mockGateway{},
		publisher: &mockPublisher{},
	}

	svc := NewCheckoutService(
		f.repo,
		f.orderRepo,
		f.lockRepo,
		validator.NewBookingValidator(log),
		f.gateway,
		f.publisher,
		cfg,
	).(*checkoutService)

	svc.SetOnComplete(func(bookingID, orderID string) {
		f.completions = append(f.completions, bookingID+"/"+orderID)
	})
	svc.SetOnError(func(message string) {
		f.errorMsgs = append(f.errorMsgs, message)
	})

	f.service = svc
	t.Cleanup(svc.Stop)
	return f
}

func checkoutRequest() *model.BookingRequest {
	return &model.BookingRequest{
		AccommodationID:   "507f1f77bcf86cd799439011",
		AccommodationName: "Honeymoon Suite Deluxe",
		Category:          "Honeymoon Suite",
		Price:             "R 1,250.00",
		CheckInDate:       time.Now().AddDate(0, 0, 7),
		CheckOutDate:      time.Now().AddDate(0, 0, 9),
		NumberOfGuests:    2,
		UserID:            "user-42",
		UserEmail:         "guest@example.com",
		UserName:          "Thandi Ngwenya",
	}
}

func (f *checkoutFixture) submit(t *testing.T) *SessionView {
	t.Helper()
	req := checkoutRequest()
	session := f.service.Start(req.AccommodationID)
	view, err := f.service.Submit(context.Background(), session, req)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	return view
}

// --- tests ---

func TestSubmit_MovesToAwaitingPayment(t *testing.T) {
	f := newCheckoutFixture(t)

	view := f.submit(t)

	if view.State != string(StateAwaitingPayment) {
		t.Errorf("state = %s, want %s", view.State, StateAwaitingPayment)
	}
	if view.AuthorizationURL == "" {
		t.Error("expected authorization URL to be set")
	}
	if !strings.HasPrefix(view.Reference, "BOOK-") {
		t.Errorf("reference %q does not have BOOK- prefix", view.Reference)
	}

	if len(f.gateway.initRequests) != 1 {
		t.Fatalf("expected 1 gateway initialization, got %d", len(f.gateway.initRequests))
	}
	init := f.gateway.initRequests[0]
	if init.Amount != 125000 {
		t.Errorf("amount = %d cents, want 125000 for R 1,250.00", init.Amount)
	}
	if init.Currency != "ZAR" {
		t.Errorf("currency = %s, want ZAR", init.Currency)
	}
	if init.Email != "guest@example.com" {
		t.Errorf("email = %s", init.Email)
	}
	if len(init.Metadata.CustomFields) != 1 || init.Metadata.CustomFields[0].Value != "user-42" {
		t.Errorf("expected user id metadata custom field, got %+v", init.Metadata.CustomFields)
	}
}

func TestSubmit_ValidationFailureReturnsToSelecting(t *testing.T) {
	f := newCheckoutFixture(t)

	req := checkoutRequest()
	req.CheckOutDate = req.CheckInDate.AddDate(0, 0, -1)

	session := f.service.Start(req.AccommodationID)
	view, err := f.service.Submit(context.Background(), session, req)
	if err == nil {
		t.Fatal("expected validation error")
	}

	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", appErr.StatusCode())
	}
	if view.State != string(StateSelecting) {
		t.Errorf("state = %s, want %s", view.State, StateSelecting)
	}
	if view.LastError == "" {
		t.Error("expected last error to be recorded on the session")
	}
	if len(f.gateway.initRequests) != 0 {
		t.Error("gateway must not be called for invalid input")
	}
	if len(f.repo.createdSeen) != 0 {
		t.Error("nothing may be persisted for invalid input")
	}
}

func TestSubmit_NonNumericPriceIsRejectedNotZero(t *testing.T) {
	f := newCheckoutFixture(t)

	req := checkoutRequest()
	req.Price = "price on request"

	session := f.service.Start(req.AccommodationID)
	_, err := f.service.Submit(context.Background(), session, req)
	if err == nil {
		t.Fatal("expected non-numeric price to be rejected")
	}
	if len(f.gateway.initRequests) != 0 {
		t.Error("a zero-amount transaction must never reach the gateway")
	}
}

func TestSubmit_ZeroPriceIsRejected(t *testing.T) {
	f := newCheckoutFixture(t)

	for _, price := range []any{float64(0), "R 0.00", -250.0} {
		req := checkoutRequest()
		req.Price = price

		session := f.service.Start(req.AccommodationID)
		view, err := f.service.Submit(context.Background(), session, req)
		if err == nil {
			t.Fatalf("price %v: expected a validation error", price)
		}
		appErr := apperrors.AsAppError(err)
		if appErr.StatusCode() != http.StatusUnprocessableEntity {
			t.Errorf("price %v: status = %d, want 422", price, appErr.StatusCode())
		}
		if view.State != string(StateSelecting) {
			t.Errorf("price %v: state = %s, want %s", price, view.State, StateSelecting)
		}
	}
	if len(f.gateway.initRequests) != 0 {
		t.Error("a non-positive amount must never reach the gateway")
	}
}

func TestSubmit_DatesUnavailable(t *testing.T) {
	f := newCheckoutFixture(t)

	f.repo.findFunc = func(ctx context.Context, accommodationID string, checkIn, checkOut *time.Time, limit int, offset int64) ([]*model.Booking, error) {
		return []*model.Booking{{
			AccommodationID: accommodationID,
			CheckInDate:     *checkIn,
			CheckOutDate:    *checkOut,
			Status:          model.BookingStatusConfirmed,
		}}, nil
	}

	req := checkoutRequest()
	session := f.service.Start(req.AccommodationID)
	view, err := f.service.Submit(context.Background(), session, req)
	if err == nil {
		t.Fatal("expected dates unavailable error")
	}

	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeDatesUnavailable {
		t.Errorf("code = %s, want %s", appErr.Code, apperrors.CodeDatesUnavailable)
	}
	if appErr.StatusCode() != http.StatusConflict {
		t.Errorf("status = %d, want 409", appErr.StatusCode())
	}
	if view.State != string(StateSelecting) {
		t.Errorf("state = %s, want %s", view.State, StateSelecting)
	}
}

func TestSubmit_GatewayInitializationFailure(t *testing.T) {
	f := newCheckoutFixture(t)

	f.gateway.initializeFunc = func(ctx context.Context, req *paystack.InitializeRequest) (*paystack.InitializedTransaction, error) {
		return nil, errors.New("connection refused")
	}

	req := checkoutRequest()
	session := f.service.Start(req.AccommodationID)
	view, err := f.service.Submit(context.Background(), session, req)
	if err == nil {
		t.Fatal("expected gateway error")
	}

	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", appErr.StatusCode())
	}
	if view.State != string(StateSelecting) {
		t.Errorf("state = %s, want %s", view.State, StateSelecting)
	}
}

func TestCompletePayment_HappyPath(t *testing.T) {
	f := newCheckoutFixture(t)

	view := f.submit(t)
	reference := view.Reference

	final, err := f.service.CompletePayment(context.Background(), reference)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if final.State != string(StateCompleted) {
		t.Errorf("state = %s, want %s", final.State, StateCompleted)
	}
	if final.BookingID != "booking-1" || final.OrderID != "order-1" {
		t.Errorf("ids = %s/%s, want booking-1/order-1", final.BookingID, final.OrderID)
	}

	if len(f.repo.createdSeen) != 1 {
		t.Fatalf("expected exactly one booking write, got %d", len(f.repo.createdSeen))
	}
	booking := f.repo.createdSeen[0]
	if booking.Status != model.BookingStatusConfirmed {
		t.Errorf("booking status = %s, want confirmed", booking.Status)
	}
	if booking.PaymentID != reference {
		t.Errorf("booking payment id = %s, want %s", booking.PaymentID, reference)
	}
	if booking.Price != 1250.00 {
		t.Errorf("booking price = %v, want 1250.00", booking.Price)
	}

	if len(f.orderRepo.created) != 1 {
		t.Fatalf("expected exactly one order write, got %d", len(f.orderRepo.created))
	}
	order := f.orderRepo.created[0]
	if order.BookingID != "booking-1" {
		t.Errorf("order booking id = %s", order.BookingID)
	}
	if order.Amount != 125000 {
		t.Errorf("order amount = %d cents, want 125000", order.Amount)
	}

	if len(f.completions) != 1 {
		t.Errorf("completion callback fired %d times, want exactly 1", len(f.completions))
	}

	types := f.publisher.eventTypes()
	if len(types) != 1 || types[0] != EventBookingConfirmed {
		t.Errorf("events = %v, want [%s]", types, EventBookingConfirmed)
	}

	// Session is cleared after completion
	if _, err := f.service.GetSession(reference); err == nil {
		t.Error("expected session to be removed after completion")
	}
}

func TestCompletePayment_VerifyFailureKeepsSessionAwaiting(t *testing.T) {
	f := newCheckoutFixture(t)

	view := f.submit(t)

	f.gateway.verifyFunc = func(ctx context.Context, reference string) (*paystack.Transaction, error) {
		return nil, errors.New("i/o timeout")
	}

	_, err := f.service.CompletePayment(context.Background(), view.Reference)
	if err == nil {
		t.Fatal("expected gateway error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", appErr.StatusCode())
	}

	// A transient verify failure must not lose the attempt
	current, err := f.service.GetSession(view.Reference)
	if err != nil {
		t.Fatalf("session lookup failed: %v", err)
	}
	if current.State != string(StateAwaitingPayment) {
		t.Errorf("state = %s, want %s", current.State, StateAwaitingPayment)
	}
	if len(f.repo.createdSeen) != 0 {
		t.Error("nothing may be written when verification fails")
	}
}

func TestCompletePayment_DeclinedCharge(t *testing.T) {
	f := newCheckoutFixture(t)

	view := f.submit(t)

	f.gateway.verifyFunc = func(ctx context.Context, reference string) (*paystack.Transaction, error) {
		return &paystack.Transaction{Status: "failed", Reference: reference}, nil
	}

	result, err := f.service.CompletePayment(context.Background(), view.Reference)
	if err == nil {
		t.Fatal("expected error for declined charge")
	}
	if result.State != string(StateSelecting) {
		t.Errorf("state = %s, want %s", result.State, StateSelecting)
	}
	if len(f.repo.createdSeen) != 0 {
		t.Error("declined payment must not create a booking")
	}

	types := f.publisher.eventTypes()
	if len(types) != 1 || types[0] != EventPaymentFailed {
		t.Errorf("events = %v, want [%s]", types, EventPaymentFailed)
	}
}

func TestCompletePayment_BookingWriteFailure(t *testing.T) {
	f := newCheckoutFixture(t)

	view := f.submit(t)

	f.repo.createFunc = func(ctx context.Context, booking *model.Booking) error {
		return errors.New("write concern error")
	}

	result, err := f.service.CompletePayment(context.Background(), view.Reference)
	if err == nil {
		t.Fatal("expected booking write error")
	}
	if result.State != string(StateSelecting) {
		t.Errorf("state = %s, want %s", result.State, StateSelecting)
	}
	if len(f.orderRepo.created) != 0 {
		t.Error("no order may be attempted when the booking write fails")
	}
	if len(f.completions) != 0 {
		t.Error("completion callback must not fire")
	}

	types := f.publisher.eventTypes()
	if len(types) != 1 || types[0] != EventPaymentFailed {
		t.Errorf("events = %v, want [%s]", types, EventPaymentFailed)
	}
}

func TestCompletePayment_OrderWriteFailureIsPartialFailure(t *testing.T) {
	f := newCheckoutFixture(t)

	view := f.submit(t)

	f.orderRepo.createFunc = func(ctx context.Context, order *model.Order) error {
		return errors.New("write concern error")
	}

	result, err := f.service.CompletePayment(context.Background(), view.Reference)
	if err != nil {
		t.Fatalf("partial failure must not surface as an error: %v", err)
	}

	if result.State != string(StatePartialFailure) {
		t.Errorf("state = %s, want %s", result.State, StatePartialFailure)
	}
	if result.BookingID != "booking-1" {
		t.Error("booking must stand when only the order write fails")
	}
	if len(f.repo.createdSeen) != 1 {
		t.Errorf("booking writes = %d, want 1 (no rollback)", len(f.repo.createdSeen))
	}
	if len(f.completions) != 0 {
		t.Error("completion callback must not fire on partial failure")
	}

	types := f.publisher.eventTypes()
	if len(types) != 1 || types[0] != EventOrderWriteFailed {
		t.Errorf("events = %v, want [%s]", types, EventOrderWriteFailed)
	}
}

func TestCompletePayment_RecheckFindsConflict(t *testing.T) {
	f := newCheckoutFixture(t)

	view := f.submit(t)

	// Dates were free at submit time but taken by the time payment clears
	f.repo.findFunc = func(ctx context.Context, accommodationID string, checkIn, checkOut *time.Time, limit int, offset int64) ([]*model.Booking, error) {
		return []*model.Booking{{
			AccommodationID: accommodationID,
			CheckInDate:     *checkIn,
			CheckOutDate:    *checkOut,
			Status:          model.BookingStatusConfirmed,
		}}, nil
	}

	result, err := f.service.CompletePayment(context.Background(), view.Reference)
	if err == nil {
		t.Fatal("expected dates unavailable error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeDatesUnavailable {
		t.Errorf("code = %s, want %s", appErr.Code, apperrors.CodeDatesUnavailable)
	}
	if result.State != string(StateSelecting) {
		t.Errorf("state = %s, want %s", result.State, StateSelecting)
	}
	if len(f.repo.createdSeen) != 0 {
		t.Error("no booking may be written when the re-check finds a conflict")
	}
}

func TestCancelPayment(t *testing.T) {
	f := newCheckoutFixture(t)

	view := f.submit(t)

	result, err := f.service.CancelPayment(context.Background(), view.Reference)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if result.State != string(StateSelecting) {
		t.Errorf("state = %s, want %s", result.State, StateSelecting)
	}
	if result.LastError != "Payment was cancelled" {
		t.Errorf("last error = %q, want %q", result.LastError, "Payment was cancelled")
	}
	if len(f.repo.createdSeen) != 0 || len(f.orderRepo.created) != 0 {
		t.Error("cancel must have no persistence side effects")
	}

	types := f.publisher.eventTypes()
	if len(types) != 1 || types[0] != EventPaymentCancelled {
		t.Errorf("events = %v, want [%s]", types, EventPaymentCancelled)
	}
}

func TestCancelPayment_RejectedAfterPartialFailure(t *testing.T) {
	f := newCheckoutFixture(t)

	view := f.submit(t)

	f.orderRepo.createFunc = func(ctx context.Context, order *model.Order) error {
		return errors.New("write concern error")
	}
	if _, err := f.service.CompletePayment(context.Background(), view.Reference); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	_, err := f.service.CancelPayment(context.Background(), view.Reference)
	if err == nil {
		t.Fatal("expected conflict cancelling a partially failed session")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != http.StatusConflict {
		t.Errorf("status = %d, want 409", appErr.StatusCode())
	}

	current, err := f.service.GetSession(view.Reference)
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if current.State != string(StatePartialFailure) {
		t.Errorf("state = %s, want %s", current.State, StatePartialFailure)
	}
}

func TestCancelPayment_RejectedAfterDecline(t *testing.T) {
	f := newCheckoutFixture(t)

	view := f.submit(t)

	f.gateway.verifyFunc = func(ctx context.Context, reference string) (*paystack.Transaction, error) {
		return &paystack.Transaction{Status: "failed", Reference: reference}, nil
	}
	if _, err := f.service.CompletePayment(context.Background(), view.Reference); err == nil {
		t.Fatal("expected error for declined charge")
	}

	_, err := f.service.CancelPayment(context.Background(), view.Reference)
	if err == nil {
		t.Fatal("expected conflict cancelling a session that already left awaiting_payment")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != http.StatusConflict {
		t.Errorf("status = %d, want 409", appErr.StatusCode())
	}

	types := f.publisher.eventTypes()
	if len(types) != 1 || types[0] != EventPaymentFailed {
		t.Errorf("events = %v, want [%s]", types, EventPaymentFailed)
	}
}

func TestCompletePayment_UnknownReference(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.service.CompletePayment(context.Background(), "BOOK-0-deadbeef")
	if err == nil {
		t.Fatal("expected not found error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != http.StatusNotFound {
		t.Errorf("status = %d, want 404", appErr.StatusCode())
	}
}

func TestSlotLockConflict(t *testing.T) {
	f := newCheckoutFixture(t)

	view := f.submit(t)

	f.lockRepo.createFunc = func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
		return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	}

	_, err := f.service.CompletePayment(context.Background(), view.Reference)
	if err == nil {
		t.Fatal("expected conflict when the slot lock is held")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != http.StatusConflict {
		t.Errorf("status = %d, want 409", appErr.StatusCode())
	}
	if len(f.repo.createdSeen) != 0 {
		t.Error("no booking may be written while the slot lock is held")
	}
}

func TestPaymentReferenceFormat(t *testing.T) {
	ref := NewPaymentReference()

	parts := strings.Split(ref, "-")
	if len(parts) != 3 {
		t.Fatalf("reference %q does not have 3 segments", ref)
	}
	if parts[0] != "BOOK" {
		t.Errorf("prefix = %s, want BOOK", parts[0])
	}
	if len(parts[2]) != 8 {
		t.Errorf("suffix length = %d, want 8", len(parts[2]))
	}

	if NewPaymentReference() == ref {
		t.Error("consecutive references must differ")
	}
}
