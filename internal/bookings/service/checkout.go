package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"steadyhotel/internal/bookings/repository"
	"steadyhotel/internal/bookings/validator"
	"steadyhotel/pkg/config"
	apperrors "steadyhotel/pkg/errors"
	"steadyhotel/pkg/model"
	"steadyhotel/pkg/paystack"
	"steadyhotel/pkg/sanitizer"
)

// CheckoutService drives a booking attempt from selection through payment
// to the final booking and order writes. Each attempt lives in its own
// CheckoutSession; payment resolution arrives later as a separate call
// (user redirect or gateway webhook) keyed by the payment reference.
type CheckoutService interface {
	Start(accommodationID string) *CheckoutSession
	Submit(ctx context.Context, session *CheckoutSession, req *model.BookingRequest) (*SessionView, error)
	CompletePayment(ctx context.Context, reference string) (*SessionView, error)
	CancelPayment(ctx context.Context, reference string) (*SessionView, error)
	GetSession(reference string) (*SessionView, error)
	SetOnComplete(fn func(bookingID, orderID string))
	SetOnError(fn func(message string))
	Stop()
}

type checkoutService struct {
	repo      repository.BookingRepository
	orderRepo repository.OrderRepository
	lockRepo  repository.BookingLockRepository
	validator *validator.BookingValidator
	gateway   PaymentGateway
	publisher EventPublisher
	sessions  *SessionStore
	cfg       *config.Config

	onComplete func(bookingID, orderID string)
	onError    func(message string)
}

func NewCheckoutService(
	repo repository.BookingRepository,
	orderRepo repository.OrderRepository,
	lockRepo repository.BookingLockRepository,
	bookingValidator *validator.BookingValidator,
	gateway PaymentGateway,
	publisher EventPublisher,
	cfg *config.Config,
) CheckoutService {
	return &checkoutService{
		repo:      repo,
		orderRepo: orderRepo,
		lockRepo:  lockRepo,
		validator: bookingValidator,
		gateway:   gateway,
		publisher: publisher,
		sessions:  NewSessionStore(cfg.CheckoutSessionTTL),
		cfg:       cfg,
	}
}

func (s *checkoutService) SetOnComplete(fn func(bookingID, orderID string)) {
	s.onComplete = fn
}

func (s *checkoutService) SetOnError(fn func(message string)) {
	s.onError = fn
}

func (s *checkoutService) Stop() {
	s.sessions.Stop()
}

// Start opens a fresh session for one accommodation selection.
func (s *checkoutService) Start(accommodationID string) *CheckoutSession {
	return &CheckoutSession{
		State:     StateSelecting,
		CreatedAt: time.Now(),
		Request:   &model.BookingRequest{AccommodationID: accommodationID},
	}
}

// Submit validates the request, initializes the gateway transaction and
// parks the session in AwaitingPayment. Invalid input returns the session
// to Selecting; no gateway call is made and nothing is persisted.
func (s *checkoutService) Submit(ctx context.Context, session *CheckoutSession, req *model.BookingRequest) (*SessionView, error) {
	session.mu.Lock()
	session.State = StateValidating
	session.Request = req
	session.mu.Unlock()

	s.sanitize(req)

	if err := s.validator.Validate(req); err != nil {
		s.failSession(session, StateSelecting, err.Error())
		return session.View(), apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	price, err := sanitizer.NormalizePrice(req.Price)
	if err != nil {
		s.failSession(session, StateSelecting, err.Error())
		return session.View(), apperrors.Validation("Invalid price", map[string]any{"error": err.Error()})
	}
	if price <= 0 {
		s.failSession(session, StateSelecting, "price must be a positive amount")
		return session.View(), apperrors.Validation("Invalid price", map[string]any{"price": price})
	}

	if err := s.checkAvailability(ctx, req); err != nil {
		s.failSession(session, StateSelecting, "The selected dates are no longer available")
		return session.View(), err
	}

	reference := NewPaymentReference()
	attempt := &model.PaymentAttempt{
		Reference: reference,
		Amount:    sanitizer.AmountInCents(price),
		Currency:  s.cfg.Currency,
		Email:     req.UserEmail,
		Status:    model.PaymentPending,
	}

	initialized, err := s.gateway.Initialize(ctx, &paystack.InitializeRequest{
		Reference: reference,
		Email:     req.UserEmail,
		Amount:    attempt.Amount,
		Currency:  attempt.Currency,
		Metadata: paystack.Metadata{
			CustomFields: []paystack.CustomField{
				{
					DisplayName:  "User ID",
					VariableName: "user_id",
					Value:        req.UserID,
				},
			},
		},
	})
	if err != nil {
		s.cfg.Log.Error("Payment initialization failed", "reference", reference, "error", err)
		s.failSession(session, StateSelecting, "Payment could not be initialized")
		return session.View(), apperrors.Gateway("Payment could not be initialized", err)
	}

	attempt.AuthorizationURL = initialized.AuthorizationURL
	attempt.GatewayReference = initialized.Reference

	session.mu.Lock()
	session.Reference = reference
	session.Payment = attempt
	session.State = StateAwaitingPayment
	session.LastError = ""
	session.mu.Unlock()

	s.sessions.Put(session)

	s.cfg.Log.Info("Checkout awaiting payment",
		"reference", reference,
		"accommodation_id", req.AccommodationID,
		"amount", attempt.Amount,
		"currency", attempt.Currency,
	)

	return session.View(), nil
}

// CompletePayment resolves a successful gateway callback. The transaction
// is re-verified with the gateway before anything is written.
func (s *checkoutService) CompletePayment(ctx context.Context, reference string) (*SessionView, error) {
	session, ok := s.sessions.Get(reference)
	if !ok {
		return nil, apperrors.NotFoundWithID("Checkout session", reference)
	}

	session.mu.Lock()
	if session.completed {
		session.mu.Unlock()
		return session.View(), nil
	}
	if session.Processing {
		session.mu.Unlock()
		return session.View(), apperrors.Conflict("Payment is already being processed")
	}
	if session.State != StateAwaitingPayment {
		state := session.State
		session.mu.Unlock()
		return session.View(), apperrors.Conflict(fmt.Sprintf("Cannot complete payment from state %q", state))
	}
	session.Processing = true
	session.mu.Unlock()

	defer func() {
		session.mu.Lock()
		session.Processing = false
		session.mu.Unlock()
	}()

	tx, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		s.cfg.Log.Error("Payment verification failed", "reference", reference, "error", err)
		s.reportError(session, "Payment verification failed")
		return session.View(), apperrors.Gateway("Payment verification failed", err)
	}

	if tx.Status != paystack.StatusSuccess {
		s.cfg.Log.Warn("Payment not successful", "reference", reference, "status", tx.Status)
		session.mu.Lock()
		session.Payment.Status = model.PaymentFailed
		session.mu.Unlock()
		s.failSession(session, StateSelecting, "Payment was not successful")
		s.publishPaymentEvent(ctx, EventPaymentFailed, session, tx.Status)
		return session.View(), apperrors.PaymentCancelled("Payment was not successful")
	}

	session.mu.Lock()
	session.Payment.Status = model.PaymentSucceeded
	session.State = StateRecording
	req := session.Request
	amount := session.Payment.Amount
	currency := session.Payment.Currency
	session.mu.Unlock()

	price, err := sanitizer.NormalizePrice(req.Price)
	if err != nil {
		// Validated at submit time; failing here means the request changed
		s.failSession(session, StateSelecting, "Invalid price")
		return session.View(), apperrors.Validation("Invalid price", map[string]any{"error": err.Error()})
	}

	booking, err := s.recordBooking(ctx, req, reference, price, currency)
	if err != nil {
		// The charge went through but no booking exists; the event feed
		// carries the charge reference so operations can drive a refund.
		s.failSession(session, StateSelecting, userMessage(err))
		s.publishPaymentEvent(ctx, EventPaymentFailed, session, "charge succeeded but booking was not recorded")
		return session.View(), err
	}

	session.mu.Lock()
	session.BookingID = booking.ID
	session.mu.Unlock()

	order := &model.Order{
		BookingID:         booking.ID,
		AccommodationID:   booking.AccommodationID,
		AccommodationName: booking.AccommodationName,
		PaymentID:         reference,
		Amount:            amount,
		Price:             price,
		Currency:          currency,
		UserID:            booking.UserID,
		UserEmail:         booking.UserEmail,
	}

	// The order write stays outside the booking transaction: a failure
	// here must not roll the booking back.
	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.cfg.Log.Error("Order write failed after booking was recorded",
			"booking_id", booking.ID,
			"reference", reference,
			"error", err,
		)

		session.mu.Lock()
		session.State = StatePartialFailure
		session.LastError = "Your booking is confirmed, but we could not record the order. Support has been notified."
		session.mu.Unlock()

		publishEvent(ctx, s.publisher, s.cfg.Log, EventOrderWriteFailed, booking.ID, OrderWriteFailedEvent{
			BookingID:        booking.ID,
			PaymentReference: reference,
			AccommodationID:  booking.AccommodationID,
			Error:            err.Error(),
			FailedAt:         time.Now().UTC(),
		})

		s.reportError(session, session.LastError)
		return session.View(), nil
	}

	session.mu.Lock()
	session.OrderID = order.ID
	session.State = StateCompleted
	session.completed = true
	session.mu.Unlock()

	publishEvent(ctx, s.publisher, s.cfg.Log, EventBookingConfirmed, booking.ID, newBookingConfirmedEvent(booking, order.ID))

	if s.onComplete != nil {
		s.onComplete(booking.ID, order.ID)
	}

	s.sessions.Delete(reference)

	s.cfg.Log.Info("Checkout completed",
		"reference", reference,
		"booking_id", booking.ID,
		"order_id", order.ID,
	)

	return session.View(), nil
}

// CancelPayment resolves a gateway cancel callback. The session returns
// to Selecting; nothing is persisted. Cancellation is only valid while
// the session is waiting on the gateway: once recording has started the
// writes run to completion, and Completed and PartialFailure are
// terminal.
func (s *checkoutService) CancelPayment(ctx context.Context, reference string) (*SessionView, error) {
	session, ok := s.sessions.Get(reference)
	if !ok {
		return nil, apperrors.NotFoundWithID("Checkout session", reference)
	}

	session.mu.Lock()
	if session.Processing || session.State != StateAwaitingPayment {
		state := session.State
		session.mu.Unlock()
		return session.View(), apperrors.Conflict(fmt.Sprintf("Cannot cancel payment from state %q", state))
	}
	if session.Payment != nil {
		session.Payment.Status = model.PaymentCancelled
	}
	session.mu.Unlock()

	s.failSession(session, StateSelecting, "Payment was cancelled")
	s.publishPaymentEvent(ctx, EventPaymentCancelled, session, "cancelled by user")

	s.cfg.Log.Info("Payment cancelled", "reference", reference)

	return session.View(), nil
}

func (s *checkoutService) GetSession(reference string) (*SessionView, error) {
	session, ok := s.sessions.Get(reference)
	if !ok {
		return nil, apperrors.NotFoundWithID("Checkout session", reference)
	}
	return session.View(), nil
}

// recordBooking re-checks availability and writes the booking inside one
// transaction, serialized by an advisory lock on the accommodation/date
// slot.
func (s *checkoutService) recordBooking(ctx context.Context, req *model.BookingRequest, reference string, price float64, currency string) (*model.Booking, error) {
	lockID, err := s.acquireSlotLock(ctx, req.AccommodationID, req.CheckInDate)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	booking := &model.Booking{
		AccommodationID:   req.AccommodationID,
		AccommodationName: req.AccommodationName,
		CheckInDate:       req.CheckInDate,
		CheckOutDate:      req.CheckOutDate,
		NumberOfGuests:    req.NumberOfGuests,
		Price:             price,
		Currency:          currency,
		PaymentID:         reference,
		UserID:            req.UserID,
		UserEmail:         req.UserEmail,
		UserName:          req.UserName,
		Status:            model.BookingStatusConfirmed,
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.checkAvailability(sessCtx, req); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to record booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to record booking", "reference", reference, "error", err)
		return nil, err
	}

	return booking, nil
}

// checkAvailability rejects date ranges that overlap an existing pending
// or confirmed booking for the same accommodation.
func (s *checkoutService) checkAvailability(ctx context.Context, req *model.BookingRequest) error {
	const maxOverlapCheck = 30

	existing, err := s.repo.FindByAccommodationAndDates(ctx, req.AccommodationID, &req.CheckInDate, &req.CheckOutDate, maxOverlapCheck, 0)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if overlaps(b.CheckInDate, b.CheckOutDate, req.CheckInDate, req.CheckOutDate) {
			return apperrors.DatesUnavailable(fmt.Sprintf(
				"Accommodation is already booked from %s to %s",
				b.CheckInDate.Format("2006-01-02"),
				b.CheckOutDate.Format("2006-01-02"),
			))
		}
	}
	return nil
}

func overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}

// acquireSlotLock creates an advisory lock for one accommodation/check-in
// slot. A duplicate key means another request is writing the same slot.
func (s *checkoutService) acquireSlotLock(ctx context.Context, accommodationID string, checkIn time.Time) (string, error) {
	lockID := fmt.Sprintf("booking_lock_%s_%d", accommodationID, checkIn.Unix())

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(10 * time.Second),
	}

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("These dates are currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

func (s *checkoutService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

func (s *checkoutService) sanitize(req *model.BookingRequest) {
	req.AccommodationName = sanitizer.TrimAndNormalize(req.AccommodationName)
	req.Category = sanitizer.TrimAndNormalize(req.Category)
	req.UserName = sanitizer.NormalizeName(req.UserName)
	req.UserEmail = sanitizer.NormalizeEmail(req.UserEmail)
}

func (s *checkoutService) failSession(session *CheckoutSession, state CheckoutState, message string) {
	session.mu.Lock()
	session.State = state
	session.LastError = message
	session.mu.Unlock()

	s.reportError(session, message)
}

func (s *checkoutService) reportError(session *CheckoutSession, message string) {
	if s.onError != nil {
		s.onError(message)
	}
}

func (s *checkoutService) publishPaymentEvent(ctx context.Context, eventType string, session *CheckoutSession, reason string) {
	session.mu.Lock()
	event := PaymentEvent{
		PaymentReference: session.Reference,
		Reason:           reason,
		OccurredAt:       time.Now().UTC(),
	}
	if session.Request != nil {
		event.AccommodationID = session.Request.AccommodationID
		event.UserID = session.Request.UserID
	}
	key := session.Reference
	session.mu.Unlock()

	publishEvent(ctx, s.publisher, s.cfg.Log, eventType, key, event)
}

// userMessage extracts a presentable message for the session error field.
func userMessage(err error) string {
	if appErr, ok := err.(*apperrors.AppError); ok {
		return appErr.Message
	}
	return "Something went wrong while recording your booking"
}
