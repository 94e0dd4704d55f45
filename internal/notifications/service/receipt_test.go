package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"steadyhotel/pkg/config"
	"steadyhotel/pkg/kafka"
	"steadyhotel/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func confirmedEvent() *BookingConfirmed {
	return &BookingConfirmed{
		BookingID:         "booking-1",
		OrderID:           "order-1",
		PaymentReference:  "BOOK-1756600000000-a1b2c3d4",
		AccommodationID:   "507f1f77bcf86cd799439011",
		AccommodationName: "Honeymoon Suite Deluxe",
		CheckInDate:       time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		CheckOutDate:      time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC),
		NumberOfGuests:    2,
		Price:             1250.00,
		Currency:          "ZAR",
		UserID:            "user-42",
		UserEmail:         "guest@example.com",
		UserName:          "Thandi Ngwenya",
		ConfirmedAt:       time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
	}
}

func TestGenerate_WritesPDF(t *testing.T) {
	dir := t.TempDir()
	gen := NewReceiptGenerator(dir, testLogger())

	event := confirmedEvent()
	path, err := gen.Generate(event)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	want := filepath.Join(dir, "receipt_BOOK-1756600000000-a1b2c3d4.pdf")
	if path != want {
		t.Errorf("path = %s, want %s", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read receipt: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("receipt file is empty")
	}
	if string(data[:5]) != "%PDF-" {
		t.Errorf("receipt does not start with a PDF header: %q", data[:5])
	}
}

func TestGenerate_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "receipts")
	gen := NewReceiptGenerator(dir, testLogger())

	if _, err := gen.Generate(confirmedEvent()); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
}

func notificationFixture(t *testing.T) *NotificationService {
	t.Helper()
	return NewNotificationService(&config.Config{
		Log:         testLogger(),
		ReceiptsDir: t.TempDir(),
		// No SMTP host: the email step degrades to a log line
	})
}

func TestHandleMessage_IgnoresOtherEventTypes(t *testing.T) {
	svc := notificationFixture(t)

	msg := kafka.NewMessage().
		WithKey("booking-1").
		WithRawValue([]byte(`{"payment_reference":"BOOK-1-x"}`)).
		WithEventType("payment.cancelled").
		Build()

	if err := svc.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("unrelated events must be acknowledged, got: %v", err)
	}
}

func TestHandleMessage_ProcessesBookingConfirmed(t *testing.T) {
	svc := notificationFixture(t)

	msg := kafka.NewMessage().
		WithKey("booking-1").
		WithValue(confirmedEvent()).
		WithEventType(eventBookingConfirmed).
		Build()

	if err := svc.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	path := filepath.Join(svc.cfg.ReceiptsDir, "receipt_BOOK-1756600000000-a1b2c3d4.pdf")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected receipt at %s: %v", path, err)
	}
}

func TestHandleMessage_UndecodablePayloadIsPermanent(t *testing.T) {
	svc := notificationFixture(t)

	msg := kafka.NewMessage().
		WithKey("booking-1").
		WithRawValue([]byte(`not json`)).
		WithEventType(eventBookingConfirmed).
		Build()

	err := svc.HandleMessage(context.Background(), msg)
	if err == nil {
		t.Fatal("expected error for undecodable payload")
	}
	if kafka.ShouldRetry(err, 0, 3) {
		t.Error("an undecodable payload must not be retried")
	}
}
