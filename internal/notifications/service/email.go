package service

import (
	"fmt"
	"net/smtp"

	"steadyhotel/pkg/config"
	"steadyhotel/pkg/logger"
)

// EmailSender delivers booking receipts over SMTP. When no SMTP host is
// configured the send degrades to a log line, which keeps local
// environments working without a mail relay.
type EmailSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	log      *logger.Logger
}

func NewEmailSender(cfg *config.Config) *EmailSender {
	return &EmailSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
		log:      cfg.Log,
	}
}

func (s *EmailSender) SendReceipt(to string, event *BookingConfirmed, receiptPath string) error {
	if s.host == "" || s.from == "" {
		s.log.Warn("SMTP not configured, skipping receipt email",
			"to", to,
			"booking_id", event.BookingID,
			"receipt", receiptPath,
		)
		return nil
	}

	subject := "Your Steady Hotel Booking Confirmation"
	body := fmt.Sprintf(`Dear %s,

Thank you for booking with Steady Hotel!

Booking Details:
- Booking ID: %s
- Accommodation: %s
- Check-in: %s
- Check-out: %s
- Guests: %d
- Amount: %.2f %s
- Payment Reference: %s

Your payment has been processed successfully and your booking is confirmed.

Best regards,
Steady Hotel Team
`,
		event.UserName,
		event.BookingID,
		event.AccommodationName,
		event.CheckInDate.Format("2006-01-02"),
		event.CheckOutDate.Format("2006-01-02"),
		event.NumberOfGuests,
		event.Price,
		event.Currency,
		event.PaymentReference,
	)

	headers := map[string]string{
		"From":         s.from,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/plain; charset=UTF-8",
	}

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + body

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send receipt email: %w", err)
	}

	s.log.Info("Receipt email sent",
		"to", to,
		"booking_id", event.BookingID,
	)
	return nil
}
