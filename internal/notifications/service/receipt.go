package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"steadyhotel/pkg/logger"
)

// ReceiptGenerator renders a booking confirmation as a PDF receipt on
// local disk.
type ReceiptGenerator struct {
	dir string
	log *logger.Logger
}

func NewReceiptGenerator(dir string, log *logger.Logger) *ReceiptGenerator {
	return &ReceiptGenerator{
		dir: dir,
		log: log,
	}
}

// Generate writes the receipt PDF and returns its path. Receipts are
// keyed by payment reference, so regenerating for the same booking
// overwrites the previous file.
func (g *ReceiptGenerator) Generate(event *BookingConfirmed) (string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create receipts directory: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(190, 10, "Steady Hotel")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(190, 10, "Booking Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(190, 10, fmt.Sprintf("Booking ID: %s", event.BookingID))
	pdf.Ln(10)
	pdf.Cell(190, 10, fmt.Sprintf("Payment Reference: %s", event.PaymentReference))
	pdf.Ln(10)
	pdf.Cell(190, 10, fmt.Sprintf("Guest: %s", event.UserName))
	pdf.Ln(10)
	pdf.Cell(190, 10, fmt.Sprintf("Accommodation: %s", event.AccommodationName))
	pdf.Ln(10)
	pdf.Cell(190, 10, fmt.Sprintf("Check-in: %s", event.CheckInDate.Format("2006-01-02")))
	pdf.Ln(10)
	pdf.Cell(190, 10, fmt.Sprintf("Check-out: %s", event.CheckOutDate.Format("2006-01-02")))
	pdf.Ln(10)
	pdf.Cell(190, 10, fmt.Sprintf("Guests: %d", event.NumberOfGuests))
	pdf.Ln(10)
	pdf.Cell(190, 10, fmt.Sprintf("Amount: %.2f %s", event.Price, event.Currency))
	pdf.Ln(10)
	pdf.Cell(190, 10, fmt.Sprintf("Confirmed: %s", event.ConfirmedAt.Format("2006-01-02 15:04:05")))

	filename := filepath.Join(g.dir, fmt.Sprintf("receipt_%s.pdf", event.PaymentReference))
	if err := pdf.OutputFileAndClose(filename); err != nil {
		return "", fmt.Errorf("failed to write receipt PDF: %w", err)
	}

	g.log.Info("Receipt generated",
		"booking_id", event.BookingID,
		"file", filename,
	)

	return filename, nil
}
