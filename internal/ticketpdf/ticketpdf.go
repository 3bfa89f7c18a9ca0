// Package ticketpdf renders the e-ticket PDF that is emailed after a
// confirmed purchase. One page per ticket number, each with a scannable
// QR code for gate check-in.
package ticketpdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
)

const qrSize = 300

// QRPNG encodes a ticket number as a PNG QR code. The code carries only the
// ticket number; the gate app resolves it against the purchase record.
func QRPNG(ticketNumber string) ([]byte, error) {
	qr, err := qrcode.New(ticketNumber, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("generate qr: %w", err)
	}
	png, err := qr.PNG(qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr png: %w", err)
	}
	return png, nil
}

// Render produces one PDF covering every ticket number on the purchase.
func Render(p *domain.TicketPurchase, eventName string) ([]byte, error) {
	if len(p.TicketNumbers) == 0 {
		return nil, fmt.Errorf("purchase %s has no ticket numbers", p.Reference)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")

	for i, number := range p.TicketNumbers {
		pdf.AddPage()

		png, err := QRPNG(number)
		if err != nil {
			return nil, err
		}

		imgName := fmt.Sprintf("qr_%d", i)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(png))

		// QR centered on top, 100x100mm on a 210mm-wide page.
		qrX := (210.0 - 100.0) / 2
		pdf.ImageOptions(imgName, qrX, 20, 100, 100, false, opts, 0, "")
		pdf.SetY(125)

		pdf.SetDrawColor(200, 200, 200)
		pdf.SetLineWidth(0.5)
		pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
		pdf.Ln(10)

		pdf.SetFont("Arial", "B", 22)
		pdf.CellFormat(0, 10, eventName, "", 1, "C", false, 0, "")
		pdf.Ln(4)

		pdf.SetFont("Arial", "", 14)
		pdf.SetX(30)
		pdf.CellFormat(50, 9, "Guest:", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 9, p.PurchaserName, "", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "", 14)
		pdf.SetX(30)
		pdf.CellFormat(50, 9, "Ticket number:", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 9, number, "", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "", 14)
		pdf.SetX(30)
		pdf.CellFormat(50, 9, "Reference:", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 9, p.Reference, "", 1, "L", false, 0, "")

		pdf.Ln(8)
		pdf.SetFont("Arial", "I", 11)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, 6,
			"Present this ticket (printed or on screen) at the entrance.\nThe QR code admits one person and is void after scanning.",
			"", "C", false)
		pdf.SetTextColor(0, 0, 0)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render ticket pdf: %w", err)
	}

	return buf.Bytes(), nil
}
