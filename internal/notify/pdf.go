package notify

import (
	"bytes"

	"github.com/go-pdf/fpdf"
)

const (
	OfferPDFFilename    = "OfferLetter.pdf"
	OfferPDFContentType = "application/pdf"
)

// RenderOfferPDF lays out the offer text under a centred heading.
func RenderOfferPDF(body string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Offer Letter", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 6, tr(body), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
