package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders a monthly sheet into a tabular PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Column widths in mm. Date and the combined totals cells need more room
// than the punch times.
var sheetColWidths = []float64{34, 44, 28, 28, 56}

// Render creates a PDF document titled with the sheet's person-month, one
// table row per day and a bold totals line.
func (e *PDFExporter) Render(sheet Sheet) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if sheet.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(sheet.Title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 10)
	for i, header := range sheetHeaders() {
		pdf.CellFormat(sheetColWidths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range sheet.Rows {
		for i, value := range row.cells() {
			pdf.CellFormat(sheetColWidths[i], 7, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 9)
	for i, value := range sheet.Totals.cells() {
		pdf.CellFormat(sheetColWidths[i], 7, value, "1", 0, "", false, 0, "")
	}
	pdf.Ln(-1)

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
