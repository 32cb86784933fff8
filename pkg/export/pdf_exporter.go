package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 277.0 // A4 landscape minus margins
	pdfRowHeight  = 7.0
	pdfHeaderSize = 10.0
	pdfBodySize   = 9.0
)

// PDF renders the table as an A4 landscape document. The header row repeats
// on every page and long cells are truncated to the column width.
func PDF(t Table, title string) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	doc := gofpdf.New("L", "mm", "A4", "")
	doc.SetMargins(10, 12, 10)
	doc.SetAutoPageBreak(true, 14)

	colWidth := pdfPageWidth / float64(len(t.Columns))
	writeHeader := func() {
		if title != "" {
			doc.SetFont("Helvetica", "B", 13)
			doc.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
			doc.Ln(2)
		}
		doc.SetFont("Helvetica", "B", pdfHeaderSize)
		doc.SetFillColor(230, 230, 230)
		for _, col := range t.Columns {
			doc.CellFormat(colWidth, pdfRowHeight, col, "1", 0, "C", true, 0, "")
		}
		doc.Ln(-1)
		doc.SetFont("Helvetica", "", pdfBodySize)
	}

	doc.SetHeaderFunc(func() {})
	doc.AddPage()
	writeHeader()

	_, pageHeight := doc.GetPageSize()
	for _, row := range t.Rows {
		if doc.GetY()+pdfRowHeight > pageHeight-14 {
			doc.AddPage()
			writeHeader()
		}
		for _, cell := range row {
			doc.CellFormat(colWidth, pdfRowHeight, truncate(doc, cell, colWidth), "1", 0, "", false, 0, "")
		}
		doc.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := doc.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(doc *gofpdf.Fpdf, cell string, width float64) string {
	const pad = 2.0
	for doc.GetStringWidth(cell) > width-pad && len(cell) > 1 {
		cell = cell[:len(cell)-1]
	}
	return cell
}
