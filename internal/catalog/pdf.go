package catalog

import (
	"fmt"
	"io"
	"log"

	"github.com/go-pdf/fpdf"
)

const (
	pdfFont      = "Helvetica"
	pdfMargin    = 15.0
	pdfImageW    = 60.0
	pdfLineH     = 6.0
	pdfLabelW    = 40.0
	pdfPageBreak = 40.0
)

type PDFRenderer struct{}

func (PDFRenderer) Extension() string { return "pdf" }

func (PDFRenderer) Render(w io.Writer, doc *Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(doc.Title, true)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin)
		pdf.SetFont(pdfFont, "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont(pdfFont, "B", 20)
	pdf.CellFormat(0, 12, tr(doc.Title), "", 1, "C", false, 0, "")
	pdf.SetFont(pdfFont, "", 10)
	pdf.CellFormat(0, pdfLineH, tr(fmt.Sprintf("Generated %s - %d varieties",
		doc.GeneratedAt.Format("2006-01-02 15:04"), len(doc.Entries))), "", 1, "C", false, 0, "")
	pdf.Ln(pdfLineH)

	_, pageH := pdf.GetPageSize()
	for i := range doc.Entries {
		e := &doc.Entries[i]
		if pdf.GetY() > pageH-pdfPageBreak {
			pdf.AddPage()
		}
		renderEntry(pdf, tr, i+1, e)
	}

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.Output(w)
}

func renderEntry(pdf *fpdf.Fpdf, tr func(string) string, n int, e *Entry) {
	pdf.SetFont(pdfFont, "B", 14)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("%d. %s", n, e.CommonName)), "B", 1, "L", false, 0, "")

	if e.ScientificName != "" {
		pdf.SetFont(pdfFont, "I", 11)
		pdf.CellFormat(0, pdfLineH, tr(e.ScientificName), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	if e.ImagePath != "" {
		drawImage(pdf, e.ImagePath)
	}

	if e.Description != "" {
		pdf.SetFont(pdfFont, "", 10)
		pdf.MultiCell(0, 5, tr(e.Description), "", "L", false)
		pdf.Ln(2)
	}

	for _, f := range e.fields() {
		pdf.SetFont(pdfFont, "B", 10)
		pdf.CellFormat(pdfLabelW, pdfLineH, tr(f.label+":"), "", 0, "L", false, 0, "")
		pdf.SetFont(pdfFont, "", 10)
		pdf.MultiCell(0, pdfLineH, tr(f.value), "", "L", false)
	}

	if e.History != "" {
		pdf.Ln(2)
		pdf.SetFont(pdfFont, "B", 10)
		pdf.CellFormat(0, pdfLineH, "History", "", 1, "L", false, 0, "")
		pdf.SetFont(pdfFont, "", 10)
		pdf.MultiCell(0, 5, tr(e.History), "", "L", false)
	}

	pdf.Ln(pdfLineH)
}

// drawImage places the image below the heading. An unreadable image is
// logged and left out.
func drawImage(pdf *fpdf.Fpdf, path string) {
	opts := fpdf.ImageOptions{ImageType: "JPG", ReadDpi: true}
	pdf.RegisterImageOptions(path, opts)
	if pdf.Err() {
		log.Printf("[Catalog] Skipping image %s: %v", path, pdf.Error())
		pdf.ClearError()
		return
	}
	pdf.ImageOptions(path, pdfMargin, pdf.GetY(), pdfImageW, 0, true, opts, 0, "")
	pdf.Ln(2)
}
