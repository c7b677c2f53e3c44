// Package render turns a layout tree into a portable document byte stream
// using gofpdf. It is the only package that knows about page geometry; the
// rest of the pipeline deals in the declarative tree.
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"dealer-admin-backend/internal/layout"
)

const (
	margin      = 15.0
	pageWidth   = 210.0
	contentW    = pageWidth - 2*margin
	imageBoxW   = 70.0
	imageBoxH   = 55.0
	sigBoxH     = 42.0
	labelColor  = 110
	borderShade = 200
)

type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render emits the tree as a single fixed-size PDF page.
func (r *PDFRenderer) Render(tree *layout.Tree) ([]byte, error) {
	pdf := gofpdf.New(tree.Page.Orientation, "mm", tree.Page.Size, "")
	pdf.SetTitle("Invoice", false)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()

	imgSeq := 0

	r.header(pdf, tree.Header)
	r.product(pdf, tree.Product, &imgSeq)
	r.price(pdf, tree.Price)
	r.signatures(pdf, tree.Signatures, &imgSeq)
	r.footer(pdf, tree.Footer)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to produce document: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) header(pdf *gofpdf.Fpdf, h layout.Header) {
	top := pdf.GetY()

	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	for i, line := range h.CompanyLines {
		if i == 1 {
			pdf.SetFont("Arial", "", 9)
			pdf.SetTextColor(labelColor, labelColor, labelColor)
		}
		pdf.CellFormat(contentW/2, 5, line, "", 1, "L", false, 0, "")
	}
	bottom := pdf.GetY()

	pdf.SetY(top)
	pdf.SetFont("Arial", "B", 22)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetX(margin + contentW/2)
	pdf.CellFormat(contentW/2, 10, h.Title, "", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, pair := range h.MetaPairs {
		pdf.SetX(margin + contentW/2)
		pdf.SetTextColor(labelColor, labelColor, labelColor)
		pdf.CellFormat(contentW/4, 5, pair.Label, "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(contentW/4, 5, pair.Value, "", 1, "R", false, 0, "")
	}
	if y := pdf.GetY(); y < bottom {
		pdf.SetY(bottom)
	}

	pdf.Ln(4)
	pdf.SetDrawColor(borderShade, borderShade, borderShade)
	pdf.Line(margin, pdf.GetY(), pageWidth-margin, pdf.GetY())
	pdf.Ln(5)
}

func (r *PDFRenderer) product(pdf *gofpdf.Fpdf, section layout.ProductSection, imgSeq *int) {
	r.heading(pdf, section.Heading)
	top := pdf.GetY()

	pdf.SetDrawColor(borderShade, borderShade, borderShade)
	pdf.Rect(margin, top, imageBoxW, imageBoxH, "D")
	if section.Image.Empty() {
		pdf.SetFont("Arial", "I", 9)
		pdf.SetTextColor(labelColor, labelColor, labelColor)
		pdf.SetXY(margin, top+imageBoxH/2-3)
		pdf.CellFormat(imageBoxW, 6, section.Image.Placeholder, "", 0, "C", false, 0, "")
	} else {
		r.placeImage(pdf, section.Image.DataURI, margin+2, top+2, imageBoxW-4, imageBoxH-4, imgSeq)
	}

	factsX := margin + imageBoxW + 8
	pdf.SetY(top)
	for _, fact := range section.Facts {
		pdf.SetX(factsX)
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(labelColor, labelColor, labelColor)
		pdf.CellFormat(32, 6, fact.Label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 9)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(contentW-imageBoxW-8-32, 6, fact.Value, "", "L", false)
	}
	if y := pdf.GetY(); y < top+imageBoxH {
		pdf.SetY(top + imageBoxH)
	}
	pdf.Ln(6)
}

func (r *PDFRenderer) price(pdf *gofpdf.Fpdf, card layout.PriceCard) {
	r.heading(pdf, card.Heading)
	top := pdf.GetY()

	rowH := 8.0
	pdf.SetFillColor(245, 245, 245)
	pdf.SetDrawColor(borderShade, borderShade, borderShade)
	pdf.Rect(margin, top, contentW, rowH*float64(len(card.Rows))+4, "FD")

	pdf.SetY(top + 2)
	for _, row := range card.Rows {
		pdf.SetX(margin + 4)
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(labelColor, labelColor, labelColor)
		pdf.CellFormat(contentW/2, rowH, row.Label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 10)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(contentW/2-8, rowH, row.Value, "", 1, "R", false, 0, "")
	}
	pdf.SetY(top + rowH*float64(len(card.Rows)) + 4)
	pdf.Ln(8)
}

func (r *PDFRenderer) signatures(pdf *gofpdf.Fpdf, boxes []layout.SignatureBox, imgSeq *int) {
	top := pdf.GetY()
	boxW := (contentW - 10) / 2

	for i, box := range boxes {
		x := margin + float64(i)*(boxW+10)

		pdf.SetDrawColor(borderShade, borderShade, borderShade)
		pdf.Rect(x, top, boxW, sigBoxH, "D")

		pdf.SetXY(x+3, top+2)
		pdf.SetFont("Arial", "B", 9)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(boxW-6, 5, box.Caption, "", 1, "L", false, 0, "")

		if !box.Raster.Empty() {
			r.placeImage(pdf, box.Raster.DataURI, x+3, top+8, boxW-6, sigBoxH-18, imgSeq)
		} else if box.Hint != "" {
			pdf.SetXY(x+3, top+sigBoxH/2-3)
			pdf.SetFont("Arial", "I", 8)
			pdf.SetTextColor(labelColor, labelColor, labelColor)
			pdf.CellFormat(boxW-6, 5, box.Hint, "", 0, "C", false, 0, "")
		}

		pdf.SetXY(x+3, top+sigBoxH-7)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(labelColor, labelColor, labelColor)
		pdf.CellFormat(14, 5, box.DateLabel, "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(boxW-20, 5, box.DateValue, "", 0, "L", false, 0, "")
	}

	pdf.SetY(top + sigBoxH)
	pdf.Ln(10)
}

func (r *PDFRenderer) footer(pdf *gofpdf.Fpdf, f layout.Footer) {
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(labelColor, labelColor, labelColor)
	for _, line := range f.Lines {
		pdf.CellFormat(contentW, 4, line, "", 1, "C", false, 0, "")
	}
}

func (r *PDFRenderer) heading(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Arial", "B", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(contentW, 7, text, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

// placeImage registers an embedded data URI under a unique name and draws
// it scaled to fit the given box, preserving aspect ratio. A malformed
// image is skipped rather than failing the whole document.
func (r *PDFRenderer) placeImage(pdf *gofpdf.Fpdf, dataURI string, x, y, maxW, maxH float64, seq *int) {
	raw, imgType, err := decodeDataURI(dataURI)
	if err != nil {
		return
	}

	*seq++
	name := fmt.Sprintf("embedded-%d", *seq)
	opts := gofpdf.ImageOptions{ImageType: imgType}
	info := pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(raw))
	if pdf.Err() {
		// gofpdf errors are sticky; drop this image, not the document.
		pdf.ClearError()
		return
	}
	if info == nil {
		return
	}

	iw, ih := info.Extent()
	if iw <= 0 || ih <= 0 {
		return
	}
	scale := maxW / iw
	if s := maxH / ih; s < scale {
		scale = s
	}
	if scale > 1 {
		scale = 1
	}

	w := iw * scale
	h := ih * scale
	pdf.ImageOptions(name, x+(maxW-w)/2, y+(maxH-h)/2, w, h, false, opts, 0, "")
}

func decodeDataURI(uri string) ([]byte, string, error) {
	head, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(head, "data:") {
		return nil, "", fmt.Errorf("not a data URI")
	}

	imgType := "PNG"
	switch {
	case strings.Contains(head, "image/jpeg"), strings.Contains(head, "image/jpg"):
		imgType = "JPG"
	case strings.Contains(head, "image/gif"):
		imgType = "GIF"
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image payload: %w", err)
	}
	return raw, imgType, nil
}
