// Package report renders a sample record into the A4 collection report.
package report

import (
	"bytes"
	"fmt"
	"image/png"
	"regexp"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/qr"
	"github.com/go-pdf/fpdf"

	"github.com/oliveiraenergia/oilsample/internal/domain"
)

const (
	DefaultTitle = "Oliveira Energia - Amostra de óleo"
	NoNumber     = "SEM_NUMERO"

	margin     = 10.0
	qrSize     = 25.0
	barWidth   = 30.0
	barHeight  = 12.0
	rowHeight  = 4.5
	labelRatio = 0.655
	bodyFont   = 9.0
	minFont    = 6.0
)

type Renderer struct {
	Title string
}

func NewRenderer(title string) *Renderer {
	if title == "" {
		title = DefaultTitle
	}
	return &Renderer{Title: title}
}

// Render draws the QR code and barcode header followed by every form section,
// two label/value pairs per line.
func (r *Renderer) Render(form domain.Form) ([]byte, error) {
	number := form.SampleNumber()
	if number == "" {
		number = NoNumber
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(margin, margin, margin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(Sanitize(s)) }

	pageW, _ := pdf.GetPageSize()
	top := pdf.GetY()

	if err := r.drawCodes(pdf, number, pageW, top); err != nil {
		return nil, err
	}

	pdf.SetFont("Helvetica", "", 16)
	pdf.SetXY(margin, top+8)
	pdf.CellFormat(0, 10, text(r.Title), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	inner := pageW - 2*margin
	group := inner / 2
	labelW := group * labelRatio
	valueW := group - labelW

	for _, section := range domain.Sections {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(0, 7, text(section.Title), "1", 1, "", true, 0, "")

		fields := section.Fields
		for i := 0; i < len(fields); i += 2 {
			for j := i; j < i+2; j++ {
				if j >= len(fields) {
					pdf.CellFormat(labelW, rowHeight, "", "1", 0, "", false, 0, "")
					pdf.CellFormat(valueW, rowHeight, "", "1", 0, "", false, 0, "")
					continue
				}
				f := fields[j]
				fittedCell(pdf, labelW, text(f.Label))
				fittedCell(pdf, valueW, text(form.Get(f.Key)))
			}
			pdf.Ln(rowHeight)
		}
		pdf.Ln(1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawCodes(pdf *fpdf.Fpdf, number string, pageW, top float64) error {
	qrCode, err := qr.Encode(number, qr.M, qr.Auto)
	if err != nil {
		return fmt.Errorf("encode qr code: %w", err)
	}
	if err := placeImage(pdf, "qr", qrCode, 200, 200, margin, top, qrSize, qrSize); err != nil {
		return err
	}

	// Code128 only covers ASCII; numbers outside it get the QR code alone.
	bar, err := code128.Encode(number)
	if err != nil {
		return nil
	}
	x := pageW - margin - barWidth
	if err := placeImage(pdf, "barcode", bar, 300, 100, x, top+5, barWidth, barHeight); err != nil {
		return err
	}
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(x, top+5+barHeight)
	pdf.CellFormat(barWidth, 4, number, "", 0, "C", false, 0, "")
	return nil
}

func placeImage(pdf *fpdf.Fpdf, name string, code barcode.Barcode, pxW, pxH int, x, y, w, h float64) error {
	scaled, err := barcode.Scale(code, pxW, pxH)
	if err != nil {
		return fmt.Errorf("scale %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, &buf)
	pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	return pdf.Error()
}

// fittedCell shrinks the font until txt fits the cell width.
func fittedCell(pdf *fpdf.Fpdf, w float64, txt string) {
	size := bodyFont
	pdf.SetFont("Helvetica", "", size)
	for size > minFont && pdf.GetStringWidth(txt) > w-2 {
		size -= 0.5
		pdf.SetFontSize(size)
	}
	pdf.CellFormat(w, rowHeight, txt, "1", 0, "", false, 0, "")
	pdf.SetFontSize(bodyFont)
}

var replacer = strings.NewReplacer(
	"\u2013", "-",
	"\u2014", "-",
	"\u2011", "-",
	"\u00a0", " ",
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
)

// Sanitize replaces characters the core PDF fonts cannot show.
func Sanitize(s string) string {
	return replacer.Replace(s)
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName is the download name for a sample's report.
func FileName(number string) string {
	number = strings.TrimSpace(number)
	if number == "" {
		number = NoNumber
	}
	return "amostra_" + unsafeFileChars.ReplaceAllString(number, "_") + ".pdf"
}
