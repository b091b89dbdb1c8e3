package report

import (
	"github.com/go-pdf/fpdf"
)

const fontFamily = "Helvetica"

var whitesmoke = [3]int{245, 245, 245}

type cell struct {
	text  string
	style textStyle
	align string
}

type rowOptions struct {
	border    bool
	fill      bool
	padTop    float64
	padBottom float64
}

// doc is a thin flow layout on top of fpdf: paragraphs and table rows
// stacked from the top margin down.
type doc struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (d *doc) setStyle(s textStyle) {
	d.pdf.SetFont(fontFamily, s.style, s.size)
}

func (d *doc) paragraph(text string, s textStyle, align string) {
	d.setStyle(s)
	d.pdf.SetX(marginLeft)
	d.pdf.MultiCell(0, s.leading*pt, d.tr(text), "", align, false)
}

// space adds vertical space given in points.
func (d *doc) space(points float64) {
	d.pdf.Ln(points * pt)
}

func (d *doc) lines(text string, s textStyle, width float64) int {
	d.setStyle(s)
	if text == "" {
		return 1
	}
	n := len(d.pdf.SplitLines([]byte(d.tr(text)), width))
	if n == 0 {
		return 1
	}
	return n
}

// row draws one table row, all cells as tall as the tallest one. The row
// moves to a new page first when it would cross the bottom margin.
func (d *doc) row(widths []float64, cells []cell, opts rowOptions) {
	height := 0.0
	for i, c := range cells {
		h := float64(d.lines(c.text, c.style, widths[i]-2*cellMargin(d.pdf))) * c.style.leading * pt
		if h > height {
			height = h
		}
	}
	height += opts.padTop + opts.padBottom

	_, pageHeight := d.pdf.GetPageSize()
	y := d.pdf.GetY()
	if y+height > pageHeight-marginBottom {
		d.pdf.AddPage()
		y = d.pdf.GetY()
	}

	x := marginLeft
	for i, c := range cells {
		w := widths[i]
		if opts.fill {
			d.pdf.SetFillColor(whitesmoke[0], whitesmoke[1], whitesmoke[2])
			d.pdf.Rect(x, y, w, height, "F")
		}
		if opts.border {
			d.pdf.SetLineWidth(0.3 * pt)
			d.pdf.Rect(x, y, w, height, "D")
		}
		align := c.align
		if align == "" {
			align = "L"
		}
		d.setStyle(c.style)
		d.pdf.SetXY(x, y+opts.padTop)
		d.pdf.MultiCell(w, c.style.leading*pt, d.tr(c.text), "", align, false)
		x += w
	}
	d.pdf.SetXY(marginLeft, y+height)
}

func cellMargin(pdf *fpdf.Fpdf) float64 {
	return pdf.GetCellMargin()
}
