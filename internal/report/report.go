// Package report renders the fixed-layout A4 certificate for a completed
// calibration or service inspection.
package report

import (
	"bytes"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/nordicmaskin/kma/types"
)

const (
	pt = 25.4 / 72 // millimetres per point

	marginLeft   = 18.0
	marginRight  = 18.0
	marginTop    = 16.0
	marginBottom = 14.0

	timestampLayout = "2006-01-02 15:04"
)

// Fixed certificate text.
const (
	letterheadName    = "Nordic Maskin & Rail."
	letterheadAddress = "Krumtappen 5, 6580 Vamdrup"
	letterheadCVR     = "CVR. 36078405"

	disclaimer = "Udstysr kalibreres if. GAB-Banedanmark anlæg & fornyelse. " +
		"General arbejdsbeskrivelse for sporarbejde.(GAB spor) udgave 14 af. " +
		"D.4-4-2016 pct. 2.6.1.1"

	revisionFooter = "Revision 03-03-2022  Udarbejdet: SH    Kontrolleret: TJ    Godkendt: DCS"
)

type textStyle struct {
	style   string
	size    float64
	leading float64
}

var (
	styleH1    = textStyle{style: "B", size: 16, leading: 18}
	styleH2    = textStyle{style: "B", size: 12, leading: 14}
	styleText  = textStyle{size: 10, leading: 12}
	styleBold  = textStyle{style: "B", size: 10, leading: 12}
	styleSmall = textStyle{size: 9, leading: 11}
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithCompression toggles stream compression. Uncompressed output is
// larger but its text can be inspected directly.
func WithCompression(on bool) Option {
	return func(r *Renderer) { r.compress = on }
}

// Renderer turns reports into PDF bytes. It has no side effects.
type Renderer struct {
	compress bool
}

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{compress: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render renders rep with the default renderer.
func Render(rep types.Report) ([]byte, error) {
	return NewRenderer().Render(rep)
}

// Render lays out the certificate. The PDF dates come from the report
// timestamp, so the same report always yields the same bytes.
func (r *Renderer) Render(rep types.Report) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetCatalogSort(true)
	stamp := documentTime(rep.Timestamp)
	pdf.SetCreationDate(stamp)
	pdf.SetModificationDate(stamp)

	title := Title(rep.Action)
	pdf.SetTitle(title, true)
	pdf.SetAuthor(rep.User, true)
	pdf.SetCreator("KMA", true)

	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.AddPage()

	d := &doc{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	d.paragraph(letterheadName, styleH2, "L")
	d.paragraph(letterheadAddress, styleText, "L")
	d.paragraph(letterheadCVR, styleText, "L")
	d.space(6)

	d.paragraph(title, styleH1, "L")
	d.space(6 + 6)

	fieldWidths := []float64{30, 140}
	fields := [][2]string{
		{"Udstyr.", rep.Equipment.Type},
		{"Fabrikat.", rep.Equipment.Brand},
		// The certificate shows Model under "Serie nr." on purpose; the
		// business has not decided whether it should be Serial.
		{"Serie nr.", rep.Equipment.Model},
		{"Bemærkning", rep.Comment},
	}
	for _, f := range fields {
		d.row(fieldWidths, []cell{
			{text: f[0], style: styleBold},
			{text: f[1], style: styleText},
		}, rowOptions{padBottom: 4 * pt})
	}
	d.space(4)

	triWidths := []float64{50, 40, 40}
	d.row(triWidths, []cell{
		{text: "Kalibreret til.", style: styleBold, align: "C"},
		{text: "Ordre nr.", style: styleBold, align: "C"},
		{text: "Kalibreret Dato", style: styleBold, align: "C"},
	}, rowOptions{border: true, fill: true, padTop: 1, padBottom: 1})
	d.row(triWidths, []cell{
		{text: rep.CalibratedTo, style: styleText},
		{text: rep.OrderNo, style: styleText},
		{text: rep.Date(), style: styleText},
	}, rowOptions{border: true, padTop: 1, padBottom: 1})
	d.space(8)

	if len(rep.Results) > 0 {
		checkWidths := []float64{130, 40}
		for _, res := range rep.Results {
			d.row(checkWidths, []cell{
				{text: ChecklistLine(res), style: styleText},
				{text: StatusLabel(res.Status), style: styleSmall, align: "R"},
			}, rowOptions{padBottom: 3 * pt})
		}
		d.space(6)
	}

	d.paragraph(disclaimer, styleSmall, "L")
	d.space(8)

	d.paragraph("Næste kontrol dato: "+rep.NextDate, styleH2, "L")
	d.paragraph("Kontrolleret af: "+rep.User, styleH2, "L")
	d.space(14)

	d.paragraph(revisionFooter, styleSmall, "L")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func documentTime(timestamp string) time.Time {
	if ts, err := time.ParseInLocation(timestampLayout, timestamp, time.UTC); err == nil {
		return ts
	}
	return time.Unix(0, 0).UTC()
}
