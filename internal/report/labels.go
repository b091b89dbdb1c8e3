package report

import (
	"strings"
	"time"

	"github.com/nordicmaskin/kma/types"
)

// Certificate titles and file name bases.
const (
	TitleCalibration = "Kalibreringscertifikat"
	TitleService     = "Service inspektionsrapport"

	BaseCalibration = "Kalibrering"
	BaseService     = "Service"
)

var statusLabels = map[string]string{
	types.StatusGreen:  "OK",
	types.StatusYellow: "ATTENTION",
	types.StatusRed:    "NOT OK",
}

// StatusLabel maps a checklist status to the label printed on the
// certificate. Unknown and empty values print as "-".
func StatusLabel(status string) string {
	if label, ok := statusLabels[strings.ToLower(status)]; ok {
		return label
	}
	return "-"
}

// Title returns the certificate title for an action.
func Title(action types.Action) string {
	if action.IsCalibration() {
		return TitleCalibration
	}
	return TitleService
}

// BaseName returns the file name prefix for an action.
func BaseName(action types.Action) string {
	if action.IsCalibration() {
		return BaseCalibration
	}
	return BaseService
}

// FileName builds <Base>_<Type>_<Brand>_<Model>_<Serial>_<YYYYMMDD_HHMMSS>.pdf.
// Path separators inside identity fields are replaced so the name stays a
// single path element.
func FileName(r types.Report, now time.Time) string {
	parts := []string{
		BaseName(r.Action),
		r.Equipment.Type,
		r.Equipment.Brand,
		r.Equipment.Model,
		r.Equipment.Serial,
		now.Format("20060102_150405"),
	}
	return pathSafe.Replace(strings.Join(parts, "_")) + ".pdf"
}

var pathSafe = strings.NewReplacer("/", "-", `\`, "-")

// ChecklistLine renders a bulleted item, followed by its note when present.
func ChecklistLine(res types.ChecklistResult) string {
	line := "- " + res.Item
	if res.Note != "" {
		line += " — " + res.Note
	}
	return line
}
