package types

import "strings"

// Action is the kind of report being produced.
type Action string

// Supported actions.
const (
	ActionCalibration Action = "Kalibrering"
	ActionService     Action = "Service inspektion"
)

// IsCalibration reports whether the action selects the calibration
// certificate. Any action starting with "kalibr" (any case) does.
func (a Action) IsCalibration() bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(string(a))), "kalibr")
}

// Valid reports whether a is one of the supported actions.
func (a Action) Valid() bool {
	return a == ActionCalibration || a == ActionService
}

// Checklist status values as entered by the operator.
const (
	StatusGreen  = "green"
	StatusYellow = "yellow"
	StatusRed    = "red"
)

// ChecklistResult is the operator's answer for one checklist item.
// It is not stored on its own; a completed checklist is serialized into
// InspectionRecord.ResultsJSON.
type ChecklistResult struct {
	// Item is the checklist line as named in the template.
	Item string `json:"item"`

	// Instruction is the guidance text shown next to the item.
	Instruction string `json:"instruction"`

	// Status is one of green, yellow or red.
	Status string `json:"status"`

	// Note is optional free text appended to the item on the certificate.
	Note string `json:"note"`
}

// Report is everything needed to render a certificate.
type Report struct {
	// Timestamp is "YYYY-MM-DD HH:MM"; the date part is printed as the
	// calibration date.
	Timestamp string `json:"timestamp"`

	// User is the operator's full name.
	User string `json:"user"`

	// Action selects the certificate title.
	Action Action `json:"action"`

	// Equipment identifies the inspected unit.
	Equipment Equipment `json:"equipment"`

	// Results are the checklist answers in template order.
	Results []ChecklistResult `json:"results"`

	// Comment is free text printed under "Bemærkning".
	Comment string `json:"comment"`

	// NextDate is the next due date, "YYYY-MM-DD".
	NextDate string `json:"next_date"`

	// CalibratedTo is the optional calibration target, e.g. "150Nm".
	CalibratedTo string `json:"calibrated_to,omitempty"`

	// OrderNo is the optional order number.
	OrderNo string `json:"order_no,omitempty"`
}

// Date returns the date portion of the timestamp.
func (r Report) Date() string {
	date, _, _ := strings.Cut(r.Timestamp, " ")
	return date
}

// InspectionRecord is the append-only audit row written to the
// Inspections table for every completed report.
type InspectionRecord struct {
	Timestamp   string `json:"timestamp"`
	User        string `json:"user"`
	Action      string `json:"action"`
	Type        string `json:"type"`
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	Serial      string `json:"serial"`
	ResultsJSON string `json:"results_json"`
	Comment     string `json:"comment"`
	NextDate    string `json:"next_date"`

	// PdfPath is where the certificate was persisted, empty when saving failed.
	PdfPath string `json:"pdf_path"`

	// Recipients is the comma separated list the report was addressed to.
	Recipients string `json:"recipients"`
}

// LoginEvent is the append-only audit row written to the Logins table.
// Despite the name it is logged on report completion.
type LoginEvent struct {
	Timestamp string `json:"timestamp"`
	User      string `json:"user"`
	Action    string `json:"action"`

	// Equipment is the Type/Brand/Model/Serial label.
	Equipment string `json:"equipment"`
	NextDate  string `json:"next_date"`
}
