package types

import "strings"

// Equipment represents a single piece of equipment in the Equipment table.
// Its identity is the (Type, Brand, Model, Serial) tuple, compared after
// trimming and lowercasing.
type Equipment struct {
	// Type is the equipment class, e.g. "Spormål".
	Type string `json:"type"`

	// Brand is the manufacturer.
	Brand string `json:"brand"`

	// Model is the manufacturer's model designation.
	Model string `json:"model"`

	// Serial is the serial number. It is always kept as a string so
	// leading zeros survive a round trip through the store.
	Serial string `json:"serial"`

	// Notes is free text and the only field updated on an existing unit.
	Notes string `json:"notes,omitempty"`
}

// Identity returns the identity fields in table order.
func (e Equipment) Identity() []string {
	return []string{e.Type, e.Brand, e.Model, e.Serial}
}

// Label renders the identity as Type/Brand/Model/Serial.
func (e Equipment) Label() string {
	return strings.Join(e.Identity(), "/")
}
