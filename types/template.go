package types

// Template maps an equipment class to a named checklist.
type Template struct {
	// Name is the template key referenced by TemplateItem.Template.
	Name string `json:"name" yaml:"name"`

	// Type, Brand and Model select the equipment class the template applies to.
	Type  string `json:"type" yaml:"type"`
	Brand string `json:"brand" yaml:"brand"`
	Model string `json:"model" yaml:"model"`
}

// TemplateItem is one checklist line of a template. Items are ordered by
// their position in the TemplateItems table.
type TemplateItem struct {
	Template    string `json:"template" yaml:"-"`
	Item        string `json:"item" yaml:"item"`
	Instruction string `json:"instruction" yaml:"instruction"`
}

// Checklist is the outcome of resolving an equipment class to its items.
// A zero Checklist means no template matched.
type Checklist struct {
	Template string         `json:"template,omitempty"`
	Items    []TemplateItem `json:"items"`
}

// Found reports whether a template matched.
func (c Checklist) Found() bool {
	return c.Template != ""
}

// Empty reports whether there is nothing to inspect, either because no
// template matched or because the template has no items.
func (c Checklist) Empty() bool {
	return len(c.Items) == 0
}
