package workflow

import "errors"

var (
	// ErrWrongStep is returned when a transition is not allowed from the
	// session's current step.
	ErrWrongStep = errors.New("action not allowed in current step")

	// ErrNoChecklist is returned when the selected equipment has no
	// template or the template has no items.
	ErrNoChecklist = errors.New("no checklist for this equipment")

	// ErrUnknownEquipment is returned when selecting a unit that is not
	// in the catalog.
	ErrUnknownEquipment = errors.New("equipment not found")

	// ErrInvalidAction is returned for actions other than calibration and
	// service inspection.
	ErrInvalidAction = errors.New("unknown action")

	// ErrAuditIncomplete is returned by Complete when an audit row could
	// not be appended. Earlier side effects stay in place.
	ErrAuditIncomplete = errors.New("audit trail incomplete")

	ErrSessionNotFound = errors.New("session not found")
)

// NoChecklistHint tells the operator how to fix a resolution miss.
const NoChecklistHint = "Ingen tjekliste for denne kombination. Tilføj i Templates/TemplateItems."
