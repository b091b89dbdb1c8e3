package tabular

// Table names.
const (
	TableUsers         = "Users"
	TableEquipment     = "Equipment"
	TableTemplates     = "Templates"
	TableTemplateItems = "TemplateItems"
	TableInspections   = "Inspections"
	TableLogins        = "Logins"
)

// Schema lists the declared columns of every table in storage order.
var Schema = map[string][]string{
	TableUsers:         {"FullName", "PasswordHash", "Email", "IsActive"},
	TableEquipment:     {"Type", "Brand", "Model", "Serial", "Notes"},
	TableTemplates:     {"Template", "Type", "Brand", "Model"},
	TableTemplateItems: {"Template", "Item", "Instruction"},
	TableInspections: {
		"Timestamp", "User", "Action", "Type", "Brand", "Model", "Serial",
		"ResultsJSON", "Comment", "NextDate", "PdfPath", "Recipients",
	},
	TableLogins: {"Timestamp", "User", "Action", "Equipment", "NextDate"},
}

// Tables returns the table names in a stable order.
func Tables() []string {
	return []string{
		TableUsers,
		TableEquipment,
		TableTemplates,
		TableTemplateItems,
		TableInspections,
		TableLogins,
	}
}

// Columns returns the declared columns of a table and whether it exists.
func Columns(table string) ([]string, bool) {
	cols, ok := Schema[table]
	return cols, ok
}
