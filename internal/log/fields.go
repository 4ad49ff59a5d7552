package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldKey         = "storage_key"
	FieldCount       = "count"
	FieldExpenseID   = "expense_id"
	FieldReceiptID   = "receipt_id"
	FieldFolderID    = "folder_id"
	FieldName        = "name"
	FieldAmountCents = "amount_cents"
	FieldCategory    = "category"
	FieldPerson      = "person"
	FieldRangeFrom   = "range_from"
	FieldRangeTo     = "range_to"
	FieldStatus      = "living_status"
	FieldRewritten   = "rewritten"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentStorage   = "storage"
	ComponentExpense   = "expense"
	ComponentTaxonomy  = "taxonomy"
	ComponentReceipt   = "receipt"
	ComponentSettings  = "settings"
	ComponentDashboard = "dashboard"
	ComponentExport    = "export"
	ComponentBackend   = "backend"
)

// Operations defines standard operation names
const (
	OpCreate  = "create"
	OpDelete  = "delete"
	OpList    = "list"
	OpRewrite = "rewrite"
	OpLoad    = "load"
	OpSave    = "save"
	OpWatch   = "watch"
	OpExport  = "export"
	OpRender  = "render"
)
